package remote

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"nebula/hal"
)

type chanPoster struct {
	ch chan hal.Event
}

func newChanPoster() *chanPoster { return &chanPoster{ch: make(chan hal.Event, 16)} }

func (p *chanPoster) Post(ev hal.Event) bool {
	select {
	case p.ch <- ev:
		return true
	default:
		return false
	}
}

func (p *chanPoster) next(t *testing.T) hal.Event {
	t.Helper()
	select {
	case ev := <-p.ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no event posted")
		return hal.Event{}
	}
}

func TestMessageEvent(t *testing.T) {
	tests := []struct {
		in   string
		want hal.Event
	}{
		{`{"x":1.5,"y":2}`, hal.Event{Kind: hal.EventPointerMove, X: 1.5, Y: 2}},
		{`{"x":3,"y":4,"touch":true}`, hal.Event{Kind: hal.EventTouchMove, X: 3, Y: 4}},
		{`{"leave":true}`, hal.Event{Kind: hal.EventPointerLeave}},
		{`{"leave":true,"touch":true}`, hal.Event{Kind: hal.EventTouchEnd}},
	}
	for _, tt := range tests {
		m, err := DecodeMessage([]byte(tt.in))
		if err != nil {
			t.Fatalf("DecodeMessage(%s) error: %v", tt.in, err)
		}
		if got := m.Event(); got != tt.want {
			t.Fatalf("DecodeMessage(%s).Event() = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	if _, err := DecodeMessage([]byte("not json")); err == nil {
		t.Fatalf("DecodeMessage(garbage) error = nil")
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws := "ws" + strings.TrimPrefix(url, "http") + "/ws"
	c, _, err := websocket.DefaultDialer.Dial(ws, nil)
	if err != nil {
		t.Fatalf("Dial(%s): %v", ws, err)
	}
	return c
}

func TestServerPostsPointerEvents(t *testing.T) {
	p := newChanPoster()
	s := NewServer(p, nil)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := dial(t, ts.URL)
	if err := c.WriteMessage(websocket.TextMessage, []byte(`{"x":10,"y":20}`)); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}
	if got := p.next(t); got != (hal.Event{Kind: hal.EventPointerMove, X: 10, Y: 20}) {
		t.Fatalf("posted %+v", got)
	}

	// Bad frames are skipped, the connection stays up.
	_ = c.WriteMessage(websocket.TextMessage, []byte(`{`))
	_ = c.WriteMessage(websocket.TextMessage, []byte(`{"leave":true}`))
	if got := p.next(t); got.Kind != hal.EventPointerLeave {
		t.Fatalf("posted %+v, want pointer leave", got)
	}

	c.Close()
	if got := p.next(t); got.Kind != hal.EventPointerLeave {
		t.Fatalf("after disconnect posted %+v, want pointer leave", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := NewServer(newChanPoster(), nil)
	if err := s.Serve(context.Background()); err == nil {
		t.Fatalf("Serve before Listen error = nil")
	}
	if err := s.Listen("127.0.0.1:0"); err != nil {
		t.Fatalf("Listen: %v", err)
	}
	if s.Addr() == "" {
		t.Fatalf("Addr() empty after Listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()

	c := dial(t, "http://"+s.Addr())
	defer c.Close()

	cancel()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Serve() = %v, want nil", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
}
