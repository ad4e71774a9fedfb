// Package remote feeds pointer positions from websocket clients into a host
// loop, so a phone or a second browser tab can steer the particle field.
//
// Each text message is a JSON object: {"x":120,"y":48} moves the pointer and
// {"leave":true} clears it. Coordinates are logical viewport units.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"nebula/hal"
)

// Message is one pointer update from a client.
type Message struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Touch bool    `json:"touch,omitempty"`
	Leave bool    `json:"leave,omitempty"`
}

// Event converts m into the host event it stands for.
func (m Message) Event() hal.Event {
	switch {
	case m.Leave && m.Touch:
		return hal.Event{Kind: hal.EventTouchEnd}
	case m.Leave:
		return hal.Event{Kind: hal.EventPointerLeave}
	case m.Touch:
		return hal.Event{Kind: hal.EventTouchMove, X: m.X, Y: m.Y}
	default:
		return hal.Event{Kind: hal.EventPointerMove, X: m.X, Y: m.Y}
	}
}

// DecodeMessage parses one client frame.
func DecodeMessage(b []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return Message{}, fmt.Errorf("remote: decode: %w", err)
	}
	return m, nil
}

// Server accepts websocket clients on /ws and posts their pointer updates.
type Server struct {
	post hal.Poster
	log  hal.Logger

	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
	srv   *http.Server
	ln    net.Listener
}

func NewServer(post hal.Poster, log hal.Logger) *Server {
	return &Server{
		post: post,
		log:  log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.log == nil {
		return
	}
	s.log.WriteLineString("remote: " + fmt.Sprintf(format, args...))
}

// Handler returns the HTTP handler serving the websocket endpoint.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	return mux
}

// Listen binds addr. Addr reports the bound address afterwards.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("remote: listen %s: %w", addr, err)
	}
	s.mu.Lock()
	s.ln = ln
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.mu.Unlock()
	return nil
}

// Addr returns the listening address, or "" before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Serve accepts clients until ctx is done. It returns nil after a clean
// shutdown.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	srv, ln := s.srv, s.ln
	s.mu.Unlock()
	if srv == nil {
		return errors.New("remote: Serve before Listen")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			s.closeConns()
		case <-done:
		}
	}()

	s.logf("listening on %s", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("remote: serve: %w", err)
	}
	return nil
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var hs websocket.HandshakeError
		if !errors.As(err, &hs) {
			s.logf("upgrade: %v", err)
		}
		return
	}
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
	go s.readSocket(conn)
}

func (s *Server) readSocket(conn *websocket.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		conn.Close()
		// A vanished client must not leave the pointer stuck in the field.
		s.post.Post(hal.Event{Kind: hal.EventPointerLeave})
	}()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logf("read: %v", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		m, err := DecodeMessage(msg)
		if err != nil {
			s.logf("%v", err)
			continue
		}
		if !s.post.Post(m.Event()) {
			s.logf("event dropped, host inbox full")
		}
	}
}

func (s *Server) closeConns() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"),
			time.Now().Add(100*time.Millisecond))
		c.Close()
	}
}
