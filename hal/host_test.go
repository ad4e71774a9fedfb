package hal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHostFramebufferResize(t *testing.T) {
	fb := newHostFramebuffer(4, 2)
	if fb.StrideBytes() != 16 || len(fb.Buffer()) != 32 {
		t.Fatalf("stride=%d len=%d, want 16 and 32", fb.StrideBytes(), len(fb.Buffer()))
	}

	fb.ClearRGB(1, 2, 3)
	fb.Resize(2, 2)
	if fb.Width() != 2 || fb.Height() != 2 || len(fb.Buffer()) != 16 {
		t.Fatalf("after Resize: %dx%d len=%d", fb.Width(), fb.Height(), len(fb.Buffer()))
	}
	for i, b := range fb.Buffer() {
		if b != 0 {
			t.Fatalf("Buffer()[%d] = %d after Resize, want 0", i, b)
		}
	}

	fb.Resize(-1, 3)
	if fb.Width() != 0 || len(fb.Buffer()) != 0 {
		t.Fatalf("negative Resize: width=%d len=%d", fb.Width(), len(fb.Buffer()))
	}
}

func TestHostDisplaySurfaceLookup(t *testing.T) {
	h := newHostHAL(HostConfig{Log: &bytes.Buffer{}}, 10, 10, 1)

	if fb := h.Display().Surface(SurfaceParticles); fb == nil {
		t.Fatalf("Surface(%q) = nil", SurfaceParticles)
	}
	if fb := h.Display().Surface("missing"); fb != nil {
		t.Fatalf("Surface(missing) = %v, want nil", fb)
	}
}

func TestHostResizePostsOnChange(t *testing.T) {
	h := newHostHAL(HostConfig{Log: &bytes.Buffer{}}, 10, 10, 1)

	var got []Event
	h.Events().Subscribe(func(ev Event) { got = append(got, ev) })

	h.resize(10, 10, 1)
	h.resize(20, 30, 2)
	h.loop.Step()

	if len(got) != 1 {
		t.Fatalf("resize events = %d, want 1", len(got))
	}
	if got[0].Kind != EventResize || got[0].X != 20 || got[0].Y != 30 {
		t.Fatalf("event = %+v, want resize 20x30", got[0])
	}
	if w, ht := h.Viewport().Size(); w != 20 || ht != 30 {
		t.Fatalf("Viewport().Size() = %d,%d, want 20,30", w, ht)
	}
	if s := h.Viewport().DeviceScale(); s != 2 {
		t.Fatalf("DeviceScale() = %v, want 2", s)
	}
}

func TestHostLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	h := newHostHAL(HostConfig{Log: &buf}, 1, 1, 1)
	h.Logger().WriteLineString("a")
	h.Logger().WriteLineBytes([]byte("b"))
	if got := buf.String(); got != "a\nb\n" {
		t.Fatalf("log = %q, want %q", got, "a\nb\n")
	}
}

func TestPosterOf(t *testing.T) {
	h := newHostHAL(HostConfig{Log: &bytes.Buffer{}}, 1, 1, 1)
	if _, ok := PosterOf(h); !ok {
		t.Fatalf("PosterOf(host) ok = false")
	}
	if _, ok := PosterOf(nil); ok {
		t.Fatalf("PosterOf(nil) ok = true")
	}
}

func TestCellPointerEvent(t *testing.T) {
	ev := cellPointerEvent(3, 4)
	if ev.Kind != EventPointerMove || ev.X != 3.5 || ev.Y != 9 {
		t.Fatalf("cellPointerEvent(3,4) = %+v, want move at 3.5,9", ev)
	}
}

func TestTermPixelBounds(t *testing.T) {
	pix := []byte{10, 20, 30, 255}
	if c := termPixel(pix, 1, 1, 5, 5); c == termPixel(pix, 1, 1, 0, 0) {
		t.Fatalf("out-of-bounds pixel matched in-bounds color")
	}
}

func TestRunHeadlessTicksAndSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	steps := 0
	err := RunHeadless(context.Background(), func(h HAL) func() error {
		h.Display().Surface(SurfaceParticles).ClearRGB(255, 0, 0)
		return func() error { steps++; return nil }
	}, HeadlessConfig{
		HostConfig: HostConfig{Log: &bytes.Buffer{}},
		Hz:         1000,
		Ticks:      5,
		Width:      8,
		Height:     4,
		Orbit:      true,
		Snapshot:   path,
	})
	if err != nil {
		t.Fatalf("RunHeadless() = %v", err)
	}
	if steps != 5 {
		t.Fatalf("steps = %d, want 5", steps)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "\x89PNG") {
		t.Fatalf("snapshot is not a PNG")
	}
}

func TestRunHeadlessQuit(t *testing.T) {
	err := RunHeadless(context.Background(), func(HAL) func() error {
		return func() error { return ErrQuit }
	}, HeadlessConfig{HostConfig: HostConfig{Log: &bytes.Buffer{}}, Hz: 1000})
	if err != nil {
		t.Fatalf("RunHeadless() = %v, want nil on ErrQuit", err)
	}

	boom := errors.New("boom")
	err = RunHeadless(context.Background(), func(HAL) func() error {
		return func() error { return boom }
	}, HeadlessConfig{HostConfig: HostConfig{Log: &bytes.Buffer{}}, Hz: 1000})
	if !errors.Is(err, boom) {
		t.Fatalf("RunHeadless() = %v, want %v", err, boom)
	}
}

func TestRunHeadlessCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RunHeadless(ctx, func(HAL) func() error { return nil }, HeadlessConfig{HostConfig: HostConfig{Log: &bytes.Buffer{}}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("RunHeadless() = %v, want context.Canceled", err)
	}
}
