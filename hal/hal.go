package hal

import (
	"errors"
	"time"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

var (
	ErrNotImplemented = errors.New("not implemented")

	// ErrQuit is returned by a step function to end the host run loop cleanly.
	ErrQuit = errors.New("quit")
)

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGBA8888 is 32bpp, byte order R, G, B, A.
	PixelFormatRGBA8888 PixelFormat = iota + 1
)

// Framebuffer is a resizable pixel buffer plus a "present" hook.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	// Resize reallocates the backing store. Existing contents are discarded.
	Resize(width, height int)
	Present() error
}

// Display provides access to named drawing surfaces.
type Display interface {
	// Surface returns the framebuffer registered under id, or nil.
	Surface(id string) Framebuffer
}

// Viewport describes the logical area the host shows.
type Viewport interface {
	// Size returns the logical width and height.
	Size() (w, h int)
	// DeviceScale returns backing pixels per logical pixel.
	DeviceScale() float64
}

// Handle identifies a scheduled frame callback or timer. Zero is never issued.
type Handle uint64

// Scheduler is the host run loop. All callbacks run on the loop's single
// execution context, one at a time.
type Scheduler interface {
	// Now returns the monotonic loop time.
	Now() time.Duration
	// RequestFrame schedules fn for the next refresh step.
	RequestFrame(fn func(now time.Duration)) Handle
	CancelFrame(h Handle)
	// AfterFunc schedules fn to run once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle
	CancelTimer(h Handle)
	// PendingFrames returns the number of frame callbacks not yet run.
	PendingFrames() int
}

// EventKind enumerates host input and lifecycle signals.
type EventKind uint8

const (
	EventPointerMove EventKind = iota + 1
	EventPointerLeave
	EventTouchMove
	EventTouchEnd
	EventResize
	EventVisibility
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventPointerMove:
		return "pointer-move"
	case EventPointerLeave:
		return "pointer-leave"
	case EventTouchMove:
		return "touch-move"
	case EventTouchEnd:
		return "touch-end"
	case EventResize:
		return "resize"
	case EventVisibility:
		return "visibility"
	case EventKey:
		return "key"
	default:
		return "unknown"
	}
}

// Event is a host signal. X and Y are logical coordinates for pointer and
// touch events, and the new logical size for resize events.
type Event struct {
	Kind   EventKind
	X, Y   float64
	Hidden bool
	Rune   rune
}

// Events delivers host signals to subscribers on the loop's execution context.
type Events interface {
	Subscribe(fn func(Event)) (unsubscribe func())
}

// Preferences exposes user accessibility settings.
type Preferences interface {
	ReducedMotion() bool
}

// HAL provides the only contact point between the animation and the host.
// Any accessor may return nil when the host lacks the capability.
type HAL interface {
	Logger() Logger
	Display() Display
	Viewport() Viewport
	Scheduler() Scheduler
	Events() Events
	Preferences() Preferences
}
