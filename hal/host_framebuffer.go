package hal

import "sync"

type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	f := &hostFramebuffer{}
	f.Resize(width, height)
	return f
}

func (f *hostFramebuffer) Width() int          { return f.width }
func (f *hostFramebuffer) Height() int         { return f.height }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGBA8888 }
func (f *hostFramebuffer) StrideBytes() int    { return f.stride }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.width = width
	f.height = height
	f.stride = width * 4
	if n := f.stride * height; cap(f.buf) >= n {
		f.buf = f.buf[:n]
		clear(f.buf)
	} else {
		f.buf = make([]byte, n)
	}
}

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i := 0; i+3 < len(f.buf); i += 4 {
		f.buf[i] = r
		f.buf[i+1] = g
		f.buf[i+2] = b
		f.buf[i+3] = 0xFF
	}
}

// snapshot copies the current contents into dst, growing it as needed, and
// returns it with the dimensions it describes.
func (f *hostFramebuffer) snapshot(dst []byte) ([]byte, int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if cap(dst) < len(f.buf) {
		dst = make([]byte, len(f.buf))
	}
	dst = dst[:len(f.buf)]
	copy(dst, f.buf)
	return dst, f.width, f.height
}
