package app

import (
	"fmt"
	"sync/atomic"

	"nebula/gfx"
	"nebula/particles"
)

var (
	hudBackdrop = gfx.RGBA(0, 0, 0, 160)
	hudText     = gfx.RGB(226, 232, 240)
)

// HUD is a small stats panel drawn over the presented frame. update runs on
// the host loop; Draw may run on the presenting goroutine.
type HUD struct {
	lines  atomic.Pointer[[]string]
	remote atomic.Pointer[string]
}

func NewHUD() *HUD { return &HUD{} }

func (h *HUD) setRemote(addr string) { h.remote.Store(&addr) }

func (h *HUD) update(st particles.Stats, state particles.State) {
	lines := []string{
		fmt.Sprintf("fps %5.1f  %s", st.FPS, state),
		fmt.Sprintf("particles %d", st.Particles),
		fmt.Sprintf("links %d/%d", st.Connections, st.Pairs),
	}
	if addr := h.remote.Load(); addr != nil {
		lines = append(lines, "remote ws://"+*addr+"/ws")
	}
	h.lines.Store(&lines)
}

// Lines returns the text the next Draw shows.
func (h *HUD) Lines() []string {
	if p := h.lines.Load(); p != nil {
		return *p
	}
	return nil
}

// Draw paints the panel into the top-left corner of an RGBA frame.
func (h *HUD) Draw(pix []byte, w, ht int) {
	lines := h.Lines()
	if len(lines) == 0 {
		return
	}
	t := gfx.NewRGBATarget(pix, w, ht)

	const pad = 4
	lh := gfx.LineHeight()
	maxW := 0
	for _, l := range lines {
		maxW = max(maxW, gfx.TextWidth(l))
	}
	t.FillRect(0, 0, maxW+2*pad, len(lines)*lh+2*pad, hudBackdrop)
	for i, l := range lines {
		gfx.DrawText(t, pad, pad+i*lh, l, hudText)
	}
}
