package rendering

import (
	"image"
	"sync"
)

// Surface hands frames from the playback goroutines to the render
// loop. Only the newest frame is kept; the sequence number lets the
// loop skip uploads when nothing changed.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA
	seq uint64
}

func NewSurface() *Surface {
	return &Surface{}
}

// Publish replaces the pending frame.
func (surface *Surface) Publish(img *image.RGBA) {
	surface.mu.Lock()
	surface.img = img
	surface.seq++
	surface.mu.Unlock()
}

// Latest returns the newest frame and its sequence number without
// blocking.
func (surface *Surface) Latest() (*image.RGBA, uint64) {
	surface.mu.Lock()
	defer surface.mu.Unlock()
	return surface.img, surface.seq
}
