package gif

import (
	"image"
	"image/draw"
)

// Compositor owns the canvas for one playback and renders frames onto
// it, resolving the previous frame's disposal before each draw. It is
// not safe for concurrent use; every player keeps its own.
type Compositor struct {
	meta   *Metadata
	canvas *image.RGBA
	last   int
}

func NewCompositor(meta *Metadata) *Compositor {
	return &Compositor{
		meta:   meta,
		canvas: image.NewRGBA(meta.Bounds()),
		last:   -1,
	}
}

func (compositor *Compositor) Canvas() *image.RGBA { return compositor.canvas }

func (compositor *Compositor) Render(index int) (*image.RGBA, error) {
	if index < 0 || index >= len(compositor.meta.Frames) {
		return nil, ErrFrameRange
	}

	if index == 0 || compositor.last < 0 {
		// Frame 0 starts from a blank canvas, there is nothing to
		// dispose of.
		compositor.clear(compositor.canvas.Bounds())
	} else {
		previous := compositor.meta.Frames[compositor.last]
		switch previous.Disposal {
		case DisposalBackground, DisposalPrevious:
			compositor.clear(previous.Rect)
		}
	}

	compositor.paint(compositor.meta.Frames[index])
	compositor.last = index
	return compositor.canvas, nil
}

// Snapshot copies the current canvas so callers can hold a frame past
// the next Render.
func (compositor *Compositor) Snapshot() *image.RGBA {
	out := image.NewRGBA(compositor.canvas.Rect)
	copy(out.Pix, compositor.canvas.Pix)
	return out
}

func (compositor *Compositor) clear(rect image.Rectangle) {
	draw.Draw(compositor.canvas, rect, image.Transparent, image.Point{}, draw.Src)
}

func (compositor *Compositor) paint(frame *Frame) {
	width := frame.Rect.Dx()
	if width == 0 {
		return
	}
	for i, idx := range frame.Pixels {
		if frame.HasTransparency && idx == frame.TransparentIndex {
			continue
		}
		if int(idx) >= len(frame.Palette) {
			continue
		}
		x := frame.Rect.Min.X + i%width
		y := frame.Rect.Min.Y + i/width
		compositor.canvas.Set(x, y, frame.Palette[idx])
	}
}
