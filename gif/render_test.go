package gif

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

var (
	testRed   = color.RGBA{R: 0xFF, A: 0xFF}
	testGreen = color.RGBA{G: 0xFF, A: 0xFF}
	testBlue  = color.RGBA{B: 0xFF, A: 0xFF}
	testClear = color.RGBA{}
)

func testPalette() color.Palette {
	return color.Palette{testRed, testGreen, testBlue, color.RGBA{A: 0xFF}}
}

// canvasMeta builds a 2x2 animation out of raw frame records, without
// going through the wire format.
func canvasMeta(frames ...*Frame) *Metadata {
	for i, frame := range frames {
		frame.Index = i
		if frame.Palette == nil {
			frame.Palette = testPalette()
		}
	}
	return &Metadata{Width: 2, Height: 2, Frames: frames}
}

func fullFrame(pixel byte, disposal DisposalMethod) *Frame {
	return &Frame{
		Rect:     image.Rect(0, 0, 2, 2),
		Pixels:   []byte{pixel, pixel, pixel, pixel},
		Disposal: disposal,
	}
}

func TestCompositorFrameZero(t *testing.T) {
	meta := canvasMeta(
		&Frame{Rect: image.Rect(0, 0, 1, 1), Pixels: []byte{0}},
		fullFrame(2, DisposalNone),
	)
	compositor := NewCompositor(meta)

	canvas, err := compositor.Render(0)
	if err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	if got := canvas.RGBAAt(0, 0); got != testRed {
		t.Errorf("(0,0) = %v, want red", got)
	}
	if got := canvas.RGBAAt(1, 1); got != testClear {
		t.Errorf("(1,1) = %v, want transparent", got)
	}

	// Wrapping back to frame 0 clears the whole canvas first.
	if _, err := compositor.Render(1); err != nil {
		t.Fatalf("Render(1): %v", err)
	}
	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0) again: %v", err)
	}
	if got := canvas.RGBAAt(1, 1); got != testClear {
		t.Errorf("(1,1) after wrap = %v, want transparent", got)
	}
}

func TestCompositorDoNotDispose(t *testing.T) {
	meta := canvasMeta(
		fullFrame(0, DisposalNone),
		&Frame{Rect: image.Rect(1, 1, 2, 2), Pixels: []byte{2}},
	)
	compositor := NewCompositor(meta)

	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	canvas, err := compositor.Render(1)
	if err != nil {
		t.Fatalf("Render(1): %v", err)
	}

	if got := canvas.RGBAAt(0, 0); got != testRed {
		t.Errorf("(0,0) = %v, want red left in place", got)
	}
	if got := canvas.RGBAAt(1, 1); got != testBlue {
		t.Errorf("(1,1) = %v, want blue", got)
	}
}

func TestCompositorRestoreToBackground(t *testing.T) {
	meta := canvasMeta(
		fullFrame(0, DisposalBackground),
		&Frame{Rect: image.Rect(0, 0, 1, 1), Pixels: []byte{2}},
	)
	compositor := NewCompositor(meta)

	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	canvas, err := compositor.Render(1)
	if err != nil {
		t.Fatalf("Render(1): %v", err)
	}

	// Frame 0's rectangle was cleared before frame 1 drew its pixel.
	if got := canvas.RGBAAt(0, 0); got != testBlue {
		t.Errorf("(0,0) = %v, want blue", got)
	}
	for _, at := range []image.Point{{1, 0}, {0, 1}, {1, 1}} {
		if got := canvas.RGBAAt(at.X, at.Y); got != testClear {
			t.Errorf("(%d,%d) = %v, want cleared", at.X, at.Y, got)
		}
	}
}

func TestCompositorRestoreToPrevious(t *testing.T) {
	// Restore-to-previous is approximated by the same clear as
	// restore-to-background.
	meta := canvasMeta(
		fullFrame(1, DisposalPrevious),
		&Frame{Rect: image.Rect(1, 0, 2, 1), Pixels: []byte{0}},
	)
	compositor := NewCompositor(meta)

	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	canvas, err := compositor.Render(1)
	if err != nil {
		t.Fatalf("Render(1): %v", err)
	}

	if got := canvas.RGBAAt(1, 0); got != testRed {
		t.Errorf("(1,0) = %v, want red", got)
	}
	if got := canvas.RGBAAt(0, 1); got != testClear {
		t.Errorf("(0,1) = %v, want cleared", got)
	}
}

func TestCompositorTransparencySkips(t *testing.T) {
	second := fullFrame(1, DisposalUnspecified)
	second.Pixels = []byte{3, 1, 1, 1}
	second.HasTransparency = true
	second.TransparentIndex = 3

	meta := canvasMeta(fullFrame(0, DisposalNone), second)
	compositor := NewCompositor(meta)

	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	canvas, err := compositor.Render(1)
	if err != nil {
		t.Fatalf("Render(1): %v", err)
	}

	// The transparent pixel keeps whatever the previous frame drew.
	if got := canvas.RGBAAt(0, 0); got != testRed {
		t.Errorf("(0,0) = %v, want red showing through", got)
	}
	if got := canvas.RGBAAt(1, 0); got != testGreen {
		t.Errorf("(1,0) = %v, want green", got)
	}
}

func TestCompositorIgnoresOutOfPaletteIndices(t *testing.T) {
	frame := fullFrame(0, DisposalUnspecified)
	frame.Pixels = []byte{200, 0, 0, 0}

	compositor := NewCompositor(canvasMeta(frame))
	canvas, err := compositor.Render(0)
	if err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	if got := canvas.RGBAAt(0, 0); got != testClear {
		t.Errorf("(0,0) = %v, want untouched", got)
	}
	if got := canvas.RGBAAt(1, 0); got != testRed {
		t.Errorf("(1,0) = %v, want red", got)
	}
}

func TestCompositorSnapshot(t *testing.T) {
	meta := canvasMeta(fullFrame(0, DisposalNone), fullFrame(2, DisposalNone))
	compositor := NewCompositor(meta)

	if _, err := compositor.Render(0); err != nil {
		t.Fatalf("Render(0): %v", err)
	}
	snapshot := compositor.Snapshot()
	if _, err := compositor.Render(1); err != nil {
		t.Fatalf("Render(1): %v", err)
	}

	if got := snapshot.RGBAAt(0, 0); got != testRed {
		t.Errorf("snapshot (0,0) = %v, want red", got)
	}
	if got := compositor.Canvas().RGBAAt(0, 0); got != testBlue {
		t.Errorf("canvas (0,0) = %v, want blue", got)
	}
}

func TestCompositorFrameRange(t *testing.T) {
	compositor := NewCompositor(canvasMeta(fullFrame(0, DisposalNone)))

	for _, index := range []int{-1, 1, 42} {
		if _, err := compositor.Render(index); !errors.Is(err, ErrFrameRange) {
			t.Errorf("Render(%d): got %v, want ErrFrameRange", index, err)
		}
	}
}
