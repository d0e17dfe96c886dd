// Package gif decodes GIF87a and GIF89a images and animations.
package gif

import (
	"errors"
	"image"
	"image/color"
	"time"
)

const (
	Version87a = "GIF87a"
	Version89a = "GIF89a"
)

var (
	ErrInvalidFormat       = errors.New("gif: invalid format")
	ErrUnexpectedEndOfData = errors.New("gif: unexpected end of data")
	ErrFrameRange          = errors.New("gif: frame index out of range")
)

const (
	blockExtension       = 0x21
	blockImageDescriptor = 0x2C
	blockTrailer         = 0x3B

	extPlainText      = 0x01
	extGraphicControl = 0xF9
	extComment        = 0xFE
	extApplication    = 0xFF
)

type DisposalMethod uint8

const (
	DisposalUnspecified DisposalMethod = 0
	DisposalNone        DisposalMethod = 1
	DisposalBackground  DisposalMethod = 2
	DisposalPrevious    DisposalMethod = 3
)

func (method DisposalMethod) String() string {
	switch method {
	case DisposalUnspecified:
		return "unspecified"
	case DisposalNone:
		return "none"
	case DisposalBackground:
		return "background"
	case DisposalPrevious:
		return "previous"
	}
	return "invalid"
}

type Frame struct {
	Index            int
	Rect             image.Rectangle
	Palette          color.Palette
	LocalPalette     bool
	Interlaced       bool
	Pixels           []byte
	Delay            time.Duration
	Disposal         DisposalMethod
	HasTransparency  bool
	TransparentIndex byte

	// UserInput mirrors the graphic control wait-for-input bit. It is
	// carried for callers; the scheduler ignores it.
	UserInput bool
}

func (frame *Frame) PixelCount() int { return frame.Rect.Dx() * frame.Rect.Dy() }

// Metadata is the complete decoded description of one GIF stream. It is
// immutable once produced by Decode.
type Metadata struct {
	Version         string
	Width, Height   int
	GlobalPalette   color.Palette
	BackgroundIndex byte
	AspectRatio     byte

	// LoopCount holds the NETSCAPE2.0 repeat count: 0 means loop
	// forever, N > 0 means play N times.
	LoopCount int
	Comments  []string
	Frames    []*Frame
	Duration  time.Duration
}

func (meta *Metadata) FrameCount() int { return len(meta.Frames) }

func (meta *Metadata) IsAnimated() bool { return len(meta.Frames) > 1 }

func (meta *Metadata) Bounds() image.Rectangle { return image.Rect(0, 0, meta.Width, meta.Height) }

func (meta *Metadata) Delays() []time.Duration {
	delays := make([]time.Duration, len(meta.Frames))
	for i, frame := range meta.Frames {
		delays[i] = frame.Delay
	}
	return delays
}
