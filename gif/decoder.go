package gif

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"time"

	"golang.org/x/text/encoding/charmap"

	"github.com/jefftier/gifplay/gif/lzw"
)

const defaultDelay = 100 * time.Millisecond

type Decoder struct {
	cursor *Cursor
	meta   *Metadata
}

// Decode parses a complete GIF buffer into Metadata. The buffer is
// decoded in full before returning; no partial state is exposed on
// failure.
func Decode(data []byte) (*Metadata, error) {
	decoder := &Decoder{
		cursor: NewCursor(data),
		meta:   &Metadata{},
	}
	if err := decoder.decode(); err != nil {
		return nil, err
	}
	return decoder.meta, nil
}

func DecodeReader(r io.Reader) (*Metadata, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (decoder *Decoder) decode() error {
	if err := decoder.decodeHeader(); err != nil {
		return err
	}

	// The graphic control extension modifies the next image descriptor,
	// so it is carried between loop iterations and consumed on attach.
	var pending *graphicControl

	for {
		introducer, err := decoder.cursor.ReadByte()
		if err != nil {
			// Ran off the end at a block boundary. Tolerated, some
			// writers drop the trailer.
			break
		}

		switch introducer {
		case blockExtension:
			pending, err = decoder.decodeExtension(pending)
			if err != nil {
				return err
			}
		case blockImageDescriptor:
			if err := decoder.decodeFrame(pending); err != nil {
				return err
			}
			pending = nil
		case blockTrailer:
			return decoder.finish()
		default:
			// Unknown introducer, stop before misparsing the rest.
			return decoder.finish()
		}
	}
	return decoder.finish()
}

func (decoder *Decoder) decodeHeader() error {
	signature, err := decoder.cursor.ReadBytes(6)
	if err != nil {
		return err
	}
	version := string(signature)
	if version != Version87a && version != Version89a {
		return ErrInvalidFormat
	}
	decoder.meta.Version = version

	width, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	height, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	flags, err := decoder.cursor.ReadByte()
	if err != nil {
		return err
	}
	background, err := decoder.cursor.ReadByte()
	if err != nil {
		return err
	}
	aspect, err := decoder.cursor.ReadByte()
	if err != nil {
		return err
	}

	decoder.meta.Width = int(width)
	decoder.meta.Height = int(height)
	decoder.meta.BackgroundIndex = background
	decoder.meta.AspectRatio = aspect

	if flags&0x80 != 0 {
		palette, err := decoder.readColorTable(flags & 0x07)
		if err != nil {
			return err
		}
		decoder.meta.GlobalPalette = palette
	}
	return nil
}

func (decoder *Decoder) readColorTable(sizeBits byte) (color.Palette, error) {
	size := 2 << sizeBits
	buf, err := decoder.cursor.ReadBytes(3 * size)
	if err != nil {
		return nil, err
	}
	palette := make(color.Palette, size)
	for i := range palette {
		palette[i] = color.RGBA{R: buf[3*i], G: buf[3*i+1], B: buf[3*i+2], A: 0xFF}
	}
	return palette, nil
}

type graphicControl struct {
	disposal         DisposalMethod
	delay            time.Duration
	hasTransparency  bool
	transparentIndex byte
	userInput        bool
}

func (decoder *Decoder) decodeExtension(pending *graphicControl) (*graphicControl, error) {
	label, err := decoder.cursor.ReadByte()
	if err != nil {
		return pending, err
	}

	switch label {
	case extGraphicControl:
		return decoder.decodeGraphicControl()
	case extApplication:
		return pending, decoder.decodeApplication()
	case extComment:
		return pending, decoder.decodeComment()
	default:
		// Plain text and anything unrecognized: skip the payload run.
		_, err := decoder.cursor.ReadSubBlocks()
		return pending, err
	}
}

func (decoder *Decoder) decodeGraphicControl() (*graphicControl, error) {
	payload, err := decoder.cursor.ReadSubBlocks()
	if err != nil {
		return nil, err
	}
	if len(payload) != 4 {
		return nil, fmt.Errorf("%w: graphic control payload of %d bytes", ErrInvalidFormat, len(payload))
	}

	control := &graphicControl{
		disposal:  DisposalMethod(payload[0] >> 2 & 0x07),
		delay:     time.Duration(uint16(payload[1])|uint16(payload[2])<<8) * 10 * time.Millisecond,
		userInput: payload[0]&0x02 != 0,
	}
	if control.disposal > DisposalPrevious {
		control.disposal = DisposalUnspecified
	}
	if payload[0]&0x01 != 0 {
		control.hasTransparency = true
		control.transparentIndex = payload[3]
	}
	return control, nil
}

func (decoder *Decoder) decodeApplication() error {
	identifier, err := decoder.cursor.ReadSubBlock()
	if err != nil {
		return err
	}
	if string(identifier) != "NETSCAPE2.0" {
		_, err := decoder.cursor.ReadSubBlocks()
		return err
	}

	block, err := decoder.cursor.ReadSubBlock()
	if err != nil {
		return err
	}
	if len(block) == 3 && block[0] == 0x01 {
		decoder.meta.LoopCount = int(block[1]) | int(block[2])<<8
	}
	_, err = decoder.cursor.ReadSubBlocks()
	return err
}

func (decoder *Decoder) decodeComment() error {
	raw, err := decoder.cursor.ReadSubBlocks()
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	text, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		text = raw
	}
	decoder.meta.Comments = append(decoder.meta.Comments, string(text))
	return nil
}

func (decoder *Decoder) decodeFrame(control *graphicControl) error {
	left, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	top, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	width, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	height, err := decoder.cursor.ReadUint16()
	if err != nil {
		return err
	}
	flags, err := decoder.cursor.ReadByte()
	if err != nil {
		return err
	}

	rect := image.Rect(int(left), int(top), int(left)+int(width), int(top)+int(height))
	if !rect.In(decoder.meta.Bounds()) {
		return fmt.Errorf("%w: frame bounds %v outside canvas %v", ErrInvalidFormat, rect, decoder.meta.Bounds())
	}

	palette := decoder.meta.GlobalPalette
	local := false
	if flags&0x80 != 0 {
		palette, err = decoder.readColorTable(flags & 0x07)
		if err != nil {
			return err
		}
		local = true
	}
	if palette == nil {
		return fmt.Errorf("%w: frame without a color table", ErrInvalidFormat)
	}

	litWidth, err := decoder.cursor.ReadByte()
	if err != nil {
		return err
	}
	compressed, err := decoder.cursor.ReadSubBlocks()
	if err != nil {
		return err
	}

	pixels := make([]byte, int(width)*int(height))
	painter, err := lzw.NewDecoder(compressed, int(litWidth), len(pixels))
	if err != nil {
		return fmt.Errorf("%w: minimum code size %d", ErrInvalidFormat, litWidth)
	}
	if _, err := io.ReadFull(painter, pixels); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrUnexpectedEndOfData
		}
		return err
	}

	interlaced := flags&0x40 != 0
	if interlaced {
		pixels = deinterlace(pixels, int(width), int(height))
	}

	frame := &Frame{
		Index:        len(decoder.meta.Frames),
		Rect:         rect,
		Palette:      palette,
		LocalPalette: local,
		Interlaced:   interlaced,
		Pixels:       pixels,
		Delay:        defaultDelay,
		Disposal:     DisposalUnspecified,
	}
	if control != nil {
		frame.Disposal = control.disposal
		frame.HasTransparency = control.hasTransparency
		frame.TransparentIndex = control.transparentIndex
		frame.UserInput = control.userInput
		if control.delay > 0 {
			frame.Delay = control.delay
		}
	}
	decoder.meta.Frames = append(decoder.meta.Frames, frame)
	return nil
}

// The four interlace passes: every 8th row from 0, every 8th from 4,
// every 4th from 2, every 2nd from 1.
var interlacePasses = []struct {
	start, step int
}{
	{0, 8},
	{4, 8},
	{2, 4},
	{1, 2},
}

func deinterlace(pixels []byte, width, height int) []byte {
	out := make([]byte, len(pixels))
	src := 0
	for _, pass := range interlacePasses {
		for y := pass.start; y < height; y += pass.step {
			copy(out[y*width:(y+1)*width], pixels[src:src+width])
			src += width
		}
	}
	return out
}

func (decoder *Decoder) finish() error {
	for _, frame := range decoder.meta.Frames {
		decoder.meta.Duration += frame.Delay
	}
	return nil
}
