package gif

import (
	"fmt"
	"io"
	"time"
)

// Inspect walks the block structure of a GIF buffer and writes one
// line per block to w, with file offsets, without decoding any pixel
// data.
func Inspect(w io.Writer, data []byte) error {
	cursor := NewCursor(data)

	signature, err := cursor.ReadBytes(6)
	if err != nil {
		return err
	}
	version := string(signature)
	if version != Version87a && version != Version89a {
		return ErrInvalidFormat
	}

	width, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	height, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	flags, err := cursor.ReadByte()
	if err != nil {
		return err
	}
	background, err := cursor.ReadByte()
	if err != nil {
		return err
	}
	aspect, err := cursor.ReadByte()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %dx%d, background %d, aspect %d\n", version, width, height, background, aspect)

	if flags&0x80 != 0 {
		size := 2 << (flags & 0x07)
		fmt.Fprintf(w, "0x%06X global color table, %d entries\n", cursor.Pos(), size)
		cursor.Seek(cursor.Pos() + 3*size)
	}

	for {
		pos := cursor.Pos()
		introducer, err := cursor.ReadByte()
		if err != nil {
			fmt.Fprintf(w, "0x%06X end of data, no trailer\n", pos)
			return nil
		}

		switch introducer {
		case blockExtension:
			if err := inspectExtension(w, cursor, pos); err != nil {
				return err
			}
		case blockImageDescriptor:
			if err := inspectImage(w, cursor, pos); err != nil {
				return err
			}
		case blockTrailer:
			fmt.Fprintf(w, "0x%06X trailer\n", pos)
			return nil
		default:
			fmt.Fprintf(w, "0x%06X unknown introducer 0x%02X, stopping\n", pos, introducer)
			return nil
		}
	}
}

func inspectExtension(w io.Writer, cursor *Cursor, pos int) error {
	label, err := cursor.ReadByte()
	if err != nil {
		return err
	}

	switch label {
	case extGraphicControl:
		payload, err := cursor.ReadSubBlocks()
		if err != nil {
			return err
		}
		if len(payload) != 4 {
			fmt.Fprintf(w, "0x%06X graphic control, malformed %d byte payload\n", pos, len(payload))
			return nil
		}
		disposal := DisposalMethod(payload[0] >> 2 & 0x07)
		delay := time.Duration(uint16(payload[1])|uint16(payload[2])<<8) * 10 * time.Millisecond
		line := fmt.Sprintf("0x%06X graphic control, delay %v, disposal %s", pos, delay, disposal)
		if payload[0]&0x01 != 0 {
			line += fmt.Sprintf(", transparent %d", payload[3])
		}
		fmt.Fprintln(w, line)
	case extApplication:
		identifier, err := cursor.ReadSubBlock()
		if err != nil {
			return err
		}
		if string(identifier) == "NETSCAPE2.0" {
			block, err := cursor.ReadSubBlock()
			if err != nil {
				return err
			}
			if len(block) == 3 && block[0] == 0x01 {
				fmt.Fprintf(w, "0x%06X application NETSCAPE2.0, loop count %d\n", pos, int(block[1])|int(block[2])<<8)
			} else {
				fmt.Fprintf(w, "0x%06X application NETSCAPE2.0, unrecognized payload\n", pos)
			}
		} else {
			fmt.Fprintf(w, "0x%06X application %q\n", pos, identifier)
		}
		if _, err := cursor.ReadSubBlocks(); err != nil {
			return err
		}
	case extComment:
		raw, err := cursor.ReadSubBlocks()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%06X comment, %d bytes\n", pos, len(raw))
	case extPlainText:
		if _, err := cursor.ReadSubBlocks(); err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%06X plain text, skipped\n", pos)
	default:
		if _, err := cursor.ReadSubBlocks(); err != nil {
			return err
		}
		fmt.Fprintf(w, "0x%06X extension 0x%02X, skipped\n", pos, label)
	}
	return nil
}

func inspectImage(w io.Writer, cursor *Cursor, pos int) error {
	left, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	top, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	width, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	height, err := cursor.ReadUint16()
	if err != nil {
		return err
	}
	flags, err := cursor.ReadByte()
	if err != nil {
		return err
	}

	detail := ""
	if flags&0x80 != 0 {
		size := 2 << (flags & 0x07)
		cursor.Seek(cursor.Pos() + 3*size)
		detail += fmt.Sprintf(", local palette %d entries", size)
	}
	if flags&0x40 != 0 {
		detail += ", interlaced"
	}

	litWidth, err := cursor.ReadByte()
	if err != nil {
		return err
	}

	blocks, total := 0, 0
	for {
		block, err := cursor.ReadSubBlock()
		if err != nil {
			return err
		}
		if block == nil {
			break
		}
		blocks++
		total += len(block)
	}

	fmt.Fprintf(w, "0x%06X image descriptor (%d,%d)+%dx%d%s, min code %d, %d data bytes in %d blocks\n",
		pos, left, top, width, height, detail, litWidth, total, blocks)
	return nil
}
