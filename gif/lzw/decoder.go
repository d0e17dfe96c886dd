// Package lzw implements the GIF variant of LZW decompression:
// variable-width codes read least significant bit first, a dictionary
// seeded from the minimum code size, and the clear/end control codes.
package lzw

import (
	"bytes"
	"errors"
	"io"
)

const (
	maxWidth = 12
	maxCodes = 1 << maxWidth

	invalidCode = 0xFFFF
)

var (
	ErrCodeSize    = errors.New("lzw: code size out of range")
	ErrInvalidCode = errors.New("lzw: invalid code")
)

// Decoder reproduces the indexed pixel stream packed into an image data
// block. It emits exactly the pixel count given at construction and
// ignores any compressed data beyond it.
type Decoder struct {
	data []byte
	pos  int

	bits  uint32
	nBits uint
	width uint

	litWidth uint
	clear    uint16
	end      uint16
	next     uint16
	prev     uint16

	prefix []uint16
	suffix []byte
	seq    []byte

	out       bytes.Buffer
	remaining int
}

func NewDecoder(data []byte, litWidth, pixelCount int) (*Decoder, error) {
	if litWidth < 2 || litWidth > 8 {
		return nil, ErrCodeSize
	}
	clear := uint16(1) << litWidth
	decoder := &Decoder{
		data:      data,
		width:     uint(litWidth) + 1,
		litWidth:  uint(litWidth),
		clear:     clear,
		end:       clear + 1,
		next:      clear + 2,
		prev:      invalidCode,
		prefix:    make([]uint16, maxCodes),
		suffix:    make([]byte, maxCodes),
		remaining: pixelCount,
	}
	return decoder, nil
}

func (decoder *Decoder) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	for decoder.remaining > 0 || decoder.out.Len() > 0 {
		if decoder.out.Len() > 0 {
			nn, _ := decoder.out.Read(p[n:])
			n += nn
			if n == len(p) {
				return n, nil
			}
		}
		if decoder.remaining <= 0 {
			continue
		}
		if err := decoder.decodeCode(); err != nil {
			return n, err
		}
	}
	if n > 0 {
		return n, nil
	}
	return 0, io.EOF
}

func (decoder *Decoder) decodeCode() error {
	code, err := decoder.readCode()
	if err != nil {
		return err
	}

	switch {
	case code == decoder.clear:
		decoder.width = decoder.litWidth + 1
		decoder.next = decoder.clear + 2
		decoder.prev = invalidCode
		return nil
	case code == decoder.end:
		decoder.remaining = 0
		return nil
	case code > decoder.next:
		return ErrInvalidCode
	case code == decoder.next && decoder.prev == invalidCode:
		return ErrInvalidCode
	}

	seq := decoder.expand(code)
	first := seq[0]

	if decoder.prev != invalidCode && decoder.next < maxCodes {
		decoder.prefix[decoder.next] = decoder.prev
		decoder.suffix[decoder.next] = first
		decoder.next++
		if decoder.next == 1<<decoder.width && decoder.width < maxWidth {
			decoder.width++
		}
	}
	decoder.prev = code

	if len(seq) > decoder.remaining {
		seq = seq[:decoder.remaining]
	}
	decoder.out.Write(seq)
	decoder.remaining -= len(seq)
	return nil
}

// expand resolves a code to its pixel sequence by walking the prefix
// chain. A code equal to the next free slot is the "missing entry"
// case: the previous sequence followed by its own first pixel.
func (decoder *Decoder) expand(code uint16) []byte {
	missing := code == decoder.next
	if missing {
		code = decoder.prev
	}

	decoder.seq = decoder.seq[:0]
	for code >= decoder.clear {
		decoder.seq = append(decoder.seq, decoder.suffix[code])
		code = decoder.prefix[code]
	}
	decoder.seq = append(decoder.seq, byte(code))

	for i, j := 0, len(decoder.seq)-1; i < j; i, j = i+1, j-1 {
		decoder.seq[i], decoder.seq[j] = decoder.seq[j], decoder.seq[i]
	}

	if missing {
		decoder.seq = append(decoder.seq, decoder.seq[0])
	}
	return decoder.seq
}

func (decoder *Decoder) readCode() (uint16, error) {
	for decoder.nBits < decoder.width {
		if decoder.pos >= len(decoder.data) {
			return 0, io.ErrUnexpectedEOF
		}
		decoder.bits |= uint32(decoder.data[decoder.pos]) << decoder.nBits
		decoder.pos++
		decoder.nBits += 8
	}
	code := uint16(decoder.bits & (1<<decoder.width - 1))
	decoder.bits >>= decoder.width
	decoder.nBits -= decoder.width
	return code, nil
}
