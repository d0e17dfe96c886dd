package gif

import (
	"bytes"
	"encoding/binary"
)

// Cursor is a sequential reader over a fixed byte buffer. Every read
// advances the position; reads past the end fail with
// ErrUnexpectedEndOfData.
type Cursor struct {
	data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

func (cursor *Cursor) Pos() int { return cursor.pos }

func (cursor *Cursor) Remaining() int { return len(cursor.data) - cursor.pos }

// Seek reassigns the absolute read position, clamped to the buffer.
func (cursor *Cursor) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(cursor.data) {
		pos = len(cursor.data)
	}
	cursor.pos = pos
}

func (cursor *Cursor) ReadByte() (byte, error) {
	if cursor.pos >= len(cursor.data) {
		return 0, ErrUnexpectedEndOfData
	}
	b := cursor.data[cursor.pos]
	cursor.pos++
	return b, nil
}

func (cursor *Cursor) ReadUint16() (uint16, error) {
	if cursor.pos+2 > len(cursor.data) {
		return 0, ErrUnexpectedEndOfData
	}
	v := binary.LittleEndian.Uint16(cursor.data[cursor.pos:])
	cursor.pos += 2
	return v, nil
}

func (cursor *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || cursor.pos+n > len(cursor.data) {
		return nil, ErrUnexpectedEndOfData
	}
	buf := cursor.data[cursor.pos : cursor.pos+n]
	cursor.pos += n
	return buf, nil
}

// ReadSubBlock reads one length-prefixed sub-block. A zero length byte
// is the block terminator and yields a nil slice.
func (cursor *Cursor) ReadSubBlock() ([]byte, error) {
	length, err := cursor.ReadByte()
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, nil
	}
	return cursor.ReadBytes(int(length))
}

// ReadSubBlocks concatenates a full sub-block run up to and including
// the terminating zero-length block.
func (cursor *Cursor) ReadSubBlocks() ([]byte, error) {
	var out bytes.Buffer
	for {
		block, err := cursor.ReadSubBlock()
		if err != nil {
			return nil, err
		}
		if block == nil {
			return out.Bytes(), nil
		}
		out.Write(block)
	}
}
