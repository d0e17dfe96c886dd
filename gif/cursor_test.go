package gif

import (
	"bytes"
	"errors"
	"testing"
)

func TestCursorReadByte(t *testing.T) {
	cursor := NewCursor([]byte{0x10, 0x20})

	for i, want := range []byte{0x10, 0x20} {
		b, err := cursor.ReadByte()
		if err != nil {
			t.Fatalf("read %d: unexpected error: %v", i, err)
		}
		if b != want {
			t.Fatalf("read %d: got 0x%02X, want 0x%02X", i, b, want)
		}
	}
	if _, err := cursor.ReadByte(); !errors.Is(err, ErrUnexpectedEndOfData) {
		t.Fatalf("read past end: got %v, want ErrUnexpectedEndOfData", err)
	}
}

func TestCursorReadUint16(t *testing.T) {
	cursor := NewCursor([]byte{0x34, 0x12, 0xFF})

	v, err := cursor.ReadUint16()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("got 0x%04X, want 0x1234", v)
	}
	if _, err := cursor.ReadUint16(); !errors.Is(err, ErrUnexpectedEndOfData) {
		t.Fatalf("short read: got %v, want ErrUnexpectedEndOfData", err)
	}
}

func TestCursorReadBytes(t *testing.T) {
	cursor := NewCursor([]byte{1, 2, 3, 4})

	buf, err := cursor.ReadBytes(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(buf, []byte{1, 2, 3}) {
		t.Fatalf("got %v, want [1 2 3]", buf)
	}
	if cursor.Pos() != 3 {
		t.Fatalf("pos = %d, want 3", cursor.Pos())
	}
	if _, err := cursor.ReadBytes(2); !errors.Is(err, ErrUnexpectedEndOfData) {
		t.Fatalf("overlong read: got %v, want ErrUnexpectedEndOfData", err)
	}
}

func TestCursorSubBlocks(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    []byte
		wantErr bool
	}{
		{
			name: "single block",
			data: []byte{3, 'a', 'b', 'c', 0},
			want: []byte("abc"),
		},
		{
			name: "two blocks concatenated",
			data: []byte{2, 'h', 'i', 3, 'y', 'o', 'u', 0},
			want: []byte("hiyou"),
		},
		{
			name: "empty run",
			data: []byte{0},
			want: []byte{},
		},
		{
			name:    "truncated payload",
			data:    []byte{5, 'x', 'y'},
			wantErr: true,
		},
		{
			name:    "missing terminator",
			data:    []byte{2, 'h', 'i'},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cursor := NewCursor(tt.data)
			got, err := cursor.ReadSubBlocks()
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedEndOfData) {
					t.Fatalf("got %v, want ErrUnexpectedEndOfData", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCursorReadSubBlockTerminator(t *testing.T) {
	cursor := NewCursor([]byte{0, 1, 'z'})

	block, err := cursor.ReadSubBlock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if block != nil {
		t.Fatalf("terminator block: got %v, want nil", block)
	}

	block, err = cursor.ReadSubBlock()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(block, []byte{'z'}) {
		t.Fatalf("got %v, want [z]", block)
	}
}

func TestCursorSeek(t *testing.T) {
	cursor := NewCursor([]byte{1, 2, 3, 4})

	cursor.Seek(2)
	b, err := cursor.ReadByte()
	if err != nil || b != 3 {
		t.Fatalf("after seek: got %d, %v; want 3, nil", b, err)
	}

	cursor.Seek(100)
	if cursor.Pos() != 4 {
		t.Fatalf("seek past end: pos = %d, want 4", cursor.Pos())
	}
	if cursor.Remaining() != 0 {
		t.Fatalf("remaining = %d, want 0", cursor.Remaining())
	}

	cursor.Seek(-5)
	if cursor.Pos() != 0 {
		t.Fatalf("negative seek: pos = %d, want 0", cursor.Pos())
	}
	if cursor.Remaining() != 4 {
		t.Fatalf("remaining = %d, want 4", cursor.Remaining())
	}
}
