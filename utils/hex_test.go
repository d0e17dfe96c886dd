package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestHexDump(t *testing.T) {
	data := make([]byte, 18)
	for i := range data {
		data[i] = byte(i)
	}

	var buf bytes.Buffer
	if err := HexDump(&buf, bytes.NewReader(data), 0, int64(len(data))); err != nil {
		t.Fatalf("HexDump: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "00000000  00 01 02 03") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.HasSuffix(lines[0], "|................|") {
		t.Errorf("first line ascii gutter = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "00000010  10 11") {
		t.Errorf("second line = %q", lines[1])
	}
	if !strings.HasSuffix(lines[1], "|..|") {
		t.Errorf("second line ascii gutter = %q", lines[1])
	}
}

func TestHexDumpOffsetAndASCII(t *testing.T) {
	var buf bytes.Buffer
	if err := HexDump(&buf, strings.NewReader("......GIF89a"), 6, 6); err != nil {
		t.Fatalf("HexDump: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasPrefix(line, "00000006  47 49 46 38 39 61") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasSuffix(line, "|GIF89a|") {
		t.Errorf("ascii gutter = %q", line)
	}
}

func TestHexDumpShortSource(t *testing.T) {
	var buf bytes.Buffer
	if err := HexDump(&buf, strings.NewReader("GIF"), 0, 64); err != nil {
		t.Fatalf("HexDump on short source: %v", err)
	}
	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasSuffix(line, "|GIF|") {
		t.Errorf("line = %q", line)
	}
}
