// internal/poller/replay/replay_test.go
package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CyclesFrames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.tm")
	doc := "# bench recording\n00 00 00 90\n\n0x000000F0\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	src, err := Open(path)
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", src.Len())
	}

	want := [][]byte{
		{0, 0, 0, 0x90},
		{0, 0, 0, 0xF0},
		{0, 0, 0, 0x90},
	}
	for i, w := range want {
		got, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("read %d err=%v", i, err)
		}
		if !bytes.Equal(got, w) {
			t.Fatalf("read %d got=%x want=%x", i, got, w)
		}
	}
}

func TestReadFrame_ReturnsCopy(t *testing.T) {
	src, err := New([][]byte{{0, 0, 0, 0x10}})
	if err != nil {
		t.Fatalf("New err=%v", err)
	}

	a, _ := src.ReadFrame()
	a[3] = 0xFF

	b, _ := src.ReadFrame()
	if b[3] != 0x10 {
		t.Fatalf("caller mutation leaked into source: 0x%02x", b[3])
	}
}

func TestOpen_BadHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.tm")
	if err := os.WriteFile(path, []byte("zz\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected hex error")
	}
}

func TestOpen_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.tm")
	if err := os.WriteFile(path, []byte("# nothing\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(path); err == nil {
		t.Fatalf("expected no-frames error")
	}
}
