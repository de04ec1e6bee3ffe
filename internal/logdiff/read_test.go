// internal/logdiff/read_test.go
package logdiff

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestReadAll_LineEndings(t *testing.T) {
	path := writeFile(t, "egse.log", []byte("a\nb\r\nc\rd\n\nlast-partial"))

	got, err := ReadAll(path, "")
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}

	want := []string{"a", "b", "c", "d", ""}
	if !sameLines(got, want) {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestReadAll_UnterminatedTailAppearsOnceComplete(t *testing.T) {
	path := writeFile(t, "egse.log", []byte("one\ntw"))

	first, err := ReadAll(path, "")
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}
	if !sameLines(first, []string{"one"}) {
		t.Fatalf("first snapshot got=%q", first)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString("o\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	f.Close()

	second, err := ReadAll(path, "")
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}
	if got := Diff(first, second); !sameLines(got, []string{"two"}) {
		t.Fatalf("diff got=%q want=[two]", got)
	}
}

func TestReadAll_StripsUTF8BOM(t *testing.T) {
	path := writeFile(t, "bom.log", []byte("\xEF\xBB\xBFstart\n"))

	got, err := ReadAll(path, "utf-8")
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}
	if !sameLines(got, []string{"start"}) {
		t.Fatalf("got=%q want=[start]", got)
	}
}

func TestReadAll_Windows1251(t *testing.T) {
	// "БУК вкл" in windows-1251
	path := writeFile(t, "cp1251.log", []byte{0xC1, 0xD3, 0xCA, ' ', 0xE2, 0xEA, 0xEB, '\r', '\n'})

	got, err := ReadAll(path, "windows-1251")
	if err != nil {
		t.Fatalf("ReadAll err=%v", err)
	}
	if !sameLines(got, []string{"БУК вкл"}) {
		t.Fatalf("got=%q want=[БУК вкл]", got)
	}
}

func TestReadAll_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.log")

	lines, err := ReadAll(path, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if lines != nil {
		t.Fatalf("expected no lines, got %q", lines)
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		t.Fatalf("missing file must not be reported as IOError")
	}
}

func TestReadAll_IOFailure(t *testing.T) {
	// a directory opens but cannot be read as a file
	dir := t.TempDir()

	_, err := ReadAll(dir, "")
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %v", err)
	}
	if ioErr.Path != dir {
		t.Fatalf("IOError path got=%q want=%q", ioErr.Path, dir)
	}
	if n := strings.Count(err.Error(), dir); n != 1 {
		t.Fatalf("path must appear once in %q, got %d", err.Error(), n)
	}
}

func TestIOError_MessageWithoutPathError(t *testing.T) {
	err := &IOError{Path: "spw.log", Err: errors.New("decode windows-1251: bad byte")}
	want := "logdiff: read spw.log: decode windows-1251: bad byte"
	if got := err.Error(); got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestCheckEncoding(t *testing.T) {
	for _, enc := range []string{"", "utf-8", "UTF8", "windows-1251"} {
		if err := CheckEncoding(enc); err != nil {
			t.Fatalf("encoding %q: unexpected error %v", enc, err)
		}
	}
	if err := CheckEncoding("no-such-codepage"); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}
