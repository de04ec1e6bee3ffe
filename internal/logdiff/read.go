// internal/logdiff/read.go
package logdiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/paulrosania/go-charset/charset"
	_ "github.com/paulrosania/go-charset/data"
)

// DefaultEncoding is used when no encoding is configured.
const DefaultEncoding = "utf-8"

// ErrNotFound reports a log file that does not exist.
// Callers show a message and treat the snapshot as empty.
var ErrNotFound = errors.New("logdiff: file not found")

// IOError is any read failure other than a missing file.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		return "logdiff: " + e.Err.Error()
	}
	return fmt.Sprintf("logdiff: read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadAll reads the whole file at path and returns its terminated lines.
//
// The file is opened read-only with shared access, so a writer appending to it
// concurrently does not make the read fail. A trailing line without a line
// terminator is not returned; it shows up in a later snapshot once complete.
func ReadAll(path, encoding string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	text, err := decodeText(raw, encoding)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	return splitLines(text), nil
}

// CheckEncoding reports whether encoding can be used by ReadAll.
func CheckEncoding(encoding string) error {
	if isUTF8(encoding) {
		return nil
	}
	if _, err := charset.TranslatorFrom(encoding); err != nil {
		return fmt.Errorf("logdiff: unsupported encoding %q: %w", encoding, err)
	}
	return nil
}

func isUTF8(encoding string) bool {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

func decodeText(raw []byte, encoding string) (string, error) {
	if isUTF8(encoding) {
		return string(bytes.TrimPrefix(raw, utf8BOM)), nil
	}

	tr, err := charset.TranslatorFrom(encoding)
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", encoding, err)
	}
	_, out, err := tr.Translate(raw, true)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", encoding, err)
	}
	return string(out), nil
}

// splitLines breaks text on "\n", "\r\n" and lone "\r".
// An unterminated tail is dropped.
func splitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return lines
}
