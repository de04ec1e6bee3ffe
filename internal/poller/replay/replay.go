// internal/poller/replay/replay.go
package replay

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Source replays recorded telemetry frames in a loop.
// Used on the bench when no rack is attached.
//
// File format: one frame per line, hex encoded, whitespace ignored.
// Empty lines and lines starting with '#' are skipped.
type Source struct {
	mu     sync.Mutex
	frames [][]byte
	next   int
}

// Open loads every frame of the replay file.
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var frames [][]byte

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		frame, err := ParseFrame(line)
		if err != nil {
			return nil, fmt.Errorf("replay: %s:%d: %w", path, lineNo, err)
		}
		frames = append(frames, frame)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return New(frames)
}

// New builds a source from in-memory frames.
func New(frames [][]byte) (*Source, error) {
	if len(frames) == 0 {
		return nil, errors.New("replay: no frames")
	}
	return &Source{frames: frames}, nil
}

// ReadFrame returns a copy of the next frame, wrapping at the end.
func (s *Source) ReadFrame() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame := s.frames[s.next]
	s.next = (s.next + 1) % len(s.frames)

	return append([]byte(nil), frame...), nil
}

// Len reports the number of recorded frames.
func (s *Source) Len() int { return len(s.frames) }

// ParseFrame decodes a hex frame, e.g. "00 00 00 90" or "0x00000090".
func ParseFrame(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}
