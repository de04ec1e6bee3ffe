// internal/logdiff/watcher.go
package logdiff

import (
	"context"
	"errors"
	"time"
)

// WatcherConfig is the minimal runtime config of one watched log.
type WatcherConfig struct {
	ID       string
	Path     string
	Encoding string
	Interval time.Duration
}

// Update is the result of one snapshot-and-diff cycle.
type Update struct {
	LogID string
	At    time.Time
	Lines []string // appended since the previous snapshot
	Err   error    // ErrNotFound or *IOError
}

// Watcher keeps the previous snapshot of one file between polls.
// It is owned by a single goroutine.
type Watcher struct {
	cfg  WatcherConfig
	prev []string
}

// NewWatcher creates a watcher with an empty previous snapshot.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.ID == "" {
		return nil, errors.New("logdiff: watcher id required")
	}
	if cfg.Path == "" {
		return nil, errors.New("logdiff: watcher path required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("logdiff: interval must be > 0")
	}
	if err := CheckEncoding(cfg.Encoding); err != nil {
		return nil, err
	}
	return &Watcher{cfg: cfg}, nil
}

// Prime captures the baseline snapshot without reporting it.
// A missing file leaves the baseline empty and returns ErrNotFound.
func (w *Watcher) Prime() error {
	lines, err := ReadAll(w.cfg.Path, w.cfg.Encoding)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			w.prev = nil
		}
		return err
	}
	w.prev = lines
	return nil
}

// Poll takes a fresh snapshot and reports the lines absent from the previous one.
// The fresh snapshot becomes the previous one.
func (w *Watcher) Poll() Update {
	u := Update{
		LogID: w.cfg.ID,
		At:    time.Now(),
	}

	cur, err := ReadAll(w.cfg.Path, w.cfg.Encoding)
	if err != nil {
		// Missing file reads as empty; a transient failure keeps the old baseline.
		if errors.Is(err, ErrNotFound) {
			w.prev = nil
		}
		u.Err = err
		return u
	}

	u.Lines = Diff(w.prev, cur)
	w.prev = cur
	return u
}

// Run polls on every tick and emits one Update per tick.
// No overlap. No retries.
func (w *Watcher) Run(ctx context.Context, out chan<- Update) {
	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- w.Poll():
			case <-ctx.Done():
				return
			}
		}
	}
}
