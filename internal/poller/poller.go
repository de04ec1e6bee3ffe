// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tamzrod/buk-egse/internal/telemetry"
)

// FrameSource abstracts the device channel delivering telemetry frames.
// The poller depends on raw bytes only.
type FrameSource interface {
	ReadFrame() ([]byte, error)
}

// Factory creates a fresh source. ONE attempt per call.
type Factory func() (FrameSource, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	ChannelID string
	Interval  time.Duration
}

// Poller is a dumb, clock-driven reader.
// It owns the source: on transport death the source is discarded
// and the factory is used on a future tick.
type Poller struct {
	cfg     Config
	src     FrameSource
	factory Factory
}

// New creates a poller with immutable config.
// src may be nil when a factory is given; the first poll then connects.
func New(cfg Config, src FrameSource, factory Factory) (*Poller, error) {
	if cfg.ChannelID == "" {
		return nil, errors.New("poller: channel id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if src == nil && factory == nil {
		return nil, errors.New("poller: source or factory required")
	}
	return &Poller{cfg: cfg, src: src, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle: read one frame, decode it.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		ChannelID: p.cfg.ChannelID,
		At:        time.Now(),
	}

	if p.src == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: source lost and no factory")
			return res
		}
		src, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: connect: %w", err)
			return res
		}
		p.src = src
	}

	frame, err := p.src.ReadFrame()
	if err != nil {
		// Transport is in doubt: drop it, reconnect on a later tick.
		p.discard()
		res.Err = err
		return res
	}
	res.Frame = frame

	power, err := telemetry.Decode(frame)
	if err != nil {
		res.Err = err
		return res
	}
	res.Power = power

	return res
}

// Close releases the current source, if any.
func (p *Poller) Close() error {
	if p == nil || p.src == nil {
		return nil
	}
	c, ok := p.src.(io.Closer)
	p.src = nil
	if !ok {
		return nil
	}
	return c.Close()
}

func (p *Poller) discard() {
	_ = p.Close()
}
