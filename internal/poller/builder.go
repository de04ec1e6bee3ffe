// internal/poller/builder.go
package poller

import (
	"fmt"
	"time"

	cfg "github.com/tamzrod/buk-egse/internal/config"
	pmodbus "github.com/tamzrod/buk-egse/internal/poller/modbus"
	"github.com/tamzrod/buk-egse/internal/poller/replay"
)

// Build constructs a Poller and wires the source lifecycle.
// Connection is reused while healthy.
// On transport death, Poller discards the source and uses factory on a future tick.
// No retries, no loops, no semantics.
func Build(ch cfg.ChannelConfig) (*Poller, func() error, error) {
	var factory Factory

	switch ch.Source.Kind {
	case cfg.SourceModbus:
		factory = func() (FrameSource, error) {
			return pmodbus.New(pmodbus.Config{
				Endpoint:   ch.Source.Endpoint,
				UnitID:     ch.Source.UnitID,
				Timeout:    time.Duration(ch.Source.TimeoutMs) * time.Millisecond,
				Holding:    ch.Source.Register == cfg.RegisterHolding,
				Address:    ch.Source.Address,
				FrameBytes: ch.Source.FrameBytes,
			})
		}
	case cfg.SourceReplay:
		factory = func() (FrameSource, error) {
			return replay.Open(ch.Source.Path)
		}
	default:
		return nil, nil, fmt.Errorf("poller: unknown source kind %q (channel=%s)", ch.Source.Kind, ch.ID)
	}

	// initial source (fail fast at startup)
	src, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			ChannelID: ch.ID,
			Interval:  time.Duration(ch.Poll.IntervalMs) * time.Millisecond,
		},
		src,
		factory,
	)
	if err != nil {
		if c, ok := src.(interface{ Close() error }); ok {
			_ = c.Close()
		}
		return nil, nil, err
	}

	return p, p.Close, nil
}
