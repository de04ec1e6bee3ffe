// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/tamzrod/buk-egse/internal/logdiff"
	"github.com/tamzrod/buk-egse/internal/status"
	"github.com/tamzrod/buk-egse/internal/telemetry"
)

// MaxFrameBytes is the largest frame one Modbus read can carry (125 registers).
const MaxFrameBytes = 250

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	type span struct {
		start uint32
		end   uint32
		owner string
	}

	if cfg == nil {
		return fmt.Errorf("config: empty")
	}
	if len(cfg.EGSE.Channels) == 0 && len(cfg.EGSE.Logs) == 0 {
		return fmt.Errorf("config: no channels and no logs defined")
	}

	// ------------------------------------------------------------
	// CHANNELS
	// ------------------------------------------------------------

	channelIDs := make(map[string]struct{})

	for _, ch := range cfg.EGSE.Channels {
		if ch.ID == "" {
			return fmt.Errorf("channel: id required")
		}
		if _, dup := channelIDs[ch.ID]; dup {
			return fmt.Errorf("channel %q: duplicate id", ch.ID)
		}
		channelIDs[ch.ID] = struct{}{}

		// device_name sanity (ASCII only)
		for i := 0; i < len(ch.DeviceName); i++ {
			if ch.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"channel %q: device_name must contain ASCII characters only",
					ch.ID,
				)
			}
		}

		if err := validateSource(ch); err != nil {
			return err
		}

		if ch.Poll.IntervalMs < 0 {
			return fmt.Errorf("channel %q: poll.interval_ms must be >= 0", ch.ID)
		}

		if ch.Status != nil {
			if !knownProtocol(ch.Status.Protocol) {
				return fmt.Errorf("channel %q: unknown status protocol %q", ch.ID, ch.Status.Protocol)
			}
			if ch.Status.Endpoint == "" {
				return fmt.Errorf("channel %q: status.endpoint required", ch.ID)
			}
		}

		for _, m := range ch.Mirror {
			if !knownProtocol(m.Protocol) {
				return fmt.Errorf("channel %q: unknown mirror protocol %q", ch.ID, m.Protocol)
			}
			if m.Endpoint == "" {
				return fmt.Errorf("channel %q: mirror endpoint required", ch.ID)
			}
		}
	}

	// ------------------------------------------------------------
	// DESTINATION MEMORY GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = protocol | endpoint | unit_id
	spans := make(map[string][]span)

	claim := func(key string, s span) error {
		for _, prev := range spans[key] {
			// overlap check (inclusive)
			if !(s.end < prev.start || s.start > prev.end) {
				return fmt.Errorf(
					"memory overlap: %s range=%d-%d (%s) overlaps range=%d-%d (%s)",
					key,
					s.start,
					s.end,
					s.owner,
					prev.start,
					prev.end,
					prev.owner,
				)
			}
		}
		spans[key] = append(spans[key], s)
		return nil
	}

	for _, ch := range cfg.EGSE.Channels {
		if st := ch.Status; st != nil {
			start := uint32(st.Slot) * status.SlotsPerDevice
			end := start + status.SlotsPerDevice - 1
			if end > status.MaxRegisterAddr {
				return fmt.Errorf(
					"channel %q: status slot=%d range=%d-%d exceeds register space",
					ch.ID, st.Slot, start, end,
				)
			}
			key := fmt.Sprintf("%s|%s|%d", protocolOrDefault(st.Protocol), st.Endpoint, st.UnitID)
			if err := claim(key, span{
				start: start,
				end:   end,
				owner: fmt.Sprintf("channel=%s status slot=%d", ch.ID, st.Slot),
			}); err != nil {
				return err
			}
		}

		regs := uint32(frameRegisters(ch.Source.FrameBytes))
		for _, m := range ch.Mirror {
			start := uint32(m.Address)
			end := start + regs - 1
			if end > status.MaxRegisterAddr {
				return fmt.Errorf(
					"channel %q: mirror address=%d range=%d-%d exceeds register space",
					ch.ID, m.Address, start, end,
				)
			}
			key := fmt.Sprintf("%s|%s|%d", protocolOrDefault(m.Protocol), m.Endpoint, m.UnitID)
			if err := claim(key, span{
				start: start,
				end:   end,
				owner: fmt.Sprintf("channel=%s mirror", ch.ID),
			}); err != nil {
				return err
			}
		}
	}

	// ------------------------------------------------------------
	// WATCHED LOGS
	// ------------------------------------------------------------

	logIDs := make(map[string]struct{})

	for _, l := range cfg.EGSE.Logs {
		if l.ID == "" {
			return fmt.Errorf("log: id required")
		}
		if _, dup := logIDs[l.ID]; dup {
			return fmt.Errorf("log %q: duplicate id", l.ID)
		}
		logIDs[l.ID] = struct{}{}

		if l.Path == "" {
			return fmt.Errorf("log %q: path required", l.ID)
		}
		if l.IntervalMs < 0 {
			return fmt.Errorf("log %q: interval_ms must be >= 0", l.ID)
		}
		if err := logdiff.CheckEncoding(l.Encoding); err != nil {
			return fmt.Errorf("log %q: %w", l.ID, err)
		}
	}

	return nil
}

func validateSource(ch ChannelConfig) error {
	src := ch.Source

	switch src.Kind {
	case "", SourceModbus:
		if src.Endpoint == "" {
			return fmt.Errorf("channel %q: source.endpoint required", ch.ID)
		}
		switch src.Register {
		case "", RegisterInput, RegisterHolding:
		default:
			return fmt.Errorf("channel %q: unknown source.register %q", ch.ID, src.Register)
		}
	case SourceReplay:
		if src.Path == "" {
			return fmt.Errorf("channel %q: source.path required for replay", ch.ID)
		}
	default:
		return fmt.Errorf("channel %q: unknown source.kind %q", ch.ID, src.Kind)
	}

	if src.FrameBytes != 0 {
		if src.FrameBytes < telemetry.MinFrameLen || src.FrameBytes > MaxFrameBytes {
			return fmt.Errorf(
				"channel %q: source.frame_bytes=%d out of range [%d..%d]",
				ch.ID,
				src.FrameBytes,
				telemetry.MinFrameLen,
				MaxFrameBytes,
			)
		}
	}
	if src.TimeoutMs < 0 {
		return fmt.Errorf("channel %q: source.timeout_ms must be >= 0", ch.ID)
	}

	return nil
}

func knownProtocol(p string) bool {
	switch p {
	case "", ProtocolModbus, ProtocolIngest:
		return true
	}
	return false
}

func protocolOrDefault(p string) string {
	if p == "" {
		return ProtocolModbus
	}
	return p
}

// frameRegisters is the number of 16-bit registers holding a frame.
func frameRegisters(frameBytes int) int {
	if frameBytes <= 0 {
		frameBytes = DefaultFrameBytes
	}
	return (frameBytes + 1) / 2
}
