// internal/config/normalize.go
package config

import (
	"github.com/tamzrod/buk-egse/internal/logdiff"
	"github.com/tamzrod/buk-egse/internal/status"
	"github.com/tamzrod/buk-egse/internal/telemetry"
)

// ---- DEFAULTS ----

const (
	DefaultIntervalMs   = 1000
	DefaultTimeoutMs    = 1000
	DefaultFrameBytes   = telemetry.MinFrameLen
	DefaultLogSizeMB    = 25
	DefaultLogAgeDays   = 7
	DefaultLogBackups   = 5
	DefaultLogDirectory = "logs"
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	lg := &cfg.EGSE.Logging
	if lg.Directory == "" {
		lg.Directory = DefaultLogDirectory
	}
	if lg.MaxSizeMB <= 0 {
		lg.MaxSizeMB = DefaultLogSizeMB
	}
	if lg.MaxAgeDays <= 0 {
		lg.MaxAgeDays = DefaultLogAgeDays
	}
	if lg.MaxBackups <= 0 {
		lg.MaxBackups = DefaultLogBackups
	}

	for ci := range cfg.EGSE.Channels {
		ch := &cfg.EGSE.Channels[ci]

		// Normalize device_name:
		// - ASCII already validated
		// - Truncate to max 16 characters
		if len(ch.DeviceName) > status.DeviceNameMaxChars {
			ch.DeviceName = ch.DeviceName[:status.DeviceNameMaxChars]
		}

		if ch.Source.Kind == "" {
			ch.Source.Kind = SourceModbus
		}
		if ch.Source.Register == "" {
			ch.Source.Register = RegisterInput
		}
		if ch.Source.FrameBytes == 0 {
			ch.Source.FrameBytes = DefaultFrameBytes
		}
		if ch.Source.TimeoutMs == 0 {
			ch.Source.TimeoutMs = DefaultTimeoutMs
		}
		if ch.Poll.IntervalMs == 0 {
			ch.Poll.IntervalMs = DefaultIntervalMs
		}

		if ch.Status != nil {
			ch.Status.Protocol = protocolOrDefault(ch.Status.Protocol)
		}
		for mi := range ch.Mirror {
			ch.Mirror[mi].Protocol = protocolOrDefault(ch.Mirror[mi].Protocol)
		}
	}

	for li := range cfg.EGSE.Logs {
		l := &cfg.EGSE.Logs[li]
		if l.Encoding == "" {
			l.Encoding = logdiff.DefaultEncoding
		}
		if l.IntervalMs == 0 {
			l.IntervalMs = DefaultIntervalMs
		}
	}
}
