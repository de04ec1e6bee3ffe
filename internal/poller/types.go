// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/buk-egse/internal/telemetry"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	ChannelID string
	At        time.Time

	// Frame is the raw telemetry frame as read from the source.
	// Set whenever the read succeeded, even if decoding failed.
	Frame []byte

	// Power is valid only when Err is nil.
	Power telemetry.PowerStatus

	Err error // non-nil means the poll cycle failed
}

// StatusByte returns the raw status byte of the frame, or 0 if absent.
func (r PollResult) StatusByte() byte {
	if len(r.Frame) < telemetry.MinFrameLen {
		return 0
	}
	return r.Frame[telemetry.StatusByte]
}
