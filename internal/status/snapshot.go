// internal/status/snapshot.go
package status

import "github.com/tamzrod/buk-egse/internal/telemetry"

// Snapshot represents exactly what the writer is allowed to deliver.
// It contains no logic and no memory of the past beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16

	// Last successfully decoded telemetry. Kept across errors.
	Power     telemetry.PowerStatus
	RawStatus byte
}
