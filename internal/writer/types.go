// internal/writer/types.go
package writer

import "github.com/tamzrod/buk-egse/internal/poller"

// StatusPlan places one channel's device status block.
type StatusPlan struct {
	Protocol   string
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// MirrorDest is one raw-frame copy destination.
type MirrorDest struct {
	Protocol string
	Endpoint string
	UnitID   uint8
	Address  uint16
}

// Plan is the fully-built write plan for one channel.
type Plan struct {
	ChannelID string
	Status    *StatusPlan // nil = status disabled
	Mirrors   []MirrorDest
}

// Writer writes poll snapshots into mirror destinations.
type Writer interface {
	Write(res poller.PollResult) error
}

// clientKey identifies one endpoint client: protocol | endpoint.
func clientKey(protocol, endpoint string) string {
	return protocol + "|" + endpoint
}
