// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/buk-egse/internal/poller"
)

// endpointClient is the exact contract the writers use.
// IMPORTANT: There must be NO other version of this interface anywhere.
type endpointClient interface {
	WriteRegisters(area byte, unitID uint8, addr uint16, regs []uint16) error
}

// areaHoldingRegisters is the destination area for every write.
const areaHoldingRegisters byte = 3

type mirrorWriter struct {
	plan    Plan
	clients map[string]endpointClient
}

// New builds the raw-frame mirror writer of a channel.
func New(plan Plan, clients map[string]endpointClient) Writer {
	return &mirrorWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write copies the raw frame of a successful poll to every mirror destination.
// Failed polls write nothing; the last good frame stays in place.
func (w *mirrorWriter) Write(res poller.PollResult) error {
	if res.Err != nil || len(res.Frame) == 0 {
		return nil
	}

	var errs []string

	regs := packFrame(res.Frame)

	for _, m := range w.plan.Mirrors {
		cli := w.clients[clientKey(m.Protocol, m.Endpoint)]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				m.Endpoint,
			))
			continue
		}

		if err := cli.WriteRegisters(areaHoldingRegisters, m.UnitID, m.Address, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d addr=%d err=%v",
				m.Endpoint, m.UnitID, m.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}

// packFrame packs frame bytes into big-endian registers.
// An odd trailing byte is padded with zero.
func packFrame(frame []byte) []uint16 {
	out := make([]uint16, (len(frame)+1)/2)
	for i, b := range frame {
		if i%2 == 0 {
			out[i/2] = uint16(b) << 8
		} else {
			out[i/2] |= uint16(b)
		}
	}
	return out
}
