// internal/telemetry/power.go
package telemetry

import (
	"errors"
	"fmt"
	"strings"
)

// ---- FRAME GEOMETRY ----

// StatusByte is the frame offset carrying the power-status bits.
const StatusByte = 3

// MinFrameLen is the shortest frame Decode accepts.
const MinFrameLen = StatusByte + 1

// ---- POWER MASKS (byte 3) ----

const (
	MaskBUSKPower1 byte = 0x80
	MaskBUSKPower2 byte = 0x40
	MaskBUNDPower1 byte = 0x10
	MaskBUNDPower2 byte = 0x20
)

// ErrOutOfRange is returned for frames too short to carry the status byte.
var ErrOutOfRange = errors.New("telemetry: frame out of range")

// PowerStatus is the decoded power state of the onboard unit.
// Each flag is an independent hardware status bit; every combination is valid.
// The zero value (all off) is the state before any frame was decoded.
type PowerStatus struct {
	BUSKPower1 bool
	BUSKPower2 bool
	BUNDPower1 bool
	BUNDPower2 bool
}

// Decode extracts the power flags from byte 3 of a telemetry frame.
// No other bits or bytes are consulted. No IO. No state.
func Decode(frame []byte) (PowerStatus, error) {
	if len(frame) < MinFrameLen {
		return PowerStatus{}, fmt.Errorf("%w: len=%d want>=%d", ErrOutOfRange, len(frame), MinFrameLen)
	}

	b := frame[StatusByte]

	return PowerStatus{
		BUSKPower1: b&MaskBUSKPower1 != 0,
		BUSKPower2: b&MaskBUSKPower2 != 0,
		BUNDPower1: b&MaskBUNDPower1 != 0,
		BUNDPower2: b&MaskBUNDPower2 != 0,
	}, nil
}

// ---- DISPLAY ----

// Flag is one named power flag, in display order.
type Flag struct {
	Name string
	On   bool
}

// Flags returns the four flags in the fixed order BUSK1, BUSK2, BUND1, BUND2.
func (p PowerStatus) Flags() []Flag {
	return []Flag{
		{Name: "BUSK1", On: p.BUSKPower1},
		{Name: "BUSK2", On: p.BUSKPower2},
		{Name: "BUND1", On: p.BUNDPower1},
		{Name: "BUND2", On: p.BUNDPower2},
	}
}

func (p PowerStatus) String() string {
	flags := p.Flags()
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		parts = append(parts, f.Name+"="+OnOff(f.On))
	}
	return strings.Join(parts, " ")
}

// Word packs the flags into the low bits of a status register:
// bit0 BUSK1, bit1 BUSK2, bit2 BUND1, bit3 BUND2.
func (p PowerStatus) Word() uint16 {
	var w uint16
	for i, f := range p.Flags() {
		if f.On {
			w |= 1 << uint(i)
		}
	}
	return w
}

// OnOff converts a flag into its operator display string.
func OnOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}
