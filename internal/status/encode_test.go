// internal/status/encode_test.go
package status

import (
	"testing"

	"github.com/tamzrod/buk-egse/internal/telemetry"
)

func TestEncode_LiveSlots(t *testing.T) {
	s := Snapshot{
		Health:         HealthError,
		LastErrorCode:  4,
		SecondsInError: 12,
		Power:          telemetry.PowerStatus{BUSKPower2: true, BUNDPower1: true},
		RawStatus:      0x50,
	}

	regs := Encode(s)
	if len(regs) != SlotsPerDevice {
		t.Fatalf("expected %d regs, got %d", SlotsPerDevice, len(regs))
	}

	want := map[int]uint16{
		SlotHealthCode:     HealthError,
		SlotLastErrorCode:  4,
		SlotSecondsInError: 12,
		SlotPowerFlags:     0x6, // BUSK2 bit1 | BUND1 bit2
		SlotRawStatus:      0x50,
	}
	for slot, v := range want {
		if regs[slot] != v {
			t.Fatalf("slot %d got=%d want=%d", slot, regs[slot], v)
		}
	}
	for slot := SlotReservedStart; slot <= SlotReservedEnd; slot++ {
		if regs[slot] != 0 {
			t.Fatalf("reserved slot %d must be zero, got %d", slot, regs[slot])
		}
	}
	for slot := SlotDeviceNameStart; slot < SlotsPerDevice; slot++ {
		if regs[slot] != 0 {
			t.Fatalf("name slot %d must be zero, got %d", slot, regs[slot])
		}
	}
}

func TestEncodeDeviceName(t *testing.T) {
	regs := EncodeDeviceName("BUK-1")
	if len(regs) != SlotDeviceNameSlots {
		t.Fatalf("expected %d regs, got %d", SlotDeviceNameSlots, len(regs))
	}
	if regs[0] != uint16('B')<<8|uint16('U') {
		t.Fatalf("reg0 got=0x%04x", regs[0])
	}
	if regs[2] != uint16('1')<<8 {
		t.Fatalf("reg2 got=0x%04x", regs[2])
	}
	for i := 3; i < len(regs); i++ {
		if regs[i] != 0 {
			t.Fatalf("reg%d must be zero, got 0x%04x", i, regs[i])
		}
	}

	regs = EncodeDeviceName("A\x01")
	if regs[0] != uint16('A')<<8|uint16('?') {
		t.Fatalf("control byte not sanitized: 0x%04x", regs[0])
	}
}
