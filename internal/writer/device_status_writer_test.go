// internal/writer/device_status_writer_test.go
package writer

import (
	"testing"

	"github.com/tamzrod/buk-egse/internal/status"
	"github.com/tamzrod/buk-egse/internal/telemetry"
)

func newStatusWriter(t *testing.T, cli *fakeEndpointClient, baseSlot uint16) (*deviceStatusWriter, Plan) {
	t.Helper()

	plan := Plan{
		Status: &StatusPlan{
			Protocol:   "modbus",
			Endpoint:   "status-endpoint",
			UnitID:     1,
			BaseSlot:   baseSlot,
			DeviceName: "BUK-01",
		},
	}

	clients := map[string]endpointClient{
		clientKey("modbus", "status-endpoint"): cli,
	}

	sw, enabled := NewDeviceStatusWriter(plan, clients)
	if !enabled {
		t.Fatalf("status writer should be enabled")
	}
	return sw, plan
}

func TestStatusDisabledWithoutPlan(t *testing.T) {
	if _, enabled := NewDeviceStatusWriter(Plan{}, nil); enabled {
		t.Fatalf("status writer must be disabled without a status plan")
	}
}

func TestDeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, plan := newStatusWriter(t, cli, 0)

	// ---- first write: FULL ASSERT ----
	first := status.Snapshot{
		Health: status.HealthOK,
		Power:  telemetry.PowerStatus{BUSKPower1: true},
	}

	if err := sw.WriteStatus(first); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}

	// Expect full block
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf(
			"expected full block write (%d regs), got %d",
			status.SlotsPerDevice,
			len(cli.lastRegs),
		)
	}
	if cli.lastRegs[status.SlotPowerFlags] != 0x1 {
		t.Fatalf("power slot got=%d want=1", cli.lastRegs[status.SlotPowerFlags])
	}

	// Verify device name encoding EXACTLY
	expectedNameRegs := status.EncodeDeviceName(plan.Status.DeviceName)

	for i := 0; i < status.SlotDeviceNameSlots; i++ {
		slot := status.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf(
				"device name slot %d mismatch: got=%d want=%d",
				slot,
				cli.lastRegs[slot],
				expectedNameRegs[i],
			)
		}
	}

	// ---- second write: INCREMENTAL ONLY ----
	second := first
	second.Power.BUNDPower2 = true

	cli.writes = nil
	if err := sw.WriteStatus(second); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}

	// Only the power slot changed
	if len(cli.writes) != 1 {
		t.Fatalf("expected 1 incremental write, got %d", len(cli.writes))
	}
	if cli.lastRegsAddr != status.SlotPowerFlags {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, status.SlotPowerFlags)
	}
	if cli.lastRegs[0] != 0x9 {
		t.Fatalf("power word got=0x%x want=0x9", cli.lastRegs[0])
	}
}

func TestSecondsInErrorResetOnRecovery(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, plan := newStatusWriter(t, cli, 2)

	// simulate ERROR
	errSnap := status.Snapshot{
		Health:         status.HealthError,
		LastErrorCode:  42,
		SecondsInError: 3,
	}

	if err := sw.WriteStatus(errSnap); err != nil {
		t.Fatalf("error snapshot write failed: %v", err)
	}

	// simulate recovery, seconds reset last
	okSnap := status.Snapshot{
		Health: status.HealthOK,
	}

	if err := sw.WriteStatus(okSnap); err != nil {
		t.Fatalf("recovery snapshot write failed: %v", err)
	}

	expectedAddr := plan.Status.BaseSlot*status.SlotsPerDevice + status.SlotSecondsInError

	if cli.lastRegsAddr != expectedAddr {
		t.Fatalf("unexpected write addr: got=%d want=%d", cli.lastRegsAddr, expectedAddr)
	}

	if len(cli.lastRegs) != 1 {
		t.Fatalf("expected 1 register write, got %d", len(cli.lastRegs))
	}

	if cli.lastRegs[0] != 0 {
		t.Fatalf("seconds_in_error not reset: got=%d want=0", cli.lastRegs[0])
	}
}

func TestFailedWriteForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	sw, _ := newStatusWriter(t, cli, 0)

	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthOK}); err != nil {
		t.Fatalf("initial write failed: %v", err)
	}

	cli.fail = true
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err == nil {
		t.Fatalf("expected write error")
	}

	cli.fail = false
	if err := sw.WriteStatus(status.Snapshot{Health: status.HealthError, LastErrorCode: 1}); err != nil {
		t.Fatalf("write after recovery failed: %v", err)
	}
	if len(cli.lastRegs) != status.SlotsPerDevice {
		t.Fatalf("expected full block re-assert, got %d regs", len(cli.lastRegs))
	}
}
