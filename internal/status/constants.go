// internal/status/constants.go
package status

// Device Status Block layout constants.
// These values define the protocol and MUST NOT be configurable.

// ---- BLOCK GEOMETRY ----

// SlotsPerDevice is the fixed number of logical slots per device.
const SlotsPerDevice = 20

// ---- SLOT INDICES ----

// SlotHealthCode holds the telemetry link health state.
const SlotHealthCode = 0

// SlotLastErrorCode holds the last raw error code.
const SlotLastErrorCode = 1

// SlotSecondsInError holds the duration (in seconds) the link has been in error.
const SlotSecondsInError = 2

// SlotPowerFlags holds the decoded power flags (telemetry.PowerStatus.Word).
const SlotPowerFlags = 3

// SlotRawStatus holds the raw telemetry status byte (frame offset 3).
const SlotRawStatus = 4

// ---- RESERVED RANGE ----

// Slots 5–10 are reserved for future use.
const SlotReservedStart = 5
const SlotReservedEnd = 10

// ---- DEVICE NAME ----

// SlotDeviceNameStart is the first slot used for the device name.
// Device name is always placed at the END of the status block.
const SlotDeviceNameStart = 11

// SlotDeviceNameSlots is the number of slots reserved for the device name.
const SlotDeviceNameSlots = 8


// ---- LIMITS ----

// MaxRegisterAddr is the last addressable register of status memory.
const MaxRegisterAddr = 0xFFFF

// DeviceNameMaxChars is the maximum number of ASCII characters stored for device name.
const DeviceNameMaxChars = 16

// MaxSecondsInError is where the seconds counter saturates.
const MaxSecondsInError = 65535

// ---- HEALTH CODES ----

// HealthUnknown represents an unknown or boot state.
const HealthUnknown uint16 = 0

// HealthOK represents a healthy telemetry link.
const HealthOK uint16 = 1

// HealthError represents a link or decode error state.
const HealthError uint16 = 2

// HealthDisabled marks a channel whose poller has stopped.
const HealthDisabled uint16 = 4

// ---- ERROR CODES (slot 1) ----

// ErrorCodeNone is reported while healthy.
// Modbus exception codes from the rack (1–11) pass through unchanged.
const ErrorCodeNone uint16 = 0

// ErrorCodeGeneric is any transport error without a device code.
const ErrorCodeGeneric uint16 = 0x0100

// ErrorCodeShortFrame is a frame too short to carry the power status byte.
const ErrorCodeShortFrame uint16 = 0x0101
