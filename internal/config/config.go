// internal/config/config.go
package config

type Config struct {
	EGSE EGSEConfig `yaml:"egse"`
}

type EGSEConfig struct {
	Logging  LoggingConfig   `yaml:"logging"`
	Channels []ChannelConfig `yaml:"channels"`
	Logs     []LogConfig     `yaml:"logs"`
}

// ---- DAEMON LOGGING ----

type LoggingConfig struct {
	Directory  string `yaml:"directory"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// ---- TELEMETRY CHANNEL ----

type ChannelConfig struct {
	ID         string         `yaml:"id"`
	DeviceName string         `yaml:"device_name"`
	Source     SourceConfig   `yaml:"source"`
	Poll       PollConfig     `yaml:"poll"`
	Status     *StatusConfig  `yaml:"status"` // optional, opt-in
	Mirror     []MirrorConfig `yaml:"mirror"`
}

// ---- SOURCE ----

const (
	SourceModbus = "modbus"
	SourceReplay = "replay"
)

const (
	RegisterInput   = "input"
	RegisterHolding = "holding"
)

type SourceConfig struct {
	Kind      string `yaml:"kind"`
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Frame geometry (modbus)
	Register   string `yaml:"register"`
	Address    uint16 `yaml:"address"`
	FrameBytes int    `yaml:"frame_bytes"`

	// Replay file: one hex-encoded frame per line
	Path string `yaml:"path"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- DELIVERY ----

const (
	ProtocolModbus = "modbus"
	ProtocolIngest = "ingest"
)

// StatusConfig places the device status block in a status memory.
type StatusConfig struct {
	Protocol string `yaml:"protocol"`
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	Slot     uint16 `yaml:"slot"`
}

// MirrorConfig is one raw-frame copy destination.
type MirrorConfig struct {
	Protocol string `yaml:"protocol"`
	Endpoint string `yaml:"endpoint"`
	UnitID   uint8  `yaml:"unit_id"`
	Address  uint16 `yaml:"address"`
}

// ---- WATCHED LOG FILES ----

type LogConfig struct {
	ID             string `yaml:"id"`
	Path           string `yaml:"path"`
	Encoding       string `yaml:"encoding"`
	IntervalMs     int    `yaml:"interval_ms"`
	ReplayExisting bool   `yaml:"replay_existing"`
}
