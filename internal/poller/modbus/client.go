// internal/poller/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements poller.FrameSource over Modbus TCP.
// The EGSE rack front exposes each telemetry frame as a register block,
// two frame bytes per register, big-endian.
// This adapter is geometry-only: it reads registers and returns raw bytes.
type Client struct {
	handler *modbus.TCPClientHandler
	client  modbus.Client

	holding    bool
	address    uint16
	frameBytes int
}

// Config is minimal transport + frame geometry config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration

	Holding    bool // read holding registers (FC 3) instead of input registers (FC 4)
	Address    uint16
	FrameBytes int
}

// ExceptionError is a Modbus exception answered by the rack.
type ExceptionError struct {
	Function  byte
	Exception byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception: fc=%d code=%d", e.Function, e.Exception)
}

// Code exposes the exception code for status reporting.
func (e *ExceptionError) Code() uint16 { return uint16(e.Exception) }

// New creates a connected Modbus TCP client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbus source: endpoint required")
	}
	if cfg.FrameBytes <= 0 {
		return nil, errors.New("modbus source: frame bytes must be > 0")
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.Timeout = cfg.Timeout
	h.SlaveId = cfg.UnitID

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus source: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler:    h,
		client:     modbus.NewClient(h),
		holding:    cfg.Holding,
		address:    cfg.Address,
		frameBytes: cfg.FrameBytes,
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- poller.FrameSource interface ----

// ReadFrame reads one telemetry frame.
func (c *Client) ReadFrame() ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("modbus source: not connected")
	}

	qty := uint16((c.frameBytes + 1) / 2)

	var (
		data []byte
		err  error
	)
	if c.holding {
		data, err = c.client.ReadHoldingRegisters(c.address, qty)
	} else {
		data, err = c.client.ReadInputRegisters(c.address, qty)
	}
	if err != nil {
		var me *modbus.ModbusError
		if errors.As(err, &me) {
			return nil, &ExceptionError{Function: me.FunctionCode, Exception: me.ExceptionCode}
		}
		return nil, err
	}

	if len(data) < c.frameBytes {
		return nil, fmt.Errorf("modbus source: short frame: got=%d want=%d", len(data), c.frameBytes)
	}

	// An odd frame length leaves a padding byte in the last register.
	return data[:c.frameBytes], nil
}
