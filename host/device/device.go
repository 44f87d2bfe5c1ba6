// Package device manages a host-side connection to a serial-vis receiver
package device

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"serialvis/host/serial"
	"serialvis/protocol"
)

var ErrNotConnected = errors.New("device: not connected")

// DefaultSendAttempts is the number of tries for a frame the port rejected outright
const DefaultSendAttempts = 3

// Device serializes frame emission onto one serial port.
// It is safe for concurrent use; frames never interleave.
type Device struct {
	mu sync.Mutex

	// Serial port
	port serial.Port

	// Frame encoder bound to port
	emitter *protocol.Emitter

	// Attempts per frame when the port accepted no bytes
	sendAttempts int

	log zerolog.Logger

	// Connection state
	connected bool

	// Counters
	framesSent   uint64
	framesFailed uint64
}

// Option configures a Device
type Option func(*Device)

// WithLogger sets the logger used for connection and send events
func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) {
		d.log = l
	}
}

// WithSendAttempts sets how many times a frame is tried when the port
// fails before accepting any byte. Values below 1 mean 1.
func WithSendAttempts(n int) Option {
	return func(d *Device) {
		if n < 1 {
			n = 1
		}
		d.sendAttempts = n
	}
}

// New creates a Device (not yet connected)
func New(opts ...Option) *Device {
	d := &Device{
		sendAttempts: DefaultSendAttempts,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Connect opens device with the default serial configuration
func (d *Device) Connect(device string) error {
	return d.ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a native serial port with a custom config
func (d *Device) ConnectWithConfig(cfg *serial.Config) error {
	port, err := serial.Open(cfg)
	if err != nil {
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	d.Attach(port)
	d.log.Info().Str("device", cfg.Device).Int("baud", cfg.Baud).Msg("connected")
	return nil
}

// Attach uses an already open port, closing any previous one
func (d *Device) Attach(port serial.Port) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port != nil {
		if err := d.port.Close(); err != nil {
			d.log.Warn().Err(err).Msg("closing previous port")
		}
	}

	d.port = port
	d.emitter = protocol.NewEmitter(port)
	d.connected = true
}

// Close closes the connection
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}
	d.connected = false
	d.emitter = nil

	port := d.port
	d.port = nil
	if err := port.Close(); err != nil {
		return fmt.Errorf("close port: %w", err)
	}
	d.log.Debug().Uint64("sent", d.framesSent).Uint64("failed", d.framesFailed).Msg("closed")
	return nil
}

// IsConnected returns whether a port is attached
func (d *Device) IsConnected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Emit sends one frame.
// Contract violations are returned at once. A sink failure is retried only
// when the port took no bytes, so a retry never follows a partial frame.
func (d *Device) Emit(opcode string, desc protocol.Descriptor, values ...protocol.Value) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return ErrNotConnected
	}

	var err error
	for attempt := 1; attempt <= d.sendAttempts; attempt++ {
		err = d.emitter.Emit(opcode, desc, values...)
		if err == nil {
			d.framesSent++
			if attempt > 1 {
				d.log.Debug().Str("opcode", opcode).Int("attempt", attempt).Msg("frame sent after retry")
			}
			return nil
		}

		var sinkErr *protocol.SinkError
		if !errors.As(err, &sinkErr) || sinkErr.Written > 0 {
			break
		}
		d.log.Warn().Err(sinkErr.Err).Str("opcode", opcode).Int("attempt", attempt).Msg("write failed")
	}

	d.framesFailed++
	if errors.Is(err, protocol.ErrContractViolation) {
		d.log.Debug().Err(err).Str("opcode", opcode).Msg("frame rejected")
	} else {
		d.log.Error().Err(err).Str("opcode", opcode).Msg("frame lost")
	}
	return fmt.Errorf("send %s: %w", opcode, err)
}

// SendFormat parses format and sends the frame
func (d *Device) SendFormat(opcode string, format string, values ...protocol.Value) error {
	desc, err := protocol.ParseDescriptor(format)
	if err != nil {
		return fmt.Errorf("send %s: %w", opcode, err)
	}
	return d.Emit(opcode, desc, values...)
}

// Flush flushes the underlying port
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return ErrNotConnected
	}
	return d.port.Flush()
}

// Stats returns the number of frames sent and lost since creation
func (d *Device) Stats() (sent, failed uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.framesSent, d.framesFailed
}
