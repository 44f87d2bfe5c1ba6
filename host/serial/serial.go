package serial

import (
	"errors"
	"fmt"
	"io"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Writer ports for dry runs (stdout, files)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (serial-vis sketches use 115200)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud is the rate the serial-vis host listens at
const DefaultBaud = 115200

// DefaultConfig returns a default configuration for a serial-vis device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 100, // 100ms read timeout
	}
}

// ErrNoDevice is returned when a Config names no device
var ErrNoDevice = errors.New("serial: no device configured")

// resolve validates c and fills zero fields with serial-vis defaults
func (c *Config) resolve() (Config, error) {
	if c == nil {
		return Config{}, errors.New("serial: nil config")
	}
	out := *c
	if out.Device == "" {
		return Config{}, ErrNoDevice
	}
	if out.Baud == 0 {
		out.Baud = DefaultBaud
	}
	if out.Baud < 0 {
		return Config{}, fmt.Errorf("serial: invalid baud rate %d", out.Baud)
	}
	if out.ReadTimeout < 0 {
		return Config{}, fmt.Errorf("serial: invalid read timeout %dms", out.ReadTimeout)
	}
	return out, nil
}

// WriterPort adapts a plain io.Writer to Port.
// Reads report io.EOF. Close does not close the writer; its owner does.
type WriterPort struct {
	w io.Writer
}

// NewWriterPort wraps w as an output-only Port
func NewWriterPort(w io.Writer) *WriterPort {
	return &WriterPort{w: w}
}

func (p *WriterPort) Read(b []byte) (int, error) {
	return 0, io.EOF
}

func (p *WriterPort) Write(b []byte) (int, error) {
	return p.w.Write(b)
}

func (p *WriterPort) Close() error {
	return nil
}

// Flush flushes the writer if it supports it
func (p *WriterPort) Flush() error {
	type flusher interface{ Flush() error }
	if f, ok := p.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
