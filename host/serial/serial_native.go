//go:build !wasm

package serial

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// tarmPort is a serial-vis link on a real tty, always 8N1
type tarmPort struct {
	*serial.Port
	device string
}

// Open opens the device named by cfg through tarm/serial
func Open(cfg *Config) (Port, error) {
	link, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        link.Device,
		Baud:        link.Baud,
		ReadTimeout: time.Duration(link.ReadTimeout) * time.Millisecond,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s at %d baud: %w", link.Device, link.Baud, err)
	}
	return &tarmPort{Port: port, device: link.Device}, nil
}

// Flush is a no-op. Write hands each frame to the driver before returning and
// tarm's Flush would discard bytes still queued for the wire.
func (p *tarmPort) Flush() error {
	return nil
}

func (p *tarmPort) String() string {
	return p.device
}
