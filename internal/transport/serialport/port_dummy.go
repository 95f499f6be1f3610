//go:build !linux
// +build !linux

package serialport

import (
	"errors"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// MIDIBaud is the baud rate of a DIN-5 MIDI serial link.
const MIDIBaud = 31250

// ErrUnsupported is returned when raw serial ports are not available on
// this platform.
var ErrUnsupported = errors.New("raw serial ports are not supported on this platform")

// Port is unavailable on this platform.
type Port struct{}

// Open reports that raw serial ports are unsupported here.
func Open(path string, baud uint32, log contracts.Logger) (*Port, error) {
	log.Warn("serial port requested on unsupported platform",
		log.Field().String("path", path))
	return nil, ErrUnsupported
}

func (p *Port) ReadByte() (byte, bool) { return 0, false }

func (p *Port) WriteBytes(data []byte) error { return ErrUnsupported }

func (p *Port) Close() error { return nil }
