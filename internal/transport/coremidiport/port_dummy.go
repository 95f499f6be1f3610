//go:build !darwin
// +build !darwin

package coremidiport

import (
	"errors"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// ErrUnsupported is returned when CoreMIDI is not available on this
// platform.
var ErrUnsupported = errors.New("CoreMIDI is not available on this platform")

// Port is unavailable on this platform.
type Port struct{}

// ListSources reports that CoreMIDI is unsupported here.
func ListSources() ([]contracts.PortInfo, error) {
	return nil, ErrUnsupported
}

// Open reports that CoreMIDI is unsupported here.
func Open(clientName string, sourceIndex int, log contracts.Logger) (*Port, error) {
	log.Warn("CoreMIDI port requested on non-macOS system")
	return nil, ErrUnsupported
}

func (p *Port) ReadByte() (byte, bool) { return 0, false }

func (p *Port) Close() error { return nil }
