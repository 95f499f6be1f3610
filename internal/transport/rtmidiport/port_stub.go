//go:build !rtmidi
// +build !rtmidi

package rtmidiport

import (
	"errors"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// ErrNotBuilt is returned when the library was built without the rtmidi
// tag.
var ErrNotBuilt = errors.New("rtmidi support not built in (build with -tags rtmidi)")

// Port is unavailable without the rtmidi build tag.
type Port struct{}

// ListInputs reports that rtmidi support is not built in.
func ListInputs() ([]string, error) {
	return nil, ErrNotBuilt
}

// Open reports that rtmidi support is not built in.
func Open(portName string, log contracts.Logger) (*Port, error) {
	log.Warn("rtmidi port requested without rtmidi build tag",
		log.Field().String("port", portName))
	return nil, ErrNotBuilt
}

func (p *Port) ReadByte() (byte, bool) { return 0, false }

func (p *Port) WriteBytes(data []byte) error { return ErrNotBuilt }

func (p *Port) Close() error { return nil }
