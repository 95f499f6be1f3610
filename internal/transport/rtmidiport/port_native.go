//go:build rtmidi
// +build rtmidi

// Package rtmidiport adapts rtmidi device ports to the byte transport
// contracts, for hosts where MIDI hardware is reached through the OS
// MIDI service rather than a raw serial device. Build with the rtmidi
// tag; it needs cgo and the rtmidi system library.
package rtmidiport

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// ErrPortNotFound is returned when no input port matches the requested
// name.
var ErrPortNotFound = errors.New("MIDI port not found")

// Port bridges one rtmidi input (and optionally its matching output)
// to the byte transport contracts. Incoming driver callbacks buffer raw
// bytes; the polling loop drains them through ReadByte.
type Port struct {
	drv    *rtmididrv.Driver
	in     midi.In
	out    midi.Out
	logger contracts.Logger

	mu  sync.Mutex
	buf []byte
	off int

	closeOnce sync.Once
	closeErr  error
}

// ListInputs returns the names of the available input ports.
func ListInputs() ([]string, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, err
	}
	defer drv.Close()

	ins, err := drv.Ins()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

// Open opens the input port whose name matches portName (exact match
// first, then substring) and the output port with the same name when
// one exists.
func Open(portName string, log contracts.Logger) (*Port, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv.New: %w", err)
	}

	in, err := findIn(drv, portName)
	if err != nil {
		_ = drv.Close()
		return nil, err
	}
	if err := in.Open(); err != nil {
		_ = drv.Close()
		return nil, fmt.Errorf("error opening input port: %w", err)
	}

	p := &Port{drv: drv, in: in, logger: log}

	if err := in.SetListener(func(data []byte, _ int64) {
		p.mu.Lock()
		p.buf = append(p.buf, data...)
		p.mu.Unlock()
	}); err != nil {
		_ = in.Close()
		_ = drv.Close()
		return nil, fmt.Errorf("error setting listener: %w", err)
	}

	if out := findOut(drv, in.String()); out != nil {
		if err := out.Open(); err == nil {
			p.out = out
		} else {
			log.Warn("matching output port could not be opened",
				log.Field().String("port", in.String()),
				log.Field().Error("error", err))
		}
	}

	log.Info("rtmidi port opened",
		log.Field().String("port", in.String()),
		log.Field().Bool("duplex", p.out != nil))
	return p, nil
}

func findIn(drv *rtmididrv.Driver, portName string) (midi.In, error) {
	ins, err := drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("error listing input ports: %w", err)
	}
	for _, in := range ins {
		if in.String() == portName {
			return in, nil
		}
	}
	for _, in := range ins {
		if strings.Contains(in.String(), portName) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPortNotFound, portName)
}

func findOut(drv *rtmididrv.Driver, portName string) midi.Out {
	outs, err := drv.Outs()
	if err != nil {
		return nil
	}
	for _, out := range outs {
		if out.String() == portName {
			return out
		}
	}
	return nil
}

// ReadByte pops the oldest buffered byte. It never blocks.
func (p *Port) ReadByte() (byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.off >= len(p.buf) {
		p.buf = p.buf[:0]
		p.off = 0
		return 0, false
	}
	b := p.buf[p.off]
	p.off++
	return b, true
}

// WriteBytes sends data through the matching output port.
func (p *Port) WriteBytes(data []byte) error {
	if p.out == nil {
		return fmt.Errorf("%w: no output side", ErrPortNotFound)
	}
	return p.out.Send(data)
}

// Close stops listening and releases the driver. Safe to call more
// than once.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		_ = p.in.StopListening()
		_ = p.in.Close()
		if p.out != nil {
			_ = p.out.Close()
		}
		p.closeErr = p.drv.Close()
		p.logger.Debug("rtmidi port closed")
	})
	return p.closeErr
}
