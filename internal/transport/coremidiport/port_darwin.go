//go:build darwin
// +build darwin

// Package coremidiport feeds CoreMIDI input into a byte source the
// stream parser can drain from the polling loop.
package coremidiport

import (
	"errors"
	"fmt"
	"sync"

	"github.com/youpy/go-coremidi"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// Error definitions for CoreMIDI connection issues.
var (
	ErrNoSources       = errors.New("no CoreMIDI sources found")
	ErrInvalidSource   = errors.New("invalid CoreMIDI source")
	ErrCreateInputPort = errors.New("error creating input port")
	ErrConnect         = errors.New("error connecting to CoreMIDI source")
)

// portConnection is the subset of a CoreMIDI port connection the Port
// needs for teardown.
type portConnection interface {
	Disconnect()
}

// Port buffers raw bytes delivered by a CoreMIDI input callback so the
// cooperative polling loop can consume them one at a time. It
// implements contracts.ByteSource; CoreMIDI delivers parsed packets
// only, so the port has no sink side.
type Port struct {
	logger contracts.Logger
	client coremidi.Client
	conn   portConnection

	mu  sync.Mutex
	buf []byte
	off int
}

// ListSources returns the available CoreMIDI sources.
func ListSources() ([]contracts.PortInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing CoreMIDI sources: %w", err)
	}
	infos := make([]contracts.PortInfo, len(sources))
	for i, source := range sources {
		infos[i] = contracts.PortInfo{
			Name:         source.Name(),
			Manufacturer: source.Entity().Manufacturer(),
		}
	}
	return infos, nil
}

// Open connects to the source with the given index and starts buffering
// its bytes.
func Open(clientName string, sourceIndex int, log contracts.Logger) (*Port, error) {
	client, err := coremidi.NewClient(clientName)
	if err != nil {
		return nil, err
	}

	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing CoreMIDI sources: %w", err)
	}
	if len(sources) == 0 {
		log.Warn(ErrNoSources.Error())
		return nil, ErrNoSources
	}
	if sourceIndex < 0 || sourceIndex >= len(sources) {
		log.Error(ErrInvalidSource.Error(),
			log.Field().Int("sourceIndex", sourceIndex))
		return nil, ErrInvalidSource
	}

	p := &Port{logger: log, client: client}

	inputPort, err := coremidi.NewInputPort(client, "Input Port", p.handlePacket)
	if err != nil {
		log.Error(ErrCreateInputPort.Error())
		return nil, fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	source := sources[sourceIndex]
	p.conn, err = inputPort.Connect(source)
	if err != nil {
		log.Error(ErrConnect.Error())
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	log.Info("CoreMIDI source connected",
		log.Field().Int("sourceIndex", sourceIndex),
		log.Field().String("sourceName", source.Name()))
	return p, nil
}

// handlePacket runs on the CoreMIDI callback thread; the polling loop
// reads concurrently, so the buffer is locked.
func (p *Port) handlePacket(source coremidi.Source, packet coremidi.Packet) {
	p.mu.Lock()
	p.buf = append(p.buf, packet.Data...)
	p.mu.Unlock()
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

// Close disconnects from the source.
func (p *Port) Close() error {
	if p.conn != nil {
		p.conn.Disconnect()
		p.conn = nil
	}
	p.logger.Debug("CoreMIDI source disconnected")
	return nil
}
