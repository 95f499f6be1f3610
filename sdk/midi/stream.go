// Package midi builds full-duplex MIDI interfaces on top of the
// transport contracts: a byte-stream interface for serial-style links
// and a packet interface for USB-MIDI. Both are polled, never block,
// and serialize sends so concurrent senders cannot corrupt a message.
package midi

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"

	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/parser"
)

// Error definitions for message serialization issues.
var (
	ErrInvalidHeader = errors.New("invalid channel message header")
	ErrNotRealTime   = errors.New("not a real-time message byte")
)

// StreamInterface sends and receives MIDI messages over a byte-oriented
// transport such as a serial port. Reads are served by a StreamParser;
// sends are serialized under a mutex so a cooperative task and an
// interrupt-style callback cannot interleave their bytes.
type StreamInterface struct {
	source contracts.ByteSource
	sink   contracts.ByteSink
	parser *parser.StreamParser
	logger contracts.Logger
	chunk  int

	mu sync.Mutex // guards the sink
}

// NewStreamInterface creates a MIDI interface over the given byte
// source and sink. Messages parsed from the source are tagged with the
// cable configured by WithCable.
func NewStreamInterface(source contracts.ByteSource, sink contracts.ByteSink, opts ...contracts.Option) (*StreamInterface, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("stream MIDI interface created",
		options.Logger.Field().Uint8("cable", options.Cable.Raw()))

	return &StreamInterface{
		source: source,
		sink:   sink,
		parser: parser.NewStreamParser(options.Cable),
		logger: options.Logger,
		chunk:  options.SysExSendChunk,
	}, nil
}

// Read pumps available bytes through the parser until a message
// completes or the source runs dry. It never blocks.
func (s *StreamInterface) Read() contracts.ReadEvent {
	for {
		b, ok := s.source.ReadByte()
		if !ok {
			return contracts.NoMessage
		}
		if ev := s.parser.Parse(b); ev != contracts.NoMessage {
			return ev
		}
	}
}

// ChannelMessage returns the message completed by the last Read call
// that reported ChannelMessageEvent.
func (s *StreamInterface) ChannelMessage() contracts.ChannelMessage {
	return s.parser.ChannelMessage()
}

// SysExMessage returns the view delivered by the last Read call that
// reported SysExChunkEvent or SysExMessageEvent. Valid until the next
// Read call.
func (s *StreamInterface) SysExMessage() contracts.SysExMessage {
	return s.parser.SysExMessage()
}

// RealTimeMessage returns the message delivered by the last Read call
// that reported RealTimeMessageEvent.
func (s *StreamInterface) RealTimeMessage() contracts.RealTimeMessage {
	return s.parser.RealTimeMessage()
}

// SendChannelMessage writes the status byte and one or two data bytes
// as a single atomic burst.
func (s *StreamInterface) SendChannelMessage(msg contracts.ChannelMessage) error {
	if !msg.ValidHeader() {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidHeader, msg.Header)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if msg.TwoDataBytes() {
		return s.sink.WriteBytes([]byte{msg.Header, msg.Data1 & 0x7F, msg.Data2 & 0x7F})
	}
	return s.sink.WriteBytes([]byte{msg.Header, msg.Data1 & 0x7F})
}

// SendSysEx frames the message body between start and end bytes and
// writes it in bursts of the configured chunk size, all under one lock
// so no other sender can slip bytes into the middle of the message.
func (s *StreamInterface) SendSysEx(msg contracts.SysExMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sink.WriteBytes([]byte{byte(contracts.SysExStart)}); err != nil {
		return err
	}
	data := msg.Data
	for len(data) > 0 {
		n := s.chunk
		if n > len(data) {
			n = len(data)
		}
		if err := s.sink.WriteBytes(data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return s.sink.WriteBytes([]byte{byte(contracts.SysExEnd)})
}

// SendRealTime writes the single message byte.
func (s *StreamInterface) SendRealTime(msg contracts.RealTimeMessage) error {
	if msg.Message < 0xF8 && msg.Message != byte(contracts.TuneRequest) {
		return fmt.Errorf("%w: 0x%02X", ErrNotRealTime, msg.Message)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink.WriteBytes([]byte{msg.Message})
}

// Reset clears running status and any in-progress accumulation, for use
// after a transport reconnect.
func (s *StreamInterface) Reset() {
	s.parser.Reset()
}

// Close closes the source and sink when they support it. A transport
// object serving as both is closed once.
func (s *StreamInterface) Close() error {
	var err error
	sc, _ := s.source.(io.Closer)
	if sc != nil {
		err = multierr.Append(err, sc.Close())
	}
	if c, ok := s.sink.(io.Closer); ok && c != sc {
		err = multierr.Append(err, c.Close())
	}
	return err
}
