package midi

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/multierr"

	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/parser"
)

// USBInterface sends and receives MIDI messages over a packet-oriented
// USB-MIDI transport. Reads are served by a USBParser; sends derive the
// code index number from the message and are serialized under a mutex,
// since USB stacks commonly complete sends from interrupt-style
// callbacks concurrent with the polling loop.
type USBInterface struct {
	source contracts.PacketSource
	sink   contracts.PacketSink
	parser *parser.USBParser
	logger contracts.Logger
	limit  int // packet pulls per Read call

	mu sync.Mutex // guards the sink
}

// NewUSBInterface creates a MIDI interface over the given packet source
// and sink. Cables are carried per packet, so outgoing messages use the
// cable stored in the message itself.
func NewUSBInterface(source contracts.PacketSource, sink contracts.PacketSink, opts ...contracts.Option) (*USBInterface, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}
	options.Logger.Debug("USB MIDI interface created",
		options.Logger.Field().Int("maxPacketsPerRead", options.MaxPacketsPerRead))

	return &USBInterface{
		source: source,
		sink:   sink,
		parser: parser.NewUSBParser(),
		logger: options.Logger,
		limit:  options.MaxPacketsPerRead,
	}, nil
}

// Read first drains any events left in the previous packet, then pulls
// packets from the source until a message completes, the source runs
// dry, or the per-call packet limit is reached. It never blocks.
func (u *USBInterface) Read() contracts.ReadEvent {
	if ev := u.parser.Resume(); ev != contracts.NoMessage {
		return ev
	}
	for i := 0; i < u.limit; i++ {
		pkt, ok := u.source.ReadPacket()
		if !ok || pkt.Zero() {
			return contracts.NoMessage
		}
		if ev := u.parser.Parse(pkt); ev != contracts.NoMessage {
			return ev
		}
	}
	return contracts.NoMessage
}

// ChannelMessage returns the message completed by the last Read call
// that reported ChannelMessageEvent.
func (u *USBInterface) ChannelMessage() contracts.ChannelMessage {
	return u.parser.ChannelMessage()
}

// SysExMessage returns the view delivered by the last Read call that
// reported SysExChunkEvent or SysExMessageEvent. Valid until the next
// Read call.
func (u *USBInterface) SysExMessage() contracts.SysExMessage {
	return u.parser.SysExMessage()
}

// RealTimeMessage returns the message delivered by the last Read call
// that reported RealTimeMessageEvent.
func (u *USBInterface) RealTimeMessage() contracts.RealTimeMessage {
	return u.parser.RealTimeMessage()
}

// SendChannelMessage writes the message as one packet. The code index
// number equals the message's type nibble.
func (u *USBInterface) SendChannelMessage(msg contracts.ChannelMessage) error {
	if !msg.ValidHeader() {
		return fmt.Errorf("%w: 0x%02X", ErrInvalidHeader, msg.Header)
	}
	data2 := byte(0)
	if msg.TwoDataBytes() {
		data2 = msg.Data2 & 0x7F
	}
	pkt := contracts.NewPacket(msg.Cable, contracts.CodeIndexNumber(msg.Header>>4),
		msg.Header, msg.Data1&0x7F, data2)

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sink.WritePacket(pkt)
}

// SendSysEx frames the body between start and end bytes, packs it three
// bytes per start/continue packet, and ends with a 1-3 byte tail packet
// whose code index number encodes the tail length. The whole burst is
// one critical section.
func (u *USBInterface) SendSysEx(msg contracts.SysExMessage) error {
	framed := make([]byte, 0, len(msg.Data)+2)
	framed = append(framed, byte(contracts.SysExStart))
	framed = append(framed, msg.Data...)
	framed = append(framed, byte(contracts.SysExEnd))

	u.mu.Lock()
	defer u.mu.Unlock()

	for len(framed) > 3 {
		pkt := contracts.NewPacket(msg.Cable, contracts.CINSysExStartCont,
			framed[0], framed[1], framed[2])
		if err := u.sink.WritePacket(pkt); err != nil {
			return err
		}
		framed = framed[3:]
	}
	switch len(framed) {
	case 3:
		return u.sink.WritePacket(contracts.NewPacket(msg.Cable, contracts.CINSysExEnd3B,
			framed[0], framed[1], framed[2]))
	case 2:
		return u.sink.WritePacket(contracts.NewPacket(msg.Cable, contracts.CINSysExEnd2B,
			framed[0], framed[1], 0))
	default:
		return u.sink.WritePacket(contracts.NewPacket(msg.Cable, contracts.CINSysExEnd1B,
			framed[0], 0, 0))
	}
}

// SendRealTime writes the message as a single-byte packet.
func (u *USBInterface) SendRealTime(msg contracts.RealTimeMessage) error {
	if msg.Message < 0xF8 && msg.Message != byte(contracts.TuneRequest) {
		return fmt.Errorf("%w: 0x%02X", ErrNotRealTime, msg.Message)
	}
	pkt := contracts.NewPacket(msg.Cable, contracts.CINSingleByte, msg.Message, 0, 0)

	u.mu.Lock()
	defer u.mu.Unlock()
	return u.sink.WritePacket(pkt)
}

// Reset drops any stored packet and every cable's accumulation state,
// for use after a transport reconnect.
func (u *USBInterface) Reset() {
	u.parser.Reset()
}

// Close closes the source and sink when they support it. A transport
// object serving as both is closed once.
func (u *USBInterface) Close() error {
	var err error
	sc, _ := u.source.(io.Closer)
	if sc != nil {
		err = multierr.Append(err, sc.Close())
	}
	if c, ok := u.sink.(io.Closer); ok && c != sc {
		err = multierr.Append(err, c.Close())
	}
	return err
}
