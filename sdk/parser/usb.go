package parser

import "github.com/leandrodaf/midiwire/sdk/contracts"

// cableCount is the number of virtual ports a USB-MIDI connection can
// multiplex; the cable field is a nibble.
const cableCount = 16

type sysexState struct {
	buf    [SysExBufferSize]byte
	idx    int
	active bool
}

// USBParser reconstructs MIDI messages from 4-byte USB-MIDI event
// packets. Packets are self-describing, so there is no running status
// to track, but System Exclusive messages still span packets and are
// reassembled through the same chunked fixed buffer as the stream
// parser - independently per cable, since packets from different
// cables may interleave.
//
// One packet can complete more than one event when a chunk boundary
// falls inside it. Parse stops at the first event and remembers its
// position; call Resume until it reports NoMessage before feeding the
// next packet.
//
// A USBParser is not safe for concurrent use: exactly one exists per
// transport.
type USBParser struct {
	sysex [cableCount]sysexState

	message   contracts.ChannelMessage
	realTime  contracts.RealTimeMessage
	sysexView contracts.SysExMessage

	packet   contracts.Packet
	consumed int // payload bytes of the stored packet already processed
	pending  bool
}

// NewUSBParser returns a parser for USB-MIDI event packets.
func NewUSBParser() *USBParser {
	return &USBParser{}
}

// Parse consumes one packet and reports the first message it completes,
// if any. Reserved and unsupported packets are discarded silently.
func (p *USBParser) Parse(pkt contracts.Packet) contracts.ReadEvent {
	p.packet = pkt
	p.consumed = 0
	p.pending = true
	return p.scan()
}

// Resume continues a packet whose processing stopped at a chunk
// boundary. It reports NoMessage once the stored packet is exhausted.
func (p *USBParser) Resume() contracts.ReadEvent {
	if !p.pending {
		return contracts.NoMessage
	}
	return p.scan()
}

func (p *USBParser) scan() contracts.ReadEvent {
	pkt := p.packet
	cable := pkt.Cable()

	switch cin := pkt.CIN(); cin {
	case contracts.CINNoteOff, contracts.CINNoteOn, contracts.CINKeyPressure,
		contracts.CINControlChange, contracts.CINProgramChange,
		contracts.CINChannelPressure, contracts.CINPitchBend:
		p.pending = false
		msg := contracts.ChannelMessage{Header: pkt[1], Data1: pkt[2], Data2: pkt[3], Cable: cable}
		// The status byte must agree with the code index number.
		if contracts.CodeIndexNumber(msg.Header>>4) != cin {
			return contracts.NoMessage
		}
		p.message = msg
		return contracts.ChannelMessageEvent

	case contracts.CINSysExStartCont:
		return p.scanSysEx(cable, pkt[1:4])

	case contracts.CINSysExEnd1B:
		// One meaningful byte: a lone SysEx terminator, or a single-byte
		// System Common message.
		b := pkt[1]
		if b == byte(contracts.SysExEnd) {
			return p.scanSysEx(cable, pkt[1:2])
		}
		p.pending = false
		if b >= 0xF8 || b == byte(contracts.TuneRequest) {
			p.realTime = contracts.RealTimeMessage{Message: b, Cable: cable}
			return contracts.RealTimeMessageEvent
		}
		return contracts.NoMessage

	case contracts.CINSysExEnd2B:
		return p.scanSysEx(cable, pkt[1:3])

	case contracts.CINSysExEnd3B:
		return p.scanSysEx(cable, pkt[1:4])

	case contracts.CINSingleByte:
		p.pending = false
		if b := pkt[1]; b >= 0xF8 || b == byte(contracts.TuneRequest) {
			p.realTime = contracts.RealTimeMessage{Message: b, Cable: cable}
			return contracts.RealTimeMessageEvent
		}
		return contracts.NoMessage

	default:
		// Misc function codes, cable events and 2/3-byte System Common
		// messages carry nothing this model delivers.
		p.pending = false
		return contracts.NoMessage
	}
}

// scanSysEx feeds the packet's SysEx payload into the per-cable
// accumulator, starting after any bytes consumed by an earlier pass
// over the same packet.
func (p *USBParser) scanSysEx(cable contracts.Cable, payload []byte) contracts.ReadEvent {
	st := &p.sysex[cable.Raw()]
	for p.consumed < len(payload) {
		b := payload[p.consumed]
		p.consumed++
		switch {
		case b == byte(contracts.SysExStart):
			st.active = true
			st.idx = 0

		case b == byte(contracts.SysExEnd):
			p.pending = false
			if !st.active {
				return contracts.NoMessage
			}
			p.sysexView = contracts.SysExMessage{Data: st.buf[:st.idx], Cable: cable}
			st.active = false
			st.idx = 0
			return contracts.SysExMessageEvent

		case st.active:
			st.buf[st.idx] = b
			st.idx++
			if st.idx == SysExBufferSize {
				p.sysexView = contracts.SysExMessage{Data: st.buf[:], Cable: cable}
				st.idx = 0
				p.pending = p.consumed < len(payload)
				return contracts.SysExChunkEvent
			}

		default:
			// Continuation byte with no start seen on this cable: discard.
		}
	}
	p.pending = false
	return contracts.NoMessage
}

// ChannelMessage returns the message completed by the last Parse or
// Resume call that reported ChannelMessageEvent.
func (p *USBParser) ChannelMessage() contracts.ChannelMessage { return p.message }

// SysExMessage returns the view delivered by the last Parse or Resume
// call that reported SysExChunkEvent or SysExMessageEvent. The view is
// valid only until the next Parse or Resume call.
func (p *USBParser) SysExMessage() contracts.SysExMessage { return p.sysexView }

// RealTimeMessage returns the message delivered by the last Parse or
// Resume call that reported RealTimeMessageEvent.
func (p *USBParser) RealTimeMessage() contracts.RealTimeMessage { return p.realTime }

// Reset drops the stored packet and every cable's accumulation state.
func (p *USBParser) Reset() {
	p.pending = false
	p.consumed = 0
	for i := range p.sysex {
		p.sysex[i].active = false
		p.sysex[i].idx = 0
	}
}
