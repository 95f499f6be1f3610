// Package parser reconstructs complete MIDI messages from the raw byte
// streams and USB event packets produced by MIDI transports. Both
// parsers run single-pass over their input with fixed buffers and never
// fail: malformed input degrades to "no message" and the parser
// resynchronizes on the next valid status byte.
package parser

import "github.com/leandrodaf/midiwire/sdk/contracts"

// SysExBufferSize is the capacity of a parser's System Exclusive
// accumulation buffer. Longer messages are delivered in chunks of
// exactly this size, each followed by further chunks or the final
// remainder once the terminator arrives.
const SysExBufferSize = 128

type streamState uint8

const (
	stateIdle   streamState = iota // waiting for a status byte
	stateData1                     // waiting for the first data byte
	stateData2                     // waiting for the second data byte
	stateSysEx                     // accumulating System Exclusive bytes
)

// StreamParser reconstructs MIDI messages from a raw byte stream, one
// byte at a time. It tracks running status, passes real-time bytes
// through without disturbing the message they interrupt, and streams
// oversized System Exclusive messages through its fixed buffer in
// chunks.
//
// A StreamParser owns its accumulation buffer and is not safe for
// concurrent use: exactly one exists per transport.
type StreamParser struct {
	state         streamState
	runningStatus byte

	message  contracts.ChannelMessage
	realTime contracts.RealTimeMessage

	sysex    [SysExBufferSize]byte
	sysexIdx int // next write position
	sysexLen int // length of the last delivered view

	cable contracts.Cable
}

// NewStreamParser returns a parser whose messages are tagged with the
// given cable number.
func NewStreamParser(cable contracts.Cable) *StreamParser {
	return &StreamParser{cable: cable}
}

// Parse consumes one byte and reports what, if any, message completed.
// Unexpected bytes are discarded silently; the parser never fails.
func (p *StreamParser) Parse(b byte) contracts.ReadEvent {
	switch {
	case b >= 0xF8:
		// Real-time bytes may interrupt any message. The current state,
		// running status and SysEx accumulation stay untouched.
		p.realTime = contracts.RealTimeMessage{Message: b, Cable: p.cable}
		return contracts.RealTimeMessageEvent

	case b == byte(contracts.TuneRequest):
		// Single-byte System Common message: complete immediately, but
		// unlike real-time bytes it cancels running status and abandons
		// an unterminated SysEx.
		p.resync()
		p.realTime = contracts.RealTimeMessage{Message: b, Cable: p.cable}
		return contracts.RealTimeMessageEvent

	case b == byte(contracts.SysExStart):
		p.state = stateSysEx
		p.sysexIdx = 0
		p.runningStatus = 0
		return contracts.NoMessage

	case b == byte(contracts.SysExEnd):
		if p.state != stateSysEx {
			// Stray terminator with nothing to terminate.
			return contracts.NoMessage
		}
		p.sysexLen = p.sysexIdx
		p.sysexIdx = 0
		p.state = stateIdle
		return contracts.SysExMessageEvent

	case b <= 0xEF && b >= 0x80:
		// Channel voice status byte: begins a new message and becomes
		// the running status. An unterminated SysEx is abandoned here,
		// without an event for the partial data.
		p.runningStatus = b
		p.message = contracts.ChannelMessage{Header: b, Cable: p.cable}
		p.state = stateData1
		return contracts.NoMessage

	case b >= 0xF0:
		// Remaining System Common bytes (0xF1-0xF5). Not modeled:
		// discard, cancel running status and abandon any SysEx.
		p.resync()
		return contracts.NoMessage

	default:
		return p.parseDataByte(b)
	}
}

func (p *StreamParser) parseDataByte(b byte) contracts.ReadEvent {
	switch p.state {
	case stateSysEx:
		p.sysex[p.sysexIdx] = b
		p.sysexIdx++
		if p.sysexIdx == SysExBufferSize {
			// Buffer full before a terminator: deliver a chunk and keep
			// accumulating from the start of the buffer.
			p.sysexLen = SysExBufferSize
			p.sysexIdx = 0
			return contracts.SysExChunkEvent
		}
		return contracts.NoMessage

	case stateData1:
		p.message.Data1 = b
		if p.message.TwoDataBytes() {
			p.state = stateData2
			return contracts.NoMessage
		}
		p.state = stateIdle
		return contracts.ChannelMessageEvent

	case stateData2:
		p.message.Data2 = b
		p.state = stateIdle
		return contracts.ChannelMessageEvent

	default:
		if p.runningStatus == 0 {
			// Data byte with no status to apply: discard.
			return contracts.NoMessage
		}
		// Running status shorthand: a data byte in idle begins a new
		// message reusing the previous status byte.
		p.message = contracts.ChannelMessage{Header: p.runningStatus, Data1: b, Cable: p.cable}
		if p.message.TwoDataBytes() {
			p.state = stateData2
			return contracts.NoMessage
		}
		return contracts.ChannelMessageEvent
	}
}

// ChannelMessage returns the message completed by the last Parse call
// that reported ChannelMessageEvent.
func (p *StreamParser) ChannelMessage() contracts.ChannelMessage { return p.message }

// SysExMessage returns the view delivered by the last Parse call that
// reported SysExChunkEvent or SysExMessageEvent. The view is valid only
// until the next Parse call.
func (p *StreamParser) SysExMessage() contracts.SysExMessage {
	return contracts.SysExMessage{Data: p.sysex[:p.sysexLen], Cable: p.cable}
}

// RealTimeMessage returns the message delivered by the last Parse call
// that reported RealTimeMessageEvent.
func (p *StreamParser) RealTimeMessage() contracts.RealTimeMessage { return p.realTime }

// Reset returns the parser to its initial state, dropping running
// status and any partial accumulation. Call it after a transport
// reconnect so bytes from before and after cannot be stitched together.
func (p *StreamParser) Reset() {
	p.resync()
	p.sysexLen = 0
}

func (p *StreamParser) resync() {
	p.state = stateIdle
	p.runningStatus = 0
	p.sysexIdx = 0
}
