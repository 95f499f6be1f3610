package contracts

import (
	"bytes"
	"fmt"
)

// MessageType identifies a MIDI message by its status byte. For channel
// voice messages only the high nibble is significant; for system messages
// the whole byte is.
type MessageType byte

const (
	// NoteOff is the MIDI command releasing a note (0x80, two data bytes).
	NoteOff MessageType = 0x80
	// NoteOn is the MIDI command striking a note (0x90, two data bytes).
	NoteOn MessageType = 0x90
	// KeyPressure is polyphonic aftertouch (0xA0, two data bytes).
	KeyPressure MessageType = 0xA0
	// ControlChange carries a controller number and value (0xB0, two data bytes).
	ControlChange MessageType = 0xB0
	// ProgramChange selects a patch (0xC0, one data byte).
	ProgramChange MessageType = 0xC0
	// ChannelPressure is channel-wide aftertouch (0xD0, one data byte).
	ChannelPressure MessageType = 0xD0
	// PitchBend carries a 14-bit bend value (0xE0, two data bytes).
	PitchBend MessageType = 0xE0

	// SysExStart opens a System Exclusive message.
	SysExStart MessageType = 0xF0
	// TuneRequest is a single-byte System Common message.
	TuneRequest MessageType = 0xF6
	// SysExEnd terminates a System Exclusive message.
	SysExEnd MessageType = 0xF7

	// TimingClock through Reset are the System Real-Time messages. They
	// may interleave with any other message on the wire.
	TimingClock        MessageType = 0xF8
	UndefinedRealTime1 MessageType = 0xF9
	Start              MessageType = 0xFA
	Continue           MessageType = 0xFB
	Stop               MessageType = 0xFC
	UndefinedRealTime2 MessageType = 0xFD
	ActiveSensing      MessageType = 0xFE
	Reset              MessageType = 0xFF
)

// Channel is a 1-of-16 MIDI channel. The zero value is channel 1.
type Channel uint8

// NewChannel returns the Channel with the given 1-based number (1-16),
// the convention used when displaying channels to users.
func NewChannel(number uint8) Channel {
	return Channel(number - 1)
}

// Raw returns the 0-based channel nibble (0-15) used on the wire.
func (c Channel) Raw() uint8 { return uint8(c) & 0x0F }

// Number returns the 1-based channel number (1-16).
func (c Channel) Number() uint8 { return c.Raw() + 1 }

func (c Channel) String() string {
	return fmt.Sprintf("channel %d", c.Number())
}

// Cable is a virtual USB-MIDI port number (0-15) multiplexing several
// logical MIDI streams over one physical connection. Byte-oriented
// transports carry a single cable, conventionally cable 0.
type Cable uint8

// Raw returns the cable nibble (0-15).
func (c Cable) Raw() uint8 { return uint8(c) & 0x0F }

func (c Cable) String() string {
	return fmt.Sprintf("cable %d", c.Raw())
}

// ChannelMessage is a parsed MIDI channel voice message. Data2 is zero
// for the one-data-byte message types.
type ChannelMessage struct {
	Header byte  // Status byte: message type nibble | channel nibble.
	Data1  byte  // First data byte.
	Data2  byte  // Second data byte, if the type carries one.
	Cable  Cable // Virtual port the message arrived on or is sent to.
}

// NewChannelMessage assembles a channel voice message from its parts.
func NewChannelMessage(t MessageType, channel Channel, data1, data2 byte, cable Cable) ChannelMessage {
	return ChannelMessage{
		Header: byte(t)&0xF0 | channel.Raw(),
		Data1:  data1,
		Data2:  data2,
		Cable:  cable,
	}
}

// Type returns the message type encoded in the header's high nibble.
func (m ChannelMessage) Type() MessageType { return MessageType(m.Header & 0xF0) }

// Channel returns the channel encoded in the header's low nibble.
func (m ChannelMessage) Channel() Channel { return Channel(m.Header & 0x0F) }

// SetChannel replaces the channel nibble of the header.
func (m *ChannelMessage) SetChannel(channel Channel) {
	m.Header = m.Header&0xF0 | channel.Raw()
}

// SetType replaces the message type nibble of the header.
func (m *ChannelMessage) SetType(t MessageType) {
	m.Header = m.Header&0x0F | byte(t)&0xF0
}

// TwoDataBytes reports whether the message type carries two data bytes.
// Note Off/On, Key Pressure, Control Change and Pitch Bend do; Program
// Change and Channel Pressure carry one.
func (m ChannelMessage) TwoDataBytes() bool {
	t := m.Type()
	return t <= ControlChange || t == PitchBend
}

// ValidHeader reports whether the header's high nibble is one of the
// seven defined channel voice message types.
func (m ChannelMessage) ValidHeader() bool {
	t := m.Type()
	return t >= NoteOff && t <= PitchBend
}

func (m ChannelMessage) String() string {
	if m.TwoDataBytes() {
		return fmt.Sprintf("%s %s %s [%02X %02X]", typeName(m.Type()), m.Channel(), m.Cable, m.Data1, m.Data2)
	}
	return fmt.Sprintf("%s %s %s [%02X]", typeName(m.Type()), m.Channel(), m.Cable, m.Data1)
}

// SysExMessage is a view into a parser-owned buffer holding the body of
// a System Exclusive message, start and end delimiters excluded. The
// view stays valid only until the next byte or packet is parsed: the
// underlying buffer is reused.
type SysExMessage struct {
	Data  []byte
	Cable Cable
}

// Equal reports whether two messages have the same body and cable.
func (m SysExMessage) Equal(other SysExMessage) bool {
	return m.Cable == other.Cable && bytes.Equal(m.Data, other.Data)
}

func (m SysExMessage) String() string {
	return fmt.Sprintf("SysEx %s [% 02X]", m.Cable, m.Data)
}

// RealTimeMessage is a single-byte MIDI message: one of the System
// Real-Time bytes (0xF8-0xFF), or Tune Request (0xF6) which is framed
// the same way.
type RealTimeMessage struct {
	Message byte
	Cable   Cable
}

// Type returns the message byte as a MessageType.
func (m RealTimeMessage) Type() MessageType { return MessageType(m.Message) }

func (m RealTimeMessage) String() string {
	return fmt.Sprintf("%s %s", typeName(m.Type()), m.Cable)
}

func typeName(t MessageType) string {
	switch t {
	case NoteOff:
		return "Note Off"
	case NoteOn:
		return "Note On"
	case KeyPressure:
		return "Key Pressure"
	case ControlChange:
		return "Control Change"
	case ProgramChange:
		return "Program Change"
	case ChannelPressure:
		return "Channel Pressure"
	case PitchBend:
		return "Pitch Bend"
	case SysExStart:
		return "SysEx Start"
	case SysExEnd:
		return "SysEx End"
	case TuneRequest:
		return "Tune Request"
	case TimingClock:
		return "Timing Clock"
	case Start:
		return "Start"
	case Continue:
		return "Continue"
	case Stop:
		return "Stop"
	case ActiveSensing:
		return "Active Sensing"
	case Reset:
		return "Reset"
	default:
		return fmt.Sprintf("Unknown(%02X)", byte(t))
	}
}
