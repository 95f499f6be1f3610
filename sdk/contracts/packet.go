package contracts

// CodeIndexNumber classifies the payload framing of a USB-MIDI event
// packet. See table 4-1 in the USB Device Class Definition for MIDI
// Devices 1.0.
type CodeIndexNumber byte

const (
	CINMiscFunction   CodeIndexNumber = 0x0
	CINCableEvent     CodeIndexNumber = 0x1
	CINSystemCommon2B CodeIndexNumber = 0x2
	CINSystemCommon3B CodeIndexNumber = 0x3
	// CINSysExStartCont carries three SysEx bytes, starting or
	// continuing a message.
	CINSysExStartCont CodeIndexNumber = 0x4
	// CINSysExEnd1B ends a SysEx with one trailing byte; the same code
	// carries single-byte System Common messages.
	CINSysExEnd1B CodeIndexNumber = 0x5
	CINSysExEnd2B CodeIndexNumber = 0x6
	CINSysExEnd3B CodeIndexNumber = 0x7

	CINNoteOff         CodeIndexNumber = 0x8
	CINNoteOn          CodeIndexNumber = 0x9
	CINKeyPressure     CodeIndexNumber = 0xA
	CINControlChange   CodeIndexNumber = 0xB
	CINProgramChange   CodeIndexNumber = 0xC
	CINChannelPressure CodeIndexNumber = 0xD
	CINPitchBend       CodeIndexNumber = 0xE

	// CINSingleByte carries one byte, typically a real-time message.
	CINSingleByte CodeIndexNumber = 0xF
)

// Packet is a USB-MIDI event packet: a cable-number/code-index-number
// header byte followed by up to three payload bytes.
type Packet [4]byte

// NewPacket assembles a packet from its header fields and payload.
func NewPacket(cable Cable, cin CodeIndexNumber, b1, b2, b3 byte) Packet {
	return Packet{cable.Raw()<<4 | byte(cin)&0x0F, b1, b2, b3}
}

// Cable returns the virtual port number from the packet header.
func (p Packet) Cable() Cable { return Cable(p[0] >> 4) }

// CIN returns the code index number from the packet header.
func (p Packet) CIN() CodeIndexNumber { return CodeIndexNumber(p[0] & 0x0F) }

// Zero reports whether the packet is empty, the idle value returned by
// USB stacks when no event is pending.
func (p Packet) Zero() bool {
	return p[0] == 0 && p[1] == 0 && p[2] == 0 && p[3] == 0
}
