package contracts

// ByteSource yields raw MIDI bytes as they arrive from a byte-oriented
// transport such as a serial port. ReadByte must never block: ok is
// false when no byte is ready.
type ByteSource interface {
	ReadByte() (b byte, ok bool)
}

// ByteSink writes raw MIDI bytes to the wire. Each WriteBytes call
// carries one complete message or chunk and must reach the wire
// contiguously.
type ByteSink interface {
	WriteBytes(data []byte) error
}

// PacketSource yields USB-MIDI event packets as they arrive. ReadPacket
// must never block: ok is false when no packet is ready.
type PacketSource interface {
	ReadPacket() (p Packet, ok bool)
}

// PacketSink writes USB-MIDI event packets to the wire.
type PacketSink interface {
	WritePacket(p Packet) error
}

// Reader is the pull side of a MIDI interface. Read parses the next
// available unit of input and reports what completed, if anything; it
// never blocks. The typed accessors are valid only immediately after a
// Read call signaled the corresponding event, and only until the next
// Read call.
type Reader interface {
	Read() ReadEvent
	ChannelMessage() ChannelMessage
	SysExMessage() SysExMessage
	RealTimeMessage() RealTimeMessage
}

// Sender serializes messages onto the wire. Every send is atomic with
// respect to other senders on the same transport: bytes of two
// concurrently sent messages never interleave.
type Sender interface {
	SendChannelMessage(msg ChannelMessage) error
	SendSysEx(msg SysExMessage) error
	SendRealTime(msg RealTimeMessage) error
}

// Interface is a full-duplex MIDI interface over one transport. Reset
// clears running status and any in-progress accumulation, for use after
// a reconnect so bytes from before and after cannot be stitched into a
// bogus message.
type Interface interface {
	Reader
	Sender
	Reset()
	Close() error
}

// PortInfo describes a physical or virtual MIDI port exposed by a
// platform transport.
type PortInfo struct {
	Name         string // Port name.
	Manufacturer string // Port manufacturer, when the platform reports one.
}
