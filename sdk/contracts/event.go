package contracts

// ReadEvent reports what, if anything, completed after a parser consumed
// one unit of transport input (a byte or a packet).
type ReadEvent uint8

const (
	// NoMessage means the input did not complete a message.
	NoMessage ReadEvent = iota
	// ChannelMessageEvent means a channel voice message completed.
	ChannelMessageEvent
	// SysExChunkEvent means the System Exclusive buffer filled before a
	// terminator arrived: the caller receives a full buffer and the
	// message continues in subsequent chunks.
	SysExChunkEvent
	// SysExMessageEvent means a System Exclusive message terminated; the
	// delivered view holds the bytes since the last chunk boundary.
	SysExMessageEvent
	// RealTimeMessageEvent means a single-byte real-time message arrived,
	// possibly in the middle of another message.
	RealTimeMessageEvent
)

func (e ReadEvent) String() string {
	switch e {
	case NoMessage:
		return "no message"
	case ChannelMessageEvent:
		return "channel message"
	case SysExChunkEvent:
		return "sysex chunk"
	case SysExMessageEvent:
		return "sysex message"
	case RealTimeMessageEvent:
		return "real-time message"
	default:
		return "unknown"
	}
}
