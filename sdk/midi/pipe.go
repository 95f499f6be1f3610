package midi

import (
	"sync"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// Pipe is an in-memory byte transport: bytes written to it become
// readable from it, in order. It implements both ByteSource and
// ByteSink, which makes it a software loopback for routing one
// interface's output into another's input, and the natural transport
// for tests.
type Pipe struct {
	mu  sync.Mutex
	buf []byte
	off int
}

// NewPipe returns an empty loopback byte transport.
func NewPipe() *Pipe {
	return &Pipe{}
}

// ReadByte pops the oldest buffered byte. It never blocks.
func (p *Pipe) ReadByte() (byte, bool) {
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

// WriteBytes appends data to the buffer.
func (p *Pipe) WriteBytes(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.buf = append(p.buf, data...)
	return nil
}

// PacketPipe is the packet-oriented counterpart of Pipe, implementing
// PacketSource and PacketSink.
type PacketPipe struct {
	mu      sync.Mutex
	packets []contracts.Packet
	off     int
}

// NewPacketPipe returns an empty loopback packet transport.
func NewPacketPipe() *PacketPipe {
	return &PacketPipe{}
}

// ReadPacket pops the oldest buffered packet. It never blocks.
func (p *PacketPipe) ReadPacket() (contracts.Packet, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.off >= len(p.packets) {
		p.packets = p.packets[:0]
		p.off = 0
		return contracts.Packet{}, false
	}
	pkt := p.packets[p.off]
	p.off++
	return pkt, true
}

// WritePacket appends pkt to the buffer.
func (p *PacketPipe) WritePacket(pkt contracts.Packet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.packets = append(p.packets, pkt)
	return nil
}
