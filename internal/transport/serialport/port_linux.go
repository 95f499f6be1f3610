//go:build linux
// +build linux

// Package serialport opens raw serial devices as MIDI byte transports.
package serialport

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// MIDIBaud is the baud rate of a DIN-5 MIDI serial link.
const MIDIBaud = 31250

// Error definitions for serial port issues.
var (
	ErrOpenPort      = errors.New("error opening serial port")
	ErrConfigurePort = errors.New("error configuring serial port")
)

// standardBauds maps common rates to their termios speed flags. Rates
// not listed here (including MIDIBaud) are set through BOTHER.
var standardBauds = map[uint32]uint32{
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// Port is a raw serial device configured for MIDI traffic: 8 data bits,
// no parity, one stop bit, no flow control, non-blocking reads. It
// implements contracts.ByteSource and contracts.ByteSink.
type Port struct {
	fd     int
	logger contracts.Logger

	buf [256]byte
	r   int
	w   int
}

// Open opens the device at path and configures it for the given baud
// rate.
func Open(path string, baud uint32, log contracts.Logger) (*Port, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenPort, path, err)
	}

	if err := configure(fd, baud); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigurePort, path, err)
	}

	log.Info("serial port opened",
		log.Field().String("path", path),
		log.Field().Int("baud", int(baud)))

	return &Port{fd: fd, logger: log}, nil
}

func configure(fd int, baud uint32) error {
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS2)
	if err != nil {
		return err
	}

	t.Iflag = 0
	t.Oflag = 0
	t.Lflag = 0
	t.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL
	t.Cc[unix.VMIN] = 0
	t.Cc[unix.VTIME] = 0

	if flag, ok := standardBauds[baud]; ok {
		t.Cflag |= flag
	} else {
		// MIDI's 31250 baud has no Bxxx constant; ask for the rate
		// directly.
		t.Cflag |= unix.BOTHER
		t.Ispeed = baud
		t.Ospeed = baud
	}

	return unix.IoctlSetTermios(fd, unix.TCSETS2, t)
}

// ReadByte returns the next buffered byte, refilling from the device
// when the buffer is empty. It never blocks: with no data pending it
// reports ok == false.
func (p *Port) ReadByte() (byte, bool) {
	if p.r == p.w {
		n, err := unix.Read(p.fd, p.buf[:])
		if n <= 0 {
			if err != nil && err != unix.EAGAIN {
				p.logger.Warn("serial read failed", p.logger.Field().Error("error", err))
			}
			return 0, false
		}
		p.r, p.w = 0, n
	}
	b := p.buf[p.r]
	p.r++
	return b, true
}

// WriteBytes writes data to the device, retrying on short writes so the
// burst reaches the wire contiguously.
func (p *Port) WriteBytes(data []byte) error {
	for len(data) > 0 {
		n, err := unix.Write(p.fd, data)
		if err == unix.EAGAIN {
			continue
		}
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Close releases the device.
func (p *Port) Close() error {
	p.logger.Debug("serial port closed")
	return unix.Close(p.fd)
}
