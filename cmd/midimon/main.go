// midimon prints the MIDI messages parsed from a byte source: a raw
// serial device (-device), an rtmidi port by name (-port, requires the
// rtmidi build tag), a CoreMIDI source (-coremidi, macOS), or a capture
// file / stdin. It is the quickest way to watch what a controller is
// actually sending.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/leandrodaf/midiwire/internal/logger"
	"github.com/leandrodaf/midiwire/internal/transport/coremidiport"
	"github.com/leandrodaf/midiwire/internal/transport/rtmidiport"
	"github.com/leandrodaf/midiwire/internal/transport/serialport"
	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/midi"
)

var (
	channelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sysexStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	realTimeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	timeStyle     = lipgloss.NewStyle().Faint(true)
)

func main() {
	device := flag.String("device", "", "raw serial device to open (e.g. /dev/ttyUSB0)")
	baud := flag.Uint("baud", serialport.MIDIBaud, "serial baud rate")
	port := flag.String("port", "", "rtmidi port name (needs -tags rtmidi)")
	coremidiIdx := flag.Int("coremidi", -1, "CoreMIDI source index (macOS)")
	file := flag.String("file", "", "raw MIDI capture file, '-' for stdin")
	listPorts := flag.Bool("list", false, "list available input ports and exit")
	clock := flag.Bool("clock", false, "also print timing clock and active sensing")
	flag.Parse()

	log := logger.NewZapLogger()
	log.SetLevel(contracts.WarnLevel)

	if *listPorts {
		listInputs()
		return
	}

	source, cleanup, err := openSource(*device, uint32(*baud), *port, *coremidiIdx, *file, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer cleanup()

	iface, err := midi.NewStreamInterface(source, discard{}, contracts.WithLogger(log))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	for {
		event := iface.Read()
		if event == contracts.NoMessage {
			time.Sleep(time.Millisecond)
			continue
		}
		printEvent(iface, event, *clock)
	}
}

// listInputs prints whatever input ports the built-in backends can
// enumerate on this build.
func listInputs() {
	if names, err := rtmidiport.ListInputs(); err == nil {
		for i, name := range names {
			fmt.Printf("rtmidi   %3d  %s\n", i, name)
		}
	}
	if infos, err := coremidiport.ListSources(); err == nil {
		for i, info := range infos {
			fmt.Printf("coremidi %3d  %s (%s)\n", i, info.Name, info.Manufacturer)
		}
	}
}

func openSource(device string, baud uint32, port string, coremidiIdx int, file string, log contracts.Logger) (contracts.ByteSource, func(), error) {
	switch {
	case device != "":
		p, err := serialport.Open(device, baud, log)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil

	case port != "":
		p, err := rtmidiport.Open(port, log)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil

	case coremidiIdx >= 0:
		p, err := coremidiport.Open("midimon", coremidiIdx, log)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { _ = p.Close() }, nil

	case file != "":
		var r io.Reader = os.Stdin
		if file != "-" {
			f, err := os.Open(file)
			if err != nil {
				return nil, nil, err
			}
			return &readerSource{r: f}, func() { _ = f.Close() }, nil
		}
		return &readerSource{r: r}, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("one of -device, -port, -coremidi or -file is required")
	}
}

func printEvent(iface contracts.Reader, event contracts.ReadEvent, clock bool) {
	ts := timeStyle.Render(time.Now().Format("15:04:05.000"))
	switch event {
	case contracts.ChannelMessageEvent:
		fmt.Println(ts, channelStyle.Render(iface.ChannelMessage().String()))
	case contracts.SysExChunkEvent:
		fmt.Println(ts, sysexStyle.Render(iface.SysExMessage().String()+" (continues)"))
	case contracts.SysExMessageEvent:
		fmt.Println(ts, sysexStyle.Render(iface.SysExMessage().String()))
	case contracts.RealTimeMessageEvent:
		msg := iface.RealTimeMessage()
		if !clock && (msg.Type() == contracts.TimingClock || msg.Type() == contracts.ActiveSensing) {
			return
		}
		fmt.Println(ts, realTimeStyle.Render(msg.String()))
	}
}

// readerSource adapts an io.Reader to the non-blocking ByteSource
// contract. File reads block briefly, which is acceptable for a
// command-line monitor.
type readerSource struct {
	r   io.Reader
	buf [256]byte
	pos int
	n   int
}

func (s *readerSource) ReadByte() (byte, bool) {
	if s.pos >= s.n {
		n, _ := s.r.Read(s.buf[:])
		if n <= 0 {
			return 0, false
		}
		s.pos, s.n = 0, n
	}
	b := s.buf[s.pos]
	s.pos++
	return b, true
}

// discard is a sink for the monitor's never-used send side.
type discard struct{}

func (discard) WriteBytes([]byte) error { return nil }
