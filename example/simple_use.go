package main

import (
	"fmt"

	"github.com/leandrodaf/midiwire/internal/logger"
	"github.com/leandrodaf/midiwire/sdk/contracts"
	"github.com/leandrodaf/midiwire/sdk/midi"
)

func main() {
	log := logger.NewZapLogger()

	// A Pipe loops sent bytes back into the reader, which makes a
	// self-contained demo: real firmware would pass a serial or USB
	// transport here instead.
	pipe := midi.NewPipe()
	iface, err := midi.NewStreamInterface(pipe, pipe,
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.InfoLevel),
	)
	if err != nil {
		log.Error("Failed to create MIDI interface", log.Field().Error("error", err))
		return
	}
	defer iface.Close()

	noteOn := contracts.NewChannelMessage(contracts.NoteOn, contracts.NewChannel(1), 60, 100, 0)
	if err := iface.SendChannelMessage(noteOn); err != nil {
		log.Error("Failed to send", log.Field().Error("error", err))
		return
	}
	_ = iface.SendRealTime(contracts.RealTimeMessage{Message: byte(contracts.TimingClock)})
	_ = iface.SendSysEx(contracts.SysExMessage{Data: []byte{0x7E, 0x09, 0x01}})

	for {
		event := iface.Read()
		if event == contracts.NoMessage {
			break
		}
		switch event {
		case contracts.ChannelMessageEvent:
			fmt.Println("received:", iface.ChannelMessage())
		case contracts.SysExChunkEvent, contracts.SysExMessageEvent:
			fmt.Println("received:", iface.SysExMessage())
		case contracts.RealTimeMessageEvent:
			fmt.Println("received:", iface.RealTimeMessage())
		}
	}
}
