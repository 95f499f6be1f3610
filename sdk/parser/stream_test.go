package parser

import (
	"bytes"
	"testing"

	"github.com/leandrodaf/midiwire/sdk/contracts"
)

// feed runs every byte through the parser and collects the non-empty
// events, snapshotting message contents at the moment of delivery.
type parsed struct {
	event   contracts.ReadEvent
	channel contracts.ChannelMessage
	sysex   []byte
	real    contracts.RealTimeMessage
}

func feed(p *StreamParser, data []byte) []parsed {
	var out []parsed
	for _, b := range data {
		ev := p.Parse(b)
		if ev == contracts.NoMessage {
			continue
		}
		r := parsed{event: ev}
		switch ev {
		case contracts.ChannelMessageEvent:
			r.channel = p.ChannelMessage()
		case contracts.SysExChunkEvent, contracts.SysExMessageEvent:
			r.sysex = append([]byte(nil), p.SysExMessage().Data...)
		case contracts.RealTimeMessageEvent:
			r.real = p.RealTimeMessage()
		}
		out = append(out, r)
	}
	return out
}

func TestStreamParser_NoteOn(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0x90, 0x40, 0x7F})
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d: %v", len(got), got)
	}
	want := contracts.ChannelMessage{Header: 0x90, Data1: 0x40, Data2: 0x7F}
	if got[0].channel != want {
		t.Fatalf("message = %v, want %v", got[0].channel, want)
	}
}

func TestStreamParser_OneDataByteTypes(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want contracts.ChannelMessage
	}{
		{"program change", []byte{0xC5, 0x12}, contracts.ChannelMessage{Header: 0xC5, Data1: 0x12}},
		{"channel pressure", []byte{0xD3, 0x44}, contracts.ChannelMessage{Header: 0xD3, Data1: 0x44}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewStreamParser(0)
			got := feed(p, tt.in)
			if len(got) != 1 || got[0].event != contracts.ChannelMessageEvent {
				t.Fatalf("events = %v", got)
			}
			if got[0].channel != tt.want {
				t.Fatalf("message = %v, want %v", got[0].channel, tt.want)
			}
		})
	}
}

func TestStreamParser_RunningStatus(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0x90, 0x40, 0x7F, 0x41, 0x7F})
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
	first := contracts.ChannelMessage{Header: 0x90, Data1: 0x40, Data2: 0x7F}
	second := contracts.ChannelMessage{Header: 0x90, Data1: 0x41, Data2: 0x7F}
	if got[0].channel != first {
		t.Errorf("first = %v, want %v", got[0].channel, first)
	}
	if got[1].channel != second {
		t.Errorf("second = %v, want %v", got[1].channel, second)
	}
}

func TestStreamParser_RealTimeInterleaving(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0x90, 0xF8, 0x40, 0x7F})
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
	if got[0].event != contracts.RealTimeMessageEvent || got[0].real.Message != byte(contracts.TimingClock) {
		t.Errorf("first event = %v %v, want timing clock", got[0].event, got[0].real)
	}
	want := contracts.ChannelMessage{Header: 0x90, Data1: 0x40, Data2: 0x7F}
	if got[1].event != contracts.ChannelMessageEvent || got[1].channel != want {
		t.Errorf("second event = %v %v, want %v", got[1].event, got[1].channel, want)
	}
}

func TestStreamParser_RealTimeDuringSysEx(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0xF0, 0x01, 0x02, 0xFE, 0x03, 0xF7})
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d: %v", len(got), got)
	}
	if got[0].event != contracts.RealTimeMessageEvent || got[0].real.Message != byte(contracts.ActiveSensing) {
		t.Errorf("first event = %v, want active sensing", got[0])
	}
	if got[1].event != contracts.SysExMessageEvent || !bytes.Equal(got[1].sysex, []byte{0x01, 0x02, 0x03}) {
		t.Errorf("sysex = % 02X, want 01 02 03", got[1].sysex)
	}
}

func TestStreamParser_SysExChunking(t *testing.T) {
	p := NewStreamParser(0)

	body := make([]byte, SysExBufferSize*2+10)
	for i := range body {
		body[i] = byte(i % 0x80)
	}
	in := append([]byte{0xF0}, body...)
	in = append(in, 0xF7)

	got := feed(p, in)
	if len(got) != 3 {
		t.Fatalf("expected 2 chunks + 1 completion, got %d events", len(got))
	}
	for i := 0; i < 2; i++ {
		if got[i].event != contracts.SysExChunkEvent {
			t.Errorf("event %d = %v, want chunk", i, got[i].event)
		}
		if len(got[i].sysex) != SysExBufferSize {
			t.Errorf("chunk %d length = %d, want %d", i, len(got[i].sysex), SysExBufferSize)
		}
	}
	if got[2].event != contracts.SysExMessageEvent {
		t.Fatalf("last event = %v, want sysex message", got[2].event)
	}
	if len(got[2].sysex) != 10 {
		t.Errorf("remainder length = %d, want 10", len(got[2].sysex))
	}

	var reassembled []byte
	for _, r := range got {
		reassembled = append(reassembled, r.sysex...)
	}
	if !bytes.Equal(reassembled, body) {
		t.Error("reassembled chunks do not match the original body")
	}
}

func TestStreamParser_SysExAbandonedByStatusByte(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0xF0, 0x01, 0x02, 0x90, 0x40, 0x7F})
	if len(got) != 1 {
		t.Fatalf("expected only the note on, got %v", got)
	}
	want := contracts.ChannelMessage{Header: 0x90, Data1: 0x40, Data2: 0x7F}
	if got[0].channel != want {
		t.Errorf("message = %v, want %v", got[0].channel, want)
	}
}

func TestStreamParser_TuneRequest(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0xF0, 0x01, 0xF6, 0x40})
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %v", got)
	}
	if got[0].event != contracts.RealTimeMessageEvent || got[0].real.Message != byte(contracts.TuneRequest) {
		t.Errorf("event = %v %v, want tune request", got[0].event, got[0].real)
	}
	// The trailing data byte has no running status to apply (tune
	// request cancels it) and must be discarded.
}

func TestStreamParser_Resynchronization(t *testing.T) {
	p := NewStreamParser(0)
	if ev := p.Parse(0x40); ev != contracts.NoMessage {
		t.Fatalf("orphan data byte produced %v", ev)
	}
	got := feed(p, []byte{0x90, 0x40, 0x7F})
	if len(got) != 1 || got[0].channel.Header != 0x90 {
		t.Fatalf("parser did not resynchronize: %v", got)
	}
}

func TestStreamParser_UndefinedSystemCommonDiscarded(t *testing.T) {
	p := NewStreamParser(0)
	got := feed(p, []byte{0x90, 0x40, 0x7F, 0xF4, 0x41, 0x90, 0x42, 0x10})
	// 0xF4 cancels running status, so the 0x41 is discarded; the
	// explicit status afterwards must parse normally.
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %v", got)
	}
	want := contracts.ChannelMessage{Header: 0x90, Data1: 0x42, Data2: 0x10}
	if got[1].channel != want {
		t.Errorf("message after resync = %v, want %v", got[1].channel, want)
	}
}

func TestStreamParser_ResetMidMessage(t *testing.T) {
	p := NewStreamParser(0)
	p.Parse(0x90)
	p.Parse(0x40) // half a note on
	p.Reset()

	got := feed(p, []byte{0xB2, 0x07, 0x64})
	if len(got) != 1 {
		t.Fatalf("expected 1 event after reset, got %v", got)
	}
	want := contracts.ChannelMessage{Header: 0xB2, Data1: 0x07, Data2: 0x64}
	if got[0].channel != want {
		t.Errorf("message = %v, want %v", got[0].channel, want)
	}

	// Running status must not survive the reset either.
	if ev := p.Parse(0x41); ev != contracts.NoMessage {
		t.Errorf("data byte after reset produced %v", ev)
	}
}

func TestStreamParser_ResetMidSysEx(t *testing.T) {
	p := NewStreamParser(0)
	feed(p, []byte{0xF0, 0x01, 0x02})
	p.Reset()

	got := feed(p, []byte{0xF0, 0x7E, 0xF7})
	if len(got) != 1 || got[0].event != contracts.SysExMessageEvent {
		t.Fatalf("expected sysex message, got %v", got)
	}
	if !bytes.Equal(got[0].sysex, []byte{0x7E}) {
		t.Errorf("sysex = % 02X, want 7E (no bytes from before reset)", got[0].sysex)
	}
}

func TestStreamParser_StraySysExEnd(t *testing.T) {
	p := NewStreamParser(0)
	if ev := p.Parse(0xF7); ev != contracts.NoMessage {
		t.Fatalf("stray terminator produced %v", ev)
	}
	got := feed(p, []byte{0x80, 0x30, 0x40})
	if len(got) != 1 {
		t.Fatalf("parser did not recover from stray terminator: %v", got)
	}
}

func TestStreamParser_CableTagging(t *testing.T) {
	p := NewStreamParser(3)
	got := feed(p, []byte{0x90, 0x40, 0x7F, 0xF8})
	if got[0].channel.Cable != 3 {
		t.Errorf("channel message cable = %v, want 3", got[0].channel.Cable)
	}
	if got[1].real.Cable != 3 {
		t.Errorf("real-time message cable = %v, want 3", got[1].real.Cable)
	}
}
