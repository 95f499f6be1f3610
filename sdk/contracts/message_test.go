package contracts

import "testing"

func TestChannelMessage_TwoDataBytes(t *testing.T) {
	tests := []struct {
		t    MessageType
		want bool
	}{
		{NoteOff, true},
		{NoteOn, true},
		{KeyPressure, true},
		{ControlChange, true},
		{ProgramChange, false},
		{ChannelPressure, false},
		{PitchBend, true},
	}
	for _, tt := range tests {
		msg := NewChannelMessage(tt.t, 0, 0, 0, 0)
		if got := msg.TwoDataBytes(); got != tt.want {
			t.Errorf("%v TwoDataBytes() = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestChannelMessage_ValidHeader(t *testing.T) {
	for header := 0; header < 256; header++ {
		msg := ChannelMessage{Header: byte(header)}
		want := header >= 0x80 && header <= 0xEF
		if got := msg.ValidHeader(); got != want {
			t.Errorf("header %02X ValidHeader() = %v, want %v", header, got, want)
		}
	}
}

func TestChannel_Numbering(t *testing.T) {
	ch := NewChannel(1)
	if ch.Raw() != 0 {
		t.Errorf("channel 1 raw = %d, want 0", ch.Raw())
	}
	ch = NewChannel(16)
	if ch.Raw() != 15 || ch.Number() != 16 {
		t.Errorf("channel 16 raw/number = %d/%d, want 15/16", ch.Raw(), ch.Number())
	}
}

func TestChannelMessage_Mutators(t *testing.T) {
	msg := NewChannelMessage(NoteOn, NewChannel(1), 0x40, 0x7F, 0)
	msg.SetChannel(NewChannel(10))
	if msg.Channel().Number() != 10 {
		t.Errorf("channel after SetChannel = %d, want 10", msg.Channel().Number())
	}
	if msg.Type() != NoteOn {
		t.Errorf("SetChannel changed the type to %v", msg.Type())
	}
	msg.SetType(ControlChange)
	if msg.Type() != ControlChange || msg.Channel().Number() != 10 {
		t.Errorf("after SetType: type %v channel %d", msg.Type(), msg.Channel().Number())
	}
}

func TestPacket_HeaderFields(t *testing.T) {
	pkt := NewPacket(9, CINNoteOn, 0x99, 0x24, 0x64)
	if pkt.Cable() != 9 {
		t.Errorf("cable = %v, want 9", pkt.Cable())
	}
	if pkt.CIN() != CINNoteOn {
		t.Errorf("cin = %v, want note on", pkt.CIN())
	}
	if !(Packet{}).Zero() {
		t.Error("empty packet not reported as zero")
	}
	if pkt.Zero() {
		t.Error("populated packet reported as zero")
	}
}
