package midi

import "testing"

func TestNoteName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{11, "B-1"},
		{12, "C0"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
		{128, "?"},
		{255, "?"},
	}

	for _, tt := range tests {
		if got := NoteName(tt.note); got != tt.want {
			t.Errorf("NoteName(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"note on", msgOf(0x90, 60, 100), "NoteOn  Ch01 C4 Vel100"},
		{"note on velocity 0", msgOf(0x90, 60, 0), "NoteOff Ch01 C4"},
		{"note off", msgOf(0x8F, 60, 64), "NoteOff Ch16 C4 Vel064"},
		{"control change", msgOf(0xB2, 7, 100), "CC      Ch03 #007=100"},
		{"program change", msgOf(0xC0, 42, 0), "ProgChg Ch01 Prg042"},
		{"pitch bend center", msgOf(0xE0, 0x00, 0x40), "PitchBd Ch01 +0000"},
		{"pitch bend min", msgOf(0xE0, 0x00, 0x00), "PitchBd Ch01 -8192"},
		{"pitch bend max", msgOf(0xE5, 0x7F, 0x7F), "PitchBd Ch06 +8191"},
		{"pitch bend small", msgOf(0xE0, 0x01, 0x40), "PitchBd Ch01 +0001"},
		{"channel pressure", msgOf(0xD0, 64, 0), "ChPress Ch01 Val064"},
		{"poly aftertouch", msgOf(0xA1, 69, 32), "PolyAT  Ch02 A4 P032"},
		{"system", msgOf(0xF8, 0, 0), "System  0xF8"},
		{"data byte as status", msgOf(0x3C, 0x64, 0), "Unknown 0x3C"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.msg); got != tt.want {
				t.Errorf("Format() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDecodedPackets(t *testing.T) {
	tests := []struct {
		packet Packet
		want   string
	}{
		{Packet{0x09, 0x90, 0x3C, 0x64}, "NoteOn  Ch01 C4 Vel100"},
		{Packet{0x0C, 0xC0, 0x2A, 0x00}, "ProgChg Ch01 Prg042"},
		{Packet{0x04, 0xF0, 0x7E, 0x7F}, "System  0xF0"},
		{Packet{0x06, 0x01, 0xF7, 0x00}, "System  0xF7"},
	}

	for _, tt := range tests {
		msg, ok := Decode(tt.packet, 0)
		if !ok {
			t.Fatalf("Decode(% X) dropped", tt.packet[:])
		}
		if got := Format(msg); got != tt.want {
			t.Errorf("Format(Decode(% X)) = %q, want %q", tt.packet[:], got, tt.want)
		}
	}
}

func TestFormatIsPure(t *testing.T) {
	msg := msgOf(0xE3, 0x12, 0x34)
	if a, b := Format(msg), Format(msg); a != b {
		t.Errorf("Format not stable: %q vs %q", a, b)
	}
}

func msgOf(status, d1, d2 byte) Message {
	kind, ch := Classify(status)
	return Message{Status: status, Data1: d1, Data2: d2, Kind: kind, Channel: ch}
}
