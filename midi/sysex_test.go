package midi

import (
	"bytes"
	"errors"
	"testing"
)

func feedAll(t *testing.T, a *SysExAssembler, packets []Packet) ([]byte, error) {
	t.Helper()
	var out []byte
	for _, p := range packets {
		msg, ok := Decode(p, 0)
		if !ok {
			t.Fatalf("Decode(% X) dropped", p[:])
		}
		data, err := a.Feed(msg)
		if err != nil {
			return nil, err
		}
		if data != nil {
			out = data
		}
	}
	return out, nil
}

func TestSysExReassembly(t *testing.T) {
	messages := [][]byte{
		{0xF0, 0xF7},
		{0xF0, 0x01, 0xF7},
		{0xF0, 0x01, 0x02, 0xF7},
		{0xF0, 0x7E, 0x7F, 0x06, 0x01, 0xF7},
		{0xF0, 0x00, 0x20, 0x29, 0x02, 0x0C, 0x00, 0x7F, 0xF7},
	}

	for _, raw := range messages {
		a := NewSysExAssembler(0)
		got, err := feedAll(t, a, Encode(0, raw))
		if err != nil {
			t.Fatalf("% X: %v", raw, err)
		}
		if !bytes.Equal(got, raw) {
			t.Errorf("reassembled % X, want % X", got, raw)
		}
		if a.Pending() != 0 {
			t.Errorf("pending = %d after complete message", a.Pending())
		}
	}
}

func TestSysExOverflow(t *testing.T) {
	a := NewSysExAssembler(4)
	_, err := feedAll(t, a, Encode(0, []byte{0xF0, 0x01, 0x02, 0x03, 0x04, 0xF7}))
	if !errors.Is(err, ErrSysExOverflow) {
		t.Fatalf("err = %v, want ErrSysExOverflow", err)
	}
	if a.Pending() != 0 {
		t.Errorf("pending = %d after overflow", a.Pending())
	}
}

func TestSysExIgnoresOrphanFragments(t *testing.T) {
	a := NewSysExAssembler(0)
	got, err := feedAll(t, a, []Packet{
		{0x04, 0x01, 0x02, 0x03}, // continue without start
		{0x06, 0x04, 0xF7, 0x00},
	})
	if err != nil || got != nil {
		t.Errorf("got % X, %v; want nothing", got, err)
	}
}

func TestSysExRestartDropsPartial(t *testing.T) {
	a := NewSysExAssembler(0)
	got, err := feedAll(t, a, []Packet{
		{0x04, 0xF0, 0x01, 0x02},
		{0x04, 0xF0, 0x05, 0x06}, // new start
		{0x05, 0xF7, 0x00, 0x00},
	})
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xF0, 0x05, 0x06, 0xF7}; !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestSysExIgnoresChannelMessages(t *testing.T) {
	a := NewSysExAssembler(0)
	msg, _ := Decode(Packet{0x09, 0x90, 0x3C, 0x64}, 0)
	if data, err := a.Feed(msg); data != nil || err != nil {
		t.Errorf("Feed(note on) = % X, %v", data, err)
	}
}
