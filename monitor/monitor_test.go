package monitor

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"midimon/midi"
)

func fixedClock() uint32 { return 42 }

// runUntilBack posts events followed by KeyBack and waits for the loop to exit
func runUntilBack(t *testing.T, m *Monitor, events ...Event) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()

	for _, ev := range append(events, KeyEvent{Key: KeyBack}) {
		if err := m.Post(ctx, ev); err != nil {
			t.Fatalf("Post(%T): %v", ev, err)
		}
	}

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-ctx.Done():
		t.Fatal("monitor did not stop")
	}
}

func midiEvent(p midi.Packet) Event {
	msg, _ := midi.Decode(p, 1)
	return MidiEvent{Message: msg}
}

func TestMonitorInsertAndScroll(t *testing.T) {
	m := New(Options{Clock: fixedClock})

	var events []Event
	for i := 0; i < 6; i++ {
		events = append(events, midiEvent(midi.Packet{0x09, 0x90, byte(60 + i), 0x64}))
	}
	events = append(events, KeyEvent{Key: KeyDown}, USBStatusEvent{Connected: true})

	runUntilBack(t, m, events...)

	v := m.Snapshot()
	if v.Len != 6 || v.Offset != 1 {
		t.Fatalf("len=%d offset=%d, want 6/1", v.Len, v.Offset)
	}
	// newest is 65 (F4); offset 1 starts at 64 (E4)
	want := []string{
		"NoteOn  Ch01 E4 Vel100",
		"NoteOn  Ch01 D#4 Vel100",
		"NoteOn  Ch01 D4 Vel100",
		"NoteOn  Ch01 C#4 Vel100",
	}
	for i, line := range want {
		if v.Lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, v.Lines[i], line)
		}
	}
	if !v.MoreAbove || !v.MoreBelow {
		t.Errorf("above=%v below=%v", v.MoreAbove, v.MoreBelow)
	}
	if !v.USBConnected || v.LastMessageTime != 42 || v.Received != 6 {
		t.Errorf("usb=%v last=%d received=%d", v.USBConnected, v.LastMessageTime, v.Received)
	}
}

func TestMonitorClear(t *testing.T) {
	m := New(Options{})
	runUntilBack(t, m,
		midiEvent(midi.Packet{0x09, 0x90, 0x3C, 0x64}),
		midiEvent(midi.Packet{0x09, 0x90, 0x3D, 0x64}),
		KeyEvent{Key: KeyOk},
	)

	v := m.Snapshot()
	if v.Len != 0 || v.Offset != 0 || len(v.Lines) != 0 {
		t.Errorf("after clear: len=%d offset=%d lines=%v", v.Len, v.Offset, v.Lines)
	}
}

func TestMonitorDirectOperations(t *testing.T) {
	m := New(Options{})
	for i := 0; i < HistorySize; i++ {
		m.insert(midi.Message{Status: 0xB0, Kind: midi.KindControlChange, Data1: byte(i)})
	}

	m.ScrollDown()
	m.ScrollDown()
	if v := m.Snapshot(); v.Offset != 2 {
		t.Fatalf("offset = %d, want 2", v.Offset)
	}
	m.ScrollUp()
	if v := m.Snapshot(); v.Offset != 1 {
		t.Fatalf("offset = %d, want 1", v.Offset)
	}
	m.ClearHistory()
	if v := m.Snapshot(); v.Len != 0 || v.Offset != 0 {
		t.Errorf("len=%d offset=%d after ClearHistory", v.Len, v.Offset)
	}
}

func TestMonitorPostMidiDropsWhenFull(t *testing.T) {
	m := New(Options{QueueSize: 1})
	msg, _ := midi.Decode(midi.Packet{0x09, 0x90, 0x3C, 0x64}, 0)

	if !m.PostMidi(msg) {
		t.Fatal("first PostMidi dropped")
	}
	if m.PostMidi(msg) {
		t.Fatal("second PostMidi should drop")
	}
	if v := m.Snapshot(); v.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", v.Dropped)
	}
}

func TestMonitorRunStopsOnCancel(t *testing.T) {
	m := New(Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	select {
	case <-m.Done():
	default:
		t.Error("Done not closed")
	}
}

func TestMonitorFeed(t *testing.T) {
	stream := bytes.Join([][]byte{
		{0x09, 0x90, 0x3C, 0x64},
		{0x00, 0x00, 0x00, 0x00}, // dropped
		{0x04, 0xF0, 0x7E, 0x7F},
		{0x07, 0x06, 0x01, 0xF7},
		{0x0C, 0xC0, 0x2A, 0x00},
	}, nil)

	m := New(Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- m.Run(ctx) }()

	src := midi.NewReaderSource("dump", bytes.NewReader(stream))
	m.Feed(ctx, src, midi.NewDecoder(fixedClock))

	if err := m.Post(ctx, KeyEvent{Key: KeyBack}); err != nil {
		t.Fatal(err)
	}
	if err := <-errc; err != nil {
		t.Fatalf("Run() = %v", err)
	}

	v := m.Snapshot()
	want := []string{
		"ProgChg Ch01 Prg042",
		"System  0xF7",
		"System  0xF0",
		"NoteOn  Ch01 C4 Vel100",
	}
	if len(v.Lines) != len(want) {
		t.Fatalf("lines = %q", v.Lines)
	}
	for i := range want {
		if v.Lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, v.Lines[i], want[i])
		}
	}
	if v.SysExCompleted != 1 || v.LastSysExLen != 6 {
		t.Errorf("sysex completed=%d len=%d", v.SysExCompleted, v.LastSysExLen)
	}
}

func TestMonitorUpdatesSignal(t *testing.T) {
	m := New(Options{})
	runUntilBack(t, m, midiEvent(midi.Packet{0x09, 0x90, 0x3C, 0x64}))

	select {
	case <-m.Updates():
	default:
		t.Error("no update signal after consuming events")
	}
}
