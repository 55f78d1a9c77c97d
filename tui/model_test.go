package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"midimon/midi"
	"midimon/monitor"
	"midimon/theme"
)

func newTestModel(t *testing.T, events ...monitor.Event) Model {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	mon := monitor.New(monitor.Options{})
	go mon.Run(ctx)
	for _, ev := range append(events, monitor.KeyEvent{Key: monitor.KeyBack}) {
		if err := mon.Post(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-mon.Done():
	case <-ctx.Done():
		t.Fatal("monitor did not stop")
	}

	return NewModel(ctx, mon, nil, midi.NewDecoder(nil), theme.Default())
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestViewEmpty(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"midimon", "USB: Waiting...", "Waiting for MIDI..."} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestViewShowsHistory(t *testing.T) {
	msg, _ := midi.Decode(midi.Packet{0x09, 0x90, 0x3C, 0x64}, 0)
	m := newTestModel(t,
		monitor.USBStatusEvent{Connected: true},
		monitor.MidiEvent{Message: msg},
	).WithSource("dump.bin")

	out := m.View()
	for _, want := range []string{"USB: Connected", "dump.bin", "NoteOn  Ch01 C4 Vel100"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Waiting for MIDI...") {
		t.Error("placeholder shown with history present")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(keyMsg("?"))
	if !strings.Contains(updated.View(), "toggle this help") {
		t.Error("help not shown after ?")
	}
	updated, _ = updated.Update(keyMsg("?"))
	if strings.Contains(updated.View(), "toggle this help") {
		t.Error("help still shown after second ?")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if updated.View() != "" {
		t.Error("view should be empty while quitting")
	}
}

func TestScrollKeysProduceCommands(t *testing.T) {
	m := newTestModel(t)
	for _, k := range []tea.KeyMsg{{Type: tea.KeyUp}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}} {
		if _, cmd := m.Update(k); cmd == nil {
			t.Errorf("%s: no command", k.String())
		}
	}
}

func TestMonitorDoneQuits(t *testing.T) {
	m := newTestModel(t)

	// a pending update signal may be delivered first
	var done bool
	for i := 0; i < 3 && !done; i++ {
		_, done = ListenForUpdates(m.Monitor)().(monitorDoneMsg)
	}
	if !done {
		t.Fatal("expected monitorDoneMsg after loop exit")
	}

	updated, cmd := m.Update(monitorDoneMsg{})
	if cmd == nil || updated.View() != "" {
		t.Error("model did not quit when monitor stopped")
	}
}
