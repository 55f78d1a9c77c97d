package monitor

import "midimon/midi"

// Event is anything the monitor loop consumes
type Event interface {
	isEvent()
}

// Key is a user action
type Key int

const (
	KeyUp   Key = iota // scroll towards newer
	KeyDown            // scroll towards older
	KeyOk              // clear history
	KeyBack            // exit
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyOk:
		return "ok"
	case KeyBack:
		return "back"
	}
	return "unknown"
}

// KeyEvent is a user key press
type KeyEvent struct {
	Key Key
}

// MidiEvent carries a decoded message
type MidiEvent struct {
	Message midi.Message
}

// USBStatusEvent reports whether any input source is connected
type USBStatusEvent struct {
	Connected bool
}

func (KeyEvent) isEvent()       {}
func (MidiEvent) isEvent()      {}
func (USBStatusEvent) isEvent() {}
