package monitor

import "midimon/midi"

const (
	HistorySize = 8 // messages kept
	WindowSize  = 4 // rows visible at once
)

// History is a fixed-capacity, newest-first message buffer with a scroll
// offset into it. The zero value is an empty history.
type History struct {
	buf    [HistorySize]midi.Message
	head   int // index of the newest message
	length int
	offset int
}

// Insert adds msg as the newest entry, evicting the oldest when full
func (h *History) Insert(msg midi.Message) {
	h.head = (h.head + HistorySize - 1) % HistorySize
	h.buf[h.head] = msg
	if h.length < HistorySize {
		h.length++
	}
}

// Clear empties the history and resets the scroll offset
func (h *History) Clear() {
	h.buf = [HistorySize]midi.Message{}
	h.head = 0
	h.length = 0
	h.offset = 0
}

// Len returns the number of stored messages
func (h *History) Len() int {
	return h.length
}

// Offset returns the index of the first visible message
func (h *History) Offset() int {
	return h.offset
}

// At returns the i-th newest message (0 = newest)
func (h *History) At(i int) (midi.Message, bool) {
	if i < 0 || i >= h.length {
		return midi.Message{}, false
	}
	return h.buf[(h.head+i)%HistorySize], true
}

// Messages returns all stored messages, newest first
func (h *History) Messages() []midi.Message {
	out := make([]midi.Message, h.length)
	for i := range out {
		out[i], _ = h.At(i)
	}
	return out
}

// ScrollUp moves the window towards newer messages
func (h *History) ScrollUp() {
	if h.offset > 0 {
		h.offset--
	}
}

// ScrollDown moves the window towards older messages
func (h *History) ScrollDown() {
	if h.offset+WindowSize < h.length {
		h.offset++
	}
}

// Window returns up to WindowSize messages starting at the scroll offset
func (h *History) Window() []midi.Message {
	var out []midi.Message
	for i := h.offset; i < h.length && len(out) < WindowSize; i++ {
		msg, _ := h.At(i)
		out = append(out, msg)
	}
	return out
}

// MoreAbove reports whether newer messages are scrolled out of view
func (h *History) MoreAbove() bool {
	return h.offset > 0
}

// MoreBelow reports whether older messages are scrolled out of view
func (h *History) MoreBelow() bool {
	return h.offset+WindowSize < h.length
}
