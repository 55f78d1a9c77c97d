package midi

// Message is a decoded MIDI message. It is a plain value and is never
// mutated after the decoder builds it.
type Message struct {
	Status    byte   // raw status byte (includes channel for channel messages)
	Data1     byte   // first data byte, passed through unvalidated
	Data2     byte   // second data byte, unused by some kinds
	Channel   uint8  // 0-15, 0 for system messages
	Kind      Kind   // derived from Status
	Timestamp uint32 // tick at arrival
	SysEx     Fragment
}

// Fragment is the payload of a single SysEx packet. Len is 0 for
// messages that are not part of a SysEx transfer.
type Fragment struct {
	Data  [3]byte
	Len   uint8
	Start bool // carries the opening 0xF0
	End   bool // carries the closing 0xF7
}

// IsSysEx reports whether the message came from a SysEx packet
func (m Message) IsSysEx() bool {
	return m.SysEx.Len > 0
}

// Bytes returns the valid fragment bytes
func (f Fragment) Bytes() []byte {
	return f.Data[:f.Len]
}
