package midi

// Kind identifies the kind of a MIDI message
type Kind uint8

// Kinds carry the upper nibble of their status byte so a Kind can be
// compared directly against status&0xF0.
const (
	KindUnknown           Kind = 0x00
	KindNoteOff           Kind = 0x80
	KindNoteOn            Kind = 0x90
	KindPolyAftertouch    Kind = 0xA0
	KindControlChange     Kind = 0xB0
	KindProgramChange     Kind = 0xC0
	KindChannelAftertouch Kind = 0xD0
	KindPitchBend         Kind = 0xE0
	KindSystem            Kind = 0xF0
)

func (k Kind) String() string {
	switch k {
	case KindNoteOff:
		return "NoteOff"
	case KindNoteOn:
		return "NoteOn"
	case KindPolyAftertouch:
		return "PolyAftertouch"
	case KindControlChange:
		return "ControlChange"
	case KindProgramChange:
		return "ProgramChange"
	case KindChannelAftertouch:
		return "ChannelAftertouch"
	case KindPitchBend:
		return "PitchBend"
	case KindSystem:
		return "System"
	}
	return "Unknown"
}

// Classify maps a status byte to its message kind and channel (0-15).
// System messages (0xF0-0xFF) always report channel 0. Data bytes
// (high bit clear) are not status bytes and classify as KindUnknown.
func Classify(status byte) (Kind, uint8) {
	switch {
	case status < 0x80:
		return KindUnknown, 0
	case status < 0xF0:
		return Kind(status & 0xF0), status & 0x0F
	default:
		return KindSystem, 0
	}
}
