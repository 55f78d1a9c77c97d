package midi

import "fmt"

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// NoteName converts a MIDI note number to a name with octave, where
// middle C (60) is C4. Values outside 0-127 render as "?".
func NoteName(note uint8) string {
	if note > 127 {
		return "?"
	}
	octave := int(note)/12 - 1
	return fmt.Sprintf("%s%d", noteNames[note%12], octave)
}

// PitchBend returns the signed bend amount, centered on zero (-8192..8191)
func PitchBend(lsb, msb byte) int {
	return (int(msb)<<7 | int(lsb)) - 8192
}

// Format renders a message as a single fixed-layout display line
func Format(msg Message) string {
	ch := int(msg.Channel) + 1

	switch msg.Kind {
	case KindNoteOn:
		if msg.Data2 > 0 {
			return fmt.Sprintf("NoteOn  Ch%02d %s Vel%03d", ch, NoteName(msg.Data1), msg.Data2)
		}
		// velocity 0 is a note off
		return fmt.Sprintf("NoteOff Ch%02d %s", ch, NoteName(msg.Data1))

	case KindNoteOff:
		return fmt.Sprintf("NoteOff Ch%02d %s Vel%03d", ch, NoteName(msg.Data1), msg.Data2)

	case KindControlChange:
		return fmt.Sprintf("CC      Ch%02d #%03d=%03d", ch, msg.Data1, msg.Data2)

	case KindProgramChange:
		return fmt.Sprintf("ProgChg Ch%02d Prg%03d", ch, msg.Data1)

	case KindPitchBend:
		return fmt.Sprintf("PitchBd Ch%02d %+05d", ch, PitchBend(msg.Data1, msg.Data2))

	case KindChannelAftertouch:
		return fmt.Sprintf("ChPress Ch%02d Val%03d", ch, msg.Data1)

	case KindPolyAftertouch:
		return fmt.Sprintf("PolyAT  Ch%02d %s P%03d", ch, NoteName(msg.Data1), msg.Data2)

	case KindSystem:
		return fmt.Sprintf("System  0x%02X", msg.Status)
	}

	return fmt.Sprintf("Unknown 0x%02X", msg.Status)
}
