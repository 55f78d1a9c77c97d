package midi

import "errors"

// ErrShortPacket is returned by byte-stream sources when the stream ends
// in the middle of a 4-byte packet.
var ErrShortPacket = errors.New("short USB-MIDI packet")

// PacketSize is the size of a USB-MIDI event packet
const PacketSize = 4

// Packet is a raw USB-MIDI event packet:
// [cable<<4 | CIN] [status] [data1] [data2]
type Packet [PacketSize]byte

// Code Index Numbers (USB-MIDI 1.0, table 4-1)
const (
	CINMisc          uint8 = 0x0 // reserved
	CINCableEvent    uint8 = 0x1 // reserved
	CINSysCommon2    uint8 = 0x2
	CINSysCommon3    uint8 = 0x3
	CINSysExStart    uint8 = 0x4 // SysEx starts or continues
	CINSysExEnd1     uint8 = 0x5 // single-byte system common, or SysEx ends with 1 byte
	CINSysExEnd2     uint8 = 0x6
	CINSysExEnd3     uint8 = 0x7
	CINNoteOff       uint8 = 0x8
	CINNoteOn        uint8 = 0x9
	CINPolyKeyPress  uint8 = 0xA
	CINControlChange uint8 = 0xB
	CINProgramChange uint8 = 0xC
	CINChannelPress  uint8 = 0xD
	CINPitchBend     uint8 = 0xE
	CINSingleByte    uint8 = 0xF
)

// System message status bytes used during framing
const (
	StatusSysExStart byte = 0xF0
	StatusSysExEnd   byte = 0xF7
)

// CIN returns the Code Index Number of the packet
func (p Packet) CIN() uint8 {
	return p[0] & 0x0F
}

// Cable returns the virtual cable number of the packet
func (p Packet) Cable() uint8 {
	return p[0] >> 4
}

// NewPacket builds a packet for the given cable and CIN
func NewPacket(cable, cin uint8, b1, b2, b3 byte) Packet {
	return Packet{(cable&0x0F)<<4 | cin&0x0F, b1, b2, b3}
}

// Decode turns a packet into a message stamped with tick. It reports
// false for packets that carry no MIDI content (CIN 0x0 and 0x1).
func Decode(p Packet, tick uint32) (Message, bool) {
	msg := Message{Timestamp: tick}

	switch cin := p.CIN(); cin {
	case CINMisc, CINCableEvent:
		return Message{}, false

	case CINSysExStart:
		msg.SysEx = Fragment{Data: [3]byte{p[1], p[2], p[3]}, Len: 3, Start: p[1] == StatusSysExStart}
		msg.Status = StatusSysExStart

	case CINSysExEnd1:
		if p[1] != StatusSysExEnd {
			// single-byte system common (tune request, etc.)
			msg.Status = p[1]
			break
		}
		msg.SysEx = Fragment{Data: [3]byte{p[1]}, Len: 1, End: true}
		msg.Status = StatusSysExEnd

	case CINSysExEnd2, CINSysExEnd3:
		n := cin - CINSysExEnd1 + 1
		f := Fragment{Len: n, Start: p[1] == StatusSysExStart, End: true}
		copy(f.Data[:], p[1:1+n])
		msg.SysEx = f
		msg.Status = StatusSysExEnd
		if f.Start {
			msg.Status = StatusSysExStart
		}

	default:
		// channel messages, system common and single-byte realtime
		msg.Status = p[1]
		msg.Data1 = p[2]
		msg.Data2 = p[3]
	}

	msg.Kind, msg.Channel = Classify(msg.Status)
	return msg, true
}

// Encode packs a complete MIDI message into USB-MIDI packets on the given
// cable. SysEx messages are split into 3-byte fragments. Running status
// (a leading data byte) cannot be framed and yields no packets.
func Encode(cable uint8, raw []byte) []Packet {
	if len(raw) == 0 || raw[0] < 0x80 {
		return nil
	}

	if raw[0] == StatusSysExStart {
		return encodeSysEx(cable, raw)
	}

	var b [3]byte
	copy(b[:], raw)

	status := raw[0]
	var cin uint8
	switch {
	case status < 0xF0:
		cin = status >> 4
	case status == 0xF1 || status == 0xF3:
		cin = CINSysCommon2
	case status == 0xF2:
		cin = CINSysCommon3
	case status == 0xF6 || status == StatusSysExEnd:
		cin = CINSysExEnd1
	default:
		cin = CINSingleByte
	}

	return []Packet{NewPacket(cable, cin, b[0], b[1], b[2])}
}

func encodeSysEx(cable uint8, raw []byte) []Packet {
	terminated := raw[len(raw)-1] == StatusSysExEnd

	packets := make([]Packet, 0, (len(raw)+2)/3)
	for i := 0; i < len(raw); i += 3 {
		var b [3]byte
		n := copy(b[:], raw[i:])

		cin := CINSysExStart
		if i+n == len(raw) && terminated {
			cin = CINSysExEnd1 + uint8(n) - 1
		}
		packets = append(packets, NewPacket(cable, cin, b[0], b[1], b[2]))
	}
	return packets
}
