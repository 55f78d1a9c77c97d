package midi

import "time"

// Clock returns a monotonic tick used to stamp decoded messages
type Clock func() uint32

// MillisClock returns a Clock counting milliseconds since it was created
func MillisClock() Clock {
	start := time.Now()
	return func() uint32 {
		return uint32(time.Since(start).Milliseconds())
	}
}

// Decoder stamps decoded packets with ticks from its clock. It holds no
// other state and is safe for concurrent use.
type Decoder struct {
	clock Clock
}

// NewDecoder creates a decoder. A nil clock uses MillisClock.
func NewDecoder(clock Clock) *Decoder {
	if clock == nil {
		clock = MillisClock()
	}
	return &Decoder{clock: clock}
}

// Decode decodes a single packet, see Decode
func (d *Decoder) Decode(p Packet) (Message, bool) {
	return Decode(p, d.clock())
}

// DecodeBytes walks a buffer of back-to-back packets and returns every
// message it carries. Trailing bytes that do not fill a packet are ignored.
func (d *Decoder) DecodeBytes(buf []byte) []Message {
	var msgs []Message
	for i := 0; i+PacketSize <= len(buf); i += PacketSize {
		var p Packet
		copy(p[:], buf[i:i+PacketSize])
		if msg, ok := d.Decode(p); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
