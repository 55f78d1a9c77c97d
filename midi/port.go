package midi

import (
	"fmt"
	"sync"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"midimon/debug"
)

// PortSource turns a MIDI input port into a USB-MIDI packet stream
type PortSource struct {
	id       string
	cable    uint8
	inPort   drivers.In
	stopFunc func()

	mu      sync.Mutex
	closed  bool
	packets chan Packet
}

// NewPortSource starts listening on inPort. Every message received is
// framed as USB-MIDI packets on the given cable.
func NewPortSource(id string, cable uint8, inPort drivers.In) (*PortSource, error) {
	ps := &PortSource{
		id:      id,
		cable:   cable,
		inPort:  inPort,
		packets: make(chan Packet, 64),
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			ps.push(msg.Bytes())
		}, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		ps.stopFunc = stop
	}

	return ps, nil
}

func (ps *PortSource) push(raw []byte) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if ps.closed {
		return
	}

	for _, p := range Encode(ps.cable, raw) {
		select {
		case ps.packets <- p:
		default:
			debug.LogEvery(50, "port", "%s: packet queue full, dropping", ps.id)
		}
	}
}

func (ps *PortSource) ID() string {
	return ps.id
}

func (ps *PortSource) Type() SourceType {
	return SourcePort
}

func (ps *PortSource) Packets() <-chan Packet {
	return ps.packets
}

func (ps *PortSource) Close() error {
	if ps.stopFunc != nil {
		ps.stopFunc()
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()
	if !ps.closed {
		ps.closed = true
		close(ps.packets)
	}
	return nil
}
