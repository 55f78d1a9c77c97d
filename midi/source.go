package midi

// SourceType identifies where packets come from
type SourceType int

const (
	SourceUnknown SourceType = iota
	SourcePort               // live input port
	SourceStream             // raw packet stream (file, device node)
)

func (t SourceType) String() string {
	switch t {
	case SourcePort:
		return "port"
	case SourceStream:
		return "stream"
	}
	return "unknown"
}

// Source is a transport delivering 4-byte USB-MIDI packets
type Source interface {
	ID() string
	Type() SourceType

	// Packets is closed when the source stops
	Packets() <-chan Packet

	// Lifecycle
	Close() error
}
