package midi

import (
	"errors"
	"fmt"
)

// ErrSysExOverflow is returned when a SysEx message outgrows the assembler limit
var ErrSysExOverflow = errors.New("sysex message too long")

// DefaultSysExLimit bounds a reassembled SysEx message including F0/F7
const DefaultSysExLimit = 256

// SysExAssembler collects SysEx fragments into complete F0 ... F7 messages.
// It is not safe for concurrent use.
type SysExAssembler struct {
	buf    []byte
	limit  int
	active bool
}

// NewSysExAssembler creates an assembler; limit <= 0 uses DefaultSysExLimit
func NewSysExAssembler(limit int) *SysExAssembler {
	if limit <= 0 {
		limit = DefaultSysExLimit
	}
	return &SysExAssembler{limit: limit}
}

// Feed adds the fragment carried by msg. It returns the complete message
// once the closing fragment arrives. Fragments seen without a preceding
// start are ignored; a new start discards any partial message.
func (a *SysExAssembler) Feed(msg Message) ([]byte, error) {
	if !msg.IsSysEx() {
		return nil, nil
	}

	f := msg.SysEx
	if f.Start {
		a.buf = a.buf[:0]
		a.active = true
	}
	if !a.active {
		return nil, nil
	}

	if len(a.buf)+int(f.Len) > a.limit {
		n := len(a.buf) + int(f.Len)
		a.Reset()
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSysExOverflow, n, a.limit)
	}
	a.buf = append(a.buf, f.Bytes()...)

	if !f.End {
		return nil, nil
	}

	out := make([]byte, len(a.buf))
	copy(out, a.buf)
	a.Reset()
	return out, nil
}

// Pending reports how many bytes of an unfinished message are buffered
func (a *SysExAssembler) Pending() int {
	return len(a.buf)
}

// Reset drops any partial message
func (a *SysExAssembler) Reset() {
	a.buf = a.buf[:0]
	a.active = false
}
