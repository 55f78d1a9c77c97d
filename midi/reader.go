package midi

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sync"
)

// ReaderSource reads back-to-back packets from an io.Reader, e.g. a
// recorded dump or a raw USB-MIDI device node.
type ReaderSource struct {
	id      string
	r       io.Reader
	packets chan Packet
	done    chan struct{}

	mu  sync.Mutex
	err error

	closeOnce sync.Once
}

// NewReaderSource starts reading r in the background
func NewReaderSource(id string, r io.Reader) *ReaderSource {
	rs := &ReaderSource{
		id:      id,
		r:       r,
		packets: make(chan Packet, 64),
		done:    make(chan struct{}),
	}
	go rs.run()
	return rs
}

func (rs *ReaderSource) run() {
	defer close(rs.packets)

	br := bufio.NewReader(rs.r)
	for {
		var p Packet
		_, err := io.ReadFull(br, p[:])
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			return
		case errors.Is(err, io.ErrUnexpectedEOF):
			rs.setErr(fmt.Errorf("%s: %w", rs.id, ErrShortPacket))
			return
		default:
			rs.setErr(fmt.Errorf("%s: read: %w", rs.id, err))
			return
		}

		select {
		case rs.packets <- p:
		case <-rs.done:
			return
		}
	}
}

func (rs *ReaderSource) setErr(err error) {
	rs.mu.Lock()
	rs.err = err
	rs.mu.Unlock()
}

// Err returns the error that stopped the reader, nil on clean EOF.
// Only meaningful once Packets is closed.
func (rs *ReaderSource) Err() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.err
}

func (rs *ReaderSource) ID() string {
	return rs.id
}

func (rs *ReaderSource) Type() SourceType {
	return SourceStream
}

func (rs *ReaderSource) Packets() <-chan Packet {
	return rs.packets
}

// Close stops delivery. The underlying reader is closed if it is an io.Closer.
func (rs *ReaderSource) Close() error {
	var err error
	rs.closeOnce.Do(func() {
		close(rs.done)
		if c, ok := rs.r.(io.Closer); ok {
			err = c.Close()
		}
	})
	return err
}
