package monitor

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"midimon/debug"
	"midimon/midi"
)

// DefaultQueueSize is the depth of the event queue
const DefaultQueueSize = 16

// State is everything the display needs. It is only mutated by the
// Monitor while holding its lock.
type State struct {
	History         History
	USBConnected    bool
	LastMessageTime uint32
	Received        uint64 // messages inserted since start
	SysExCompleted  int    // reassembled SysEx messages
	LastSysExLen    int
}

// View is a snapshot of the visible part of the state
type View struct {
	Lines           []string // formatted, newest first
	Kinds           []midi.Kind
	Len             int      // messages in history
	Offset          int
	MoreAbove       bool
	MoreBelow       bool
	USBConnected    bool
	LastMessageTime uint32
	Received        uint64
	Dropped         uint64
	SysExCompleted  int
	LastSysExLen    int
}

// Options configure a Monitor
type Options struct {
	QueueSize  int
	SysExLimit int
	Clock      midi.Clock
}

// Monitor owns the history and serializes every mutation through a
// single consumer loop. Snapshots may be taken from any goroutine.
type Monitor struct {
	mu    sync.RWMutex
	state State

	events  chan Event
	updates chan struct{}
	done    chan struct{}
	clock   midi.Clock
	sysex   *midi.SysExAssembler // consumer loop only
	dropped atomic.Uint64
}

// New creates a monitor. Zero options use the defaults.
func New(opts Options) *Monitor {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	if opts.Clock == nil {
		opts.Clock = midi.MillisClock()
	}
	return &Monitor{
		events:  make(chan Event, opts.QueueSize),
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
		clock:   opts.Clock,
		sysex:   midi.NewSysExAssembler(opts.SysExLimit),
	}
}

// Updates signals after each consumed event that a redisplay is due.
// Signals are coalesced.
func (m *Monitor) Updates() <-chan struct{} {
	return m.updates
}

// Done is closed when the consumer loop exits
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

// Post queues an event, waiting for room in the queue
func (m *Monitor) Post(ctx context.Context, ev Event) error {
	select {
	case m.events <- ev:
		return nil
	case <-m.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PostMidi queues a decoded message without waiting. It reports false
// and counts a drop when the queue is full.
func (m *Monitor) PostMidi(msg midi.Message) bool {
	select {
	case m.events <- MidiEvent{Message: msg}:
		return true
	default:
		n := m.dropped.Add(1)
		debug.LogEvery(10, "monitor", "queue full, dropped=%d", n)
		return false
	}
}

// Run drains the event queue until ctx is cancelled or a KeyBack event
// arrives. Queued events are abandoned on exit.
func (m *Monitor) Run(ctx context.Context) error {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			debug.Log("monitor", "stopped: %v", ctx.Err())
			return ctx.Err()
		case ev := <-m.events:
			quit := m.apply(ev)
			m.notify()
			if quit {
				debug.Log("monitor", "exit requested")
				return nil
			}
		}
	}
}

func (m *Monitor) apply(ev Event) (quit bool) {
	switch ev := ev.(type) {
	case KeyEvent:
		switch ev.Key {
		case KeyUp:
			m.ScrollUp()
		case KeyDown:
			m.ScrollDown()
		case KeyOk:
			m.ClearHistory()
		case KeyBack:
			return true
		}

	case MidiEvent:
		m.insert(ev.Message)

	case USBStatusEvent:
		m.mu.Lock()
		m.state.USBConnected = ev.Connected
		m.mu.Unlock()
		debug.L().Info("usb status", zap.Bool("connected", ev.Connected))
	}
	return false
}

func (m *Monitor) insert(msg midi.Message) {
	data, err := m.sysex.Feed(msg)
	if err != nil {
		debug.Log("sysex", "%v", err)
	}

	m.mu.Lock()
	m.state.History.Insert(msg)
	m.state.LastMessageTime = m.clock()
	m.state.Received++
	if data != nil {
		m.state.SysExCompleted++
		m.state.LastSysExLen = len(data)
	}
	m.mu.Unlock()

	if data != nil {
		debug.L().Debug("sysex complete", zap.Int("len", len(data)), zap.Binary("data", data))
	}
	debug.L().Debug("midi message",
		zap.Stringer("kind", msg.Kind),
		zap.Uint8("status", msg.Status),
		zap.Uint8("channel", msg.Channel),
		zap.Uint8("data1", msg.Data1),
		zap.Uint8("data2", msg.Data2),
		zap.Uint32("tick", msg.Timestamp),
	)
}

func (m *Monitor) notify() {
	select {
	case m.updates <- struct{}{}:
	default:
	}
}

// ScrollUp moves the visible window towards newer messages
func (m *Monitor) ScrollUp() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History.ScrollUp()
}

// ScrollDown moves the visible window towards older messages
func (m *Monitor) ScrollDown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.History.ScrollDown()
}

// ClearHistory empties the history
func (m *Monitor) ClearHistory() {
	m.mu.Lock()
	m.state.History.Clear()
	m.mu.Unlock()
	debug.Log("monitor", "clearing message history")
}

// Snapshot returns the visible window and indicators
func (m *Monitor) Snapshot() View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h := &m.state.History
	window := h.Window()
	lines := make([]string, len(window))
	kinds := make([]midi.Kind, len(window))
	for i, msg := range window {
		lines[i] = midi.Format(msg)
		kinds[i] = msg.Kind
	}

	return View{
		Lines:           lines,
		Kinds:           kinds,
		Len:             h.Len(),
		Offset:          h.Offset(),
		MoreAbove:       h.MoreAbove(),
		MoreBelow:       h.MoreBelow(),
		USBConnected:    m.state.USBConnected,
		LastMessageTime: m.state.LastMessageTime,
		Received:        m.state.Received,
		Dropped:         m.dropped.Load(),
		SysExCompleted:  m.state.SysExCompleted,
		LastSysExLen:    m.state.LastSysExLen,
	}
}

// Feed decodes every packet from src and queues the resulting messages.
// It returns when the source closes, the loop exits or ctx is cancelled.
func (m *Monitor) Feed(ctx context.Context, src midi.Source, dec *midi.Decoder) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case p, ok := <-src.Packets():
			if !ok {
				return
			}
			msg, ok := dec.Decode(p)
			if !ok {
				debug.LogEvery(20, "decode", "%s: dropped packet cin=%X", src.ID(), p.CIN())
				continue
			}
			// streams can wait; live ports behave like an interrupt and drop
			if src.Type() == midi.SourceStream {
				if err := m.Post(ctx, MidiEvent{Message: msg}); err != nil {
					return
				}
				continue
			}
			m.PostMidi(msg)
		}
	}
}
