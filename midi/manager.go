package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver

	"midimon/debug"
)

// DeviceEvent is emitted when sources connect/disconnect
type DeviceEvent struct {
	Type   DeviceEventType
	Source Source
	ID     string
	Count  int // sources connected after this event
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// PortMatcher decides whether an input port should be monitored
type PortMatcher func(name string) bool

// MatchAny returns a matcher accepting ports whose name contains any of
// the given substrings (case-insensitive). No substrings matches every port.
func MatchAny(substrings ...string) PortMatcher {
	var subs []string
	for _, s := range substrings {
		if s = strings.TrimSpace(strings.ToLower(s)); s != "" {
			subs = append(subs, s)
		}
	}
	return func(name string) bool {
		if len(subs) == 0 {
			return true
		}
		name = strings.ToLower(name)
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// DeviceManager handles hot-plug detection of MIDI input ports
type DeviceManager struct {
	sources  map[string]Source
	mu       sync.RWMutex
	events   chan DeviceEvent
	pollRate time.Duration
	match    PortMatcher
}

// NewDeviceManager creates a new device manager. A nil matcher accepts
// every port; pollRate <= 0 polls once per second.
func NewDeviceManager(match PortMatcher, pollRate time.Duration) *DeviceManager {
	if match == nil {
		match = MatchAny()
	}
	if pollRate <= 0 {
		pollRate = time.Second
	}
	return &DeviceManager{
		sources:  make(map[string]Source),
		events:   make(chan DeviceEvent, 16),
		pollRate: pollRate,
		match:    match,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Sources returns a snapshot of connected sources
func (dm *DeviceManager) Sources() map[string]Source {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	snapshot := make(map[string]Source, len(dm.sources))
	for k, v := range dm.sources {
		snapshot[k] = v
	}
	return snapshot
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	// Initial scan
	dm.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan(ctx)
		}
	}
}

// ListInPorts returns the input ports, or false if the driver did not
// answer within timeout (CoreMIDI can hang).
func ListInPorts(timeout time.Duration) ([]drivers.In, bool) {
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	select {
	case ins := <-ch:
		return ins, true
	case <-time.After(timeout):
		return nil, false
	}
}

func (dm *DeviceManager) scan(ctx context.Context) {
	inPorts, ok := ListInPorts(3 * time.Second)
	if !ok {
		// User needs to run: sudo killall coreaudiod midiserver
		debug.Log("devices", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for i, inPort := range inPorts {
		id := inPort.String()
		if !dm.match(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.sources[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		src, err := NewPortSource(id, uint8(i&0x0F), inPorts[i])
		if err != nil {
			debug.Log("devices", "open %s: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.sources[id] = src
		count := len(dm.sources)
		dm.mu.Unlock()

		debug.Log("devices", "connected %s (cable %d)", id, i&0x0F)
		dm.emit(ctx, DeviceEvent{Type: DeviceConnected, Source: src, ID: id, Count: count})
	}

	// Check for disconnects
	dm.mu.Lock()
	var gone []DeviceEvent
	for id, src := range dm.sources {
		if seenIDs[id] {
			continue
		}
		src.Close()
		delete(dm.sources, id)
		gone = append(gone, DeviceEvent{Type: DeviceDisconnected, ID: id})
	}
	count := len(dm.sources)
	dm.mu.Unlock()

	for _, ev := range gone {
		ev.Count = count
		debug.Log("devices", "disconnected %s", ev.ID)
		dm.emit(ctx, ev)
	}
}

func (dm *DeviceManager) emit(ctx context.Context, ev DeviceEvent) {
	select {
	case dm.events <- ev:
	case <-ctx.Done():
	}
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, s := range dm.sources {
		s.Close()
	}
	dm.sources = make(map[string]Source)
}
