// Package events provides an in-memory audit log of order lifecycle
// transitions. Streams are keyed by order id; the log is session-scoped and
// never persisted.
package events

import (
	"sync"
	"time"
)

// Event records one lifecycle transition on an order stream.
type Event struct {
	Type     string
	StreamID string
	Data     any
	At       time.Time
	Version  int
}

// Store is the sink the workflow appends lifecycle events to.
type Store interface {
	Append(streamID, eventType string, data any)
	Stream(streamID string) []Event
	All() []Event
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]Event
	all     []Event
	now     func() time.Time
}

// Verify interface compliance
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory event store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[string][]Event),
		now:     time.Now,
	}
}

// Append records an event at the end of the given stream.
func (s *MemoryStore) Append(streamID, eventType string, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := Event{
		Type:     eventType,
		StreamID: streamID,
		Data:     data,
		At:       s.now(),
		Version:  len(s.streams[streamID]) + 1,
	}
	s.streams[streamID] = append(s.streams[streamID], event)
	s.all = append(s.all, event)
}

// Stream returns the events of one stream in append order.
func (s *MemoryStore) Stream(streamID string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.streams[streamID]))
	copy(out, s.streams[streamID])
	return out
}

// All returns every recorded event in global append order.
func (s *MemoryStore) All() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Event, len(s.all))
	copy(out, s.all)
	return out
}
