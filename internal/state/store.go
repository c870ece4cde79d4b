// Package state holds the process-wide session event store and the
// active-session reference. The view layer only ever reads from it.
package state

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/acrode/tailview/internal/events"
)

// UnknownSessionID is the bucket used for events that arrive without a
// session id.
const UnknownSessionID = "unknown"

// Store is the interface for the in-memory session event store.
// All methods must be thread-safe.
type Store interface {
	// AddEvent appends an event to the log of the given session. If
	// sessionID is empty, the event is stored under the "unknown"
	// bucket and a warning is logged.
	AddEvent(sessionID string, e events.Event)

	// Events returns a snapshot of the ordered event log for the given
	// session. An absent session id yields an empty slice.
	Events(sessionID string) []events.Event

	// EventCount returns the current length of the session's log.
	EventCount(sessionID string) int

	// ListSessions returns a snapshot of all known sessions sorted by
	// first-seen time.
	ListSessions() []SessionInfo
}

// SessionInfo is a lightweight summary of one session's log.
type SessionInfo struct {
	SessionID   string
	EventCount  int
	FirstSeenAt time.Time
	LastEventAt time.Time
}

// EventListener is a callback invoked after a new event is stored. It
// receives the resolved session ID and the event. Listeners are called
// outside the store lock and must not call back into the store in a way
// that acquires a write lock.
type EventListener func(sessionID string, e events.Event)

// sessionLog is the per-session append-only record.
type sessionLog struct {
	events      []events.Event
	firstSeenAt time.Time
	lastEventAt time.Time
}

// MemoryStore is a thread-safe in-memory implementation of Store.
type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionLog
	listeners []EventListener
}

// NewMemoryStore creates a new empty MemoryStore ready for use.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*sessionLog),
	}
}

// OnEvent registers a listener that is called after every AddEvent.
// Listeners are invoked synchronously outside the store lock.
func (ms *MemoryStore) OnEvent(fn EventListener) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.listeners = append(ms.listeners, fn)
}

// resolveSessionID returns the provided sessionID if non-empty, or
// UnknownSessionID with a warning log if empty.
func resolveSessionID(sessionID string) string {
	if sessionID == "" {
		log.Printf("WARNING: event received without session id, storing under %q", UnknownSessionID)
		return UnknownSessionID
	}
	return sessionID
}

// AddEvent appends an event to the session's log.
func (ms *MemoryStore) AddEvent(sessionID string, e events.Event) {
	sessionID = resolveSessionID(sessionID)

	ms.mu.Lock()

	s, ok := ms.sessions[sessionID]
	if !ok {
		s = &sessionLog{firstSeenAt: time.Now()}
		ms.sessions[sessionID] = s
	}
	s.events = append(s.events, e)

	if e.Timestamp > 0 {
		s.lastEventAt = time.UnixMilli(e.Timestamp)
	} else {
		s.lastEventAt = time.Now()
	}

	// Snapshot listeners while holding the lock.
	listeners := ms.listeners

	ms.mu.Unlock()

	// Notify listeners outside the lock to prevent deadlocks.
	for _, fn := range listeners {
		fn(sessionID, e)
	}
}

// Events returns a snapshot copy of the session's ordered log, so
// callers never observe a slice the store may keep appending to.
func (ms *MemoryStore) Events(sessionID string) []events.Event {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[sessionID]
	if !ok || len(s.events) == 0 {
		return nil
	}
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventCount returns the current length of the session's log.
func (ms *MemoryStore) EventCount(sessionID string) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	s, ok := ms.sessions[sessionID]
	if !ok {
		return 0
	}
	return len(s.events)
}

// ListSessions returns a snapshot of all sessions sorted by first-seen
// time (oldest first).
func (ms *MemoryStore) ListSessions() []SessionInfo {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]SessionInfo, 0, len(ms.sessions))
	for id, s := range ms.sessions {
		result = append(result, SessionInfo{
			SessionID:   id,
			EventCount:  len(s.events),
			FirstSeenAt: s.firstSeenAt,
			LastEventAt: s.lastEventAt,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].FirstSeenAt.Equal(result[j].FirstSeenAt) {
			return result[i].SessionID < result[j].SessionID
		}
		return result[i].FirstSeenAt.Before(result[j].FirstSeenAt)
	})
	return result
}
