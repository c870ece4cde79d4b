package state

import "sync"

// ActiveRef holds the at-most-one active session reference. Absence is
// a first-class state, distinct from an empty log.
type ActiveRef struct {
	mu  sync.RWMutex
	id  string
	set bool
}

// NewActiveRef returns a reference with no active session.
func NewActiveRef() *ActiveRef {
	return &ActiveRef{}
}

// Set makes the given session the active one.
func (a *ActiveRef) Set(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = sessionID
	a.set = true
}

// Clear removes the active session reference.
func (a *ActiveRef) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.id = ""
	a.set = false
}

// Get returns the active session id, if any.
func (a *ActiveRef) Get() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.id, a.set
}
