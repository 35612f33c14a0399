package service

import "sync"

// EventLocks hands out one mutex per event so read-modify-write cycles on a
// single event are serialized without blocking work on other events. Both the
// registration engine and event mutation go through it: the capacity check and
// the participant append must be atomic as a unit.
type EventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewEventLocks() *EventLocks {
	return &EventLocks{locks: make(map[string]*sync.Mutex)}
}

// Get returns the mutex for the given event id, creating it on first use.
func (l *EventLocks) Get(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// Forget drops the mutex for a deleted event.
func (l *EventLocks) Forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.locks, id)
}
