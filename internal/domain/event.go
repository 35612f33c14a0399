package domain

import "time"

// Event represents a scheduled event owned by an organizer.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	Date        string
	Time        string
	// Capacity limits how many participants may register. Zero means unlimited.
	Capacity     int
	OrganizerID  string
	Participants []Participant
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant is a point-in-time copy of the registering user's identity.
// It is deliberately a snapshot, not a reference, so the registration record
// stays intact even if the user record changes later.
type Participant struct {
	UserID       string
	Name         string
	Email        string
	RegisteredAt time.Time
}

// EventPatch carries the fields of a partial event update. Nil fields are
// left untouched. Capacity set to zero clears the limit entirely.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	Date        *string
	Time        *string
	Capacity    *int
}

// HasCapacityLimit reports whether the event caps its participant count.
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity > 0
}

// IsFull returns true when no seats remain.
func (e *Event) IsFull() bool {
	return e.Capacity > 0 && len(e.Participants) >= e.Capacity
}

// HasParticipant reports whether the user is already registered.
func (e *Event) HasParticipant(userID string) bool {
	for i := range e.Participants {
		if e.Participants[i].UserID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can hand out events without sharing
// the participants slice.
func (e *Event) Clone() *Event {
	clone := *e
	clone.Participants = make([]Participant, len(e.Participants))
	copy(clone.Participants, e.Participants)
	return &clone
}
