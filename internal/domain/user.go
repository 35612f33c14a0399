package domain

import "time"

// Role determines which operations a user may perform.
type Role string

const (
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleOrganizer || r == RoleAttendee
}

// User represents a registered account of the platform.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller snapshot derived from a verified
// credential. Downstream components operate on this, never on the raw token.
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// Identity builds the caller snapshot for an authenticated user.
func (u *User) Identity() Identity {
	return Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
