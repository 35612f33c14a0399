package service

import "errors"

var (
	// ErrValidation indicates caller-correctable bad input.
	ErrValidation = errors.New("invalid input")
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller lacks permission for the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrAlreadyRegistered is returned when a user registers twice for one event.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrEventFull is returned when an event has no remaining capacity.
	ErrEventFull = errors.New("event is fully booked")
)
