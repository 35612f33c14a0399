package service

import (
	"context"
	"errors"
	"time"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/notify"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository"
)

// RegistrationConfirmation is the reduced event view returned to a freshly
// registered participant.
type RegistrationConfirmation struct {
	EventID string
	Title   string
	Date    string
	Time    string
}

// Notifier dispatches confirmation messages without blocking the caller.
type Notifier interface {
	Dispatch(msg notify.Message)
}

// RegistrationService adds participants to events. The duplicate check, the
// capacity check, and the participant append run under the event's lock so
// concurrent registrations can never overshoot the capacity.
type RegistrationService interface {
	Register(ctx context.Context, eventID string, caller domain.Identity) (*RegistrationConfirmation, error)
}

type registrationService struct {
	events   repository.EventRepository
	locks    *EventLocks
	notifier Notifier
}

func NewRegistrationService(events repository.EventRepository, locks *EventLocks, notifier Notifier) RegistrationService {
	return &registrationService{
		events:   events,
		locks:    locks,
		notifier: notifier,
	}
}

func (s *registrationService) Register(ctx context.Context, eventID string, caller domain.Identity) (*RegistrationConfirmation, error) {
	confirmation, err := s.register(ctx, eventID, caller)
	if err != nil {
		return nil, err
	}

	// Dispatched after the event lock is released. Delivery is best effort
	// and has no bearing on the registration outcome.
	s.notifier.Dispatch(notify.Message{
		RecipientEmail: caller.Email,
		RecipientName:  caller.Name,
		EventTitle:     confirmation.Title,
	})

	return confirmation, nil
}

func (s *registrationService) register(ctx context.Context, eventID string, caller domain.Identity) (*RegistrationConfirmation, error) {
	mu := s.locks.Get(eventID)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if event.HasParticipant(caller.ID) {
		return nil, ErrAlreadyRegistered
	}
	if event.IsFull() {
		return nil, ErrEventFull
	}

	now := time.Now().UTC()
	event.Participants = append(event.Participants, domain.Participant{
		UserID:       caller.ID,
		Name:         caller.Name,
		Email:        caller.Email,
		RegisteredAt: now,
	})
	event.UpdatedAt = now

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	return &RegistrationConfirmation{
		EventID: event.ID,
		Title:   event.Title,
		Date:    event.Date,
		Time:    event.Time,
	}, nil
}
