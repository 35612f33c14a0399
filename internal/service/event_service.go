package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository"
)

// CreateEventInput is the validated payload for a new event. Capacity zero
// means unlimited.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	Date        string
	Time        string
	Capacity    int
}

// EventService coordinates event lifecycle operations. Ownership checks live
// here: only the organizer that created an event may change or remove it.
type EventService interface {
	Create(ctx context.Context, organizer domain.Identity, input CreateEventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, id string, caller domain.Identity, patch domain.EventPatch) (*domain.Event, error)
	Delete(ctx context.Context, id string, caller domain.Identity) error
	Participants(ctx context.Context, id string) ([]domain.Participant, error)
}

type eventService struct {
	events repository.EventRepository
	locks  *EventLocks
}

func NewEventService(events repository.EventRepository, locks *EventLocks) EventService {
	return &eventService{
		events: events,
		locks:  locks,
	}
}

func (s *eventService) Create(ctx context.Context, organizer domain.Identity, input CreateEventInput) (*domain.Event, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.Date = strings.TrimSpace(input.Date)
	input.Time = strings.TrimSpace(input.Time)

	switch {
	case input.Title == "":
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	case input.Description == "":
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	case input.Location == "":
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	case input.Date == "":
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	case input.Time == "":
		return nil, fmt.Errorf("%w: time is required", ErrValidation)
	case input.Capacity < 0:
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}

	now := time.Now().UTC()
	event := &domain.Event{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Location:    input.Location,
		Date:        input.Date,
		Time:        input.Time,
		Capacity:    input.Capacity,
		OrganizerID: organizer.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// Update applies a partial patch under the event's lock so it cannot clobber
// a registration happening at the same time. Absent patch fields are left
// untouched; capacity zero explicitly clears the limit.
func (s *eventService) Update(ctx context.Context, id string, caller domain.Identity, patch domain.EventPatch) (*domain.Event, error) {
	if patch.Capacity != nil && *patch.Capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative", ErrValidation)
	}
	if err := validatePatchField(patch.Title, "title"); err != nil {
		return nil, err
	}
	if err := validatePatchField(patch.Description, "description"); err != nil {
		return nil, err
	}
	if err := validatePatchField(patch.Location, "location"); err != nil {
		return nil, err
	}
	if err := validatePatchField(patch.Date, "date"); err != nil {
		return nil, err
	}
	if err := validatePatchField(patch.Time, "time"); err != nil {
		return nil, err
	}

	mu := s.locks.Get(id)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if event.OrganizerID != caller.ID {
		return nil, ErrForbidden
	}

	if patch.Title != nil {
		event.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		event.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Location != nil {
		event.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Date != nil {
		event.Date = strings.TrimSpace(*patch.Date)
	}
	if patch.Time != nil {
		event.Time = strings.TrimSpace(*patch.Time)
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string, caller domain.Identity) error {
	mu := s.locks.Get(id)
	mu.Lock()
	defer mu.Unlock()

	event, err := s.events.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if event.OrganizerID != caller.ID {
		return ErrForbidden
	}

	if err := s.events.Delete(ctx, id); err != nil {
		return err
	}
	s.locks.Forget(id)
	return nil
}

func (s *eventService) Participants(ctx context.Context, id string) ([]domain.Participant, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return event.Participants, nil
}

func validatePatchField(value *string, field string) error {
	if value != nil && strings.TrimSpace(*value) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrValidation, field)
	}
	return nil
}
