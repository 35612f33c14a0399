package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/repository"
)

// EventRepository keeps events in process memory. All reads return deep
// copies so a registration being applied can never leak a half-built
// participant list to a concurrent reader.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.Event
}

func NewEventRepository() repository.EventRepository {
	return &EventRepository{
		events: make(map[string]*domain.Event),
	}
}

func (r *EventRepository) Init(ctx context.Context) error {
	return nil
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events[event.ID] = event.Clone()
	return nil
}

func (r *EventRepository) Get(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return event.Clone(), nil
}

func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, *event.Clone())
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	r.events[event.ID] = event.Clone()
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}
