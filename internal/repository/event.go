package repository

import (
	"context"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
)

// EventRepository exposes persistence operations for Event aggregates.
// Implementations must return copies; a stored event is never aliased by
// what callers receive, so concurrent readers cannot observe a mutation
// in progress.
type EventRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, event *domain.Event) error
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}
