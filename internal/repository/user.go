package repository

import (
	"context"

	"github.com/pranavarya5/Virtual-Event-Management-Platform/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Emails are expected to arrive already normalized (trimmed, lower-cased).
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
