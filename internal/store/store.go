// Package store persists user accounts and account events. Each backend
// (MongoDB, SQLite) implements the same interfaces.
package store

import (
	"context"
	"errors"

	"github.com/isdelr/account-api/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserStore persists user records. Email is unique across all users.
type UserStore interface {
	// Create inserts the user and sets its generated ID.
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfile(ctx context.Context, id string, profile models.Profile) error
}

// EventStore persists the account activity log.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	RecentEvents(ctx context.Context, userID string, limit int) ([]models.Event, error)
}
