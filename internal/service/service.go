// Package service holds the blog's business rules: uniqueness checks,
// partial updates, soft deletes and the follow state machine. Handlers call
// into it; it calls into a storage.Store.
package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hongminglow/blog-be/internal/storage"
	"github.com/hongminglow/blog-be/internal/validation"
)

// ErrInvalidCredentials is returned by Authenticate for any login failure.
var ErrInvalidCredentials = errors.New("Invalid username or password.")

// Service is constructed once at start-up and shared by every handler.
type Service struct {
	store     storage.Store
	validator *validation.Validator
	now       func() time.Time
}

// New builds a Service over store with the default validator and a UTC clock.
func New(store storage.Store) *Service {
	return &Service{
		store:     store,
		validator: validation.New(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// parseID maps malformed ids to ErrNotFound, same as absent ones.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, storage.ErrNotFound
	}
	return id, nil
}
