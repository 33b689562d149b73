// Package session keeps the registry of live upload sessions.
package session

import (
	"context"
	"errors"
	"time"

	"portfolioapi/internal/model"
)

// ErrNotFound is returned when no session is registered under an id.
var ErrNotFound = errors.New("session not found")

// Store is the session registry. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, id string) (*model.UploadSession, error)
	Save(ctx context.Context, s *model.UploadSession) error
	Delete(ctx context.Context, id string) error
	// Cleanup drops sessions created before olderThan and returns how many were removed.
	Cleanup(ctx context.Context, olderThan time.Time) (int, error)
}
