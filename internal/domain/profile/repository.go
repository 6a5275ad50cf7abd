package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("profile not found")

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// EnsureDefault inserts the seed when no profile exists for seed.UserID and
	// returns the stored row. created is false when the row was already there.
	EnsureDefault(ctx context.Context, seed Seed) (p Profile, created bool, err error)
	// Upsert writes role, company and name for seed.UserID, creating the row if needed.
	Upsert(ctx context.Context, seed Seed) (Profile, error)
	UpdateSelf(ctx context.Context, userID uuid.UUID, u Update) (Profile, error)
	Assign(ctx context.Context, userID uuid.UUID, a Assignment) (Profile, error)
	List(ctx context.Context) ([]Profile, error)
}
