package seeder

import (
	"context"

	"azellar-portal/internal/database"
)

// Seeder inserts one kind of sample data. Running it twice leaves the same
// rows behind.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
