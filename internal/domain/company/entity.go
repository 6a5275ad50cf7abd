package company

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultMaxSupportUsers = 5

var (
	ErrNotFound         = errors.New("company not found")
	ErrNameTaken        = errors.New("company name already exists")
	ErrSeatLimitReached = errors.New("company support user limit reached")
	ErrCompanyInactive  = errors.New("company inactive")
)

type Company struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	Address             string     `json:"address"`
	MaxSupportUsers     int        `json:"max_support_users"`
	CurrentSupportUsers int        `json:"current_support_users"`
	IsActive            bool       `json:"is_active"`
	CreatedBy           *uuid.UUID `json:"created_by"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// SeatsLeft is never negative.
func (c Company) SeatsLeft() int {
	n := c.MaxSupportUsers - c.CurrentSupportUsers
	if n < 0 {
		return 0
	}
	return n
}

type NewCompany struct {
	Name            string
	Email           string
	Phone           string
	Address         string
	MaxSupportUsers int
	CreatedBy       *uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, in NewCompany) (Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (Company, error)
	List(ctx context.Context) ([]Company, error)
	UpsertByName(ctx context.Context, in NewCompany) (Company, error)
	// ReserveSeat increments current_support_users only while below the limit.
	ReserveSeat(ctx context.Context, id uuid.UUID) error
	ReleaseSeat(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
