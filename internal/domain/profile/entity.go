package profile

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleClient  Role = "client"
	RoleStudent Role = "student"
)

// DefaultRole is assigned to every profile created implicitly at sign-in or sign-up.
const DefaultRole = RoleStudent

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleStudent:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

// ParseRole normalizes raw input; ok is false for anything outside the enum.
func ParseRole(raw string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	return r, r.Valid()
}

type Profile struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      Role       `json:"role"`
	CompanyID *uuid.UUID `json:"company_id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Update holds the self-service fields a user may change on their own profile.
type Update struct {
	FullName *string
}

func (u Update) Empty() bool {
	return u.FullName == nil
}

// Assignment is an admin change to role, company binding or activation.
type Assignment struct {
	Role         *Role
	CompanyID    *uuid.UUID
	ClearCompany bool
	IsActive     *bool
}

// Seed describes a profile to create when none exists for the user.
type Seed struct {
	UserID    uuid.UUID
	Email     string
	FullName  string
	Role      Role
	CompanyID *uuid.UUID
}
