package session

import (
	"azellar-portal/internal/access"
	"azellar-portal/internal/domain/profile"

	"github.com/google/uuid"
)

// Identity is the subset of the auth platform's user record the portal reads.
type Identity struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	FullName string    `json:"full_name,omitempty"`
}

// State is what one browser session currently knows about its user.
// Loading is true while identity or profile could not be settled yet.
type State struct {
	Loading       bool             `json:"loading"`
	Authenticated bool             `json:"authenticated"`
	SessionID     string           `json:"-"`
	User          *Identity        `json:"user"`
	Profile       *profile.Profile `json:"profile"`
}

func (s State) HasRole(r profile.Role) bool {
	return s.Profile != nil && s.Profile.Role == r
}

func (s State) HasAnyRole(roles ...profile.Role) bool {
	if s.Profile == nil {
		return false
	}
	for _, r := range roles {
		if s.Profile.Role == r {
			return true
		}
	}
	return false
}

func (s State) IsAdmin() bool   { return s.HasRole(profile.RoleAdmin) }
func (s State) IsClient() bool  { return s.HasRole(profile.RoleClient) }
func (s State) IsStudent() bool { return s.HasRole(profile.RoleStudent) }

// The CanAccess helpers read the page allow-lists declared in access.Routes.
func (s State) CanAccessAdmin() bool {
	return s.Authenticated && access.Allows("/admin", s.Profile)
}

func (s State) CanAccessSupport() bool {
	return s.Authenticated && access.Allows("/support", s.Profile)
}

func (s State) CanAccessAcademy() bool {
	return s.Authenticated && access.Allows("/akademy/courses", s.Profile)
}

// UserID is uuid.Nil when unauthenticated.
func (s State) UserID() uuid.UUID {
	if s.User == nil {
		return uuid.Nil
	}
	return s.User.ID
}
