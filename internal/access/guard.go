// Package access decides whether a request may render a role-gated route.
//
// Decide is a pure function of its inputs; callers resolve the session and
// profile first and translate the Decision into a response.
package access

import (
	"net/url"
	"strings"

	"azellar-portal/internal/domain/profile"
)

type Kind int

const (
	// Loading means session or profile resolution is still in flight.
	Loading Kind = iota
	Render
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

const DefaultFallback = "/login"

type Decision struct {
	Kind       Kind
	RedirectTo string
}

type Request struct {
	Loading       bool
	Authenticated bool
	Profile       *profile.Profile

	// AllowedRoles empty means any authenticated role.
	AllowedRoles []profile.Role
	RequireAuth  bool
	Fallback     string

	// From is the originally requested location, carried to the fallback.
	From string
}

// Decide renders ungated routes even while the session is unsettled.
func Decide(req Request) Decision {
	if req.Loading && req.gated() {
		return Decision{Kind: Loading}
	}

	if req.RequireAuth && !req.Authenticated {
		return Decision{Kind: Redirect, RedirectTo: fallbackURL(req.Fallback, req.From)}
	}

	if len(req.AllowedRoles) > 0 && req.Profile != nil && !roleAllowed(req.Profile.Role, req.AllowedRoles) {
		return Decision{Kind: Redirect, RedirectTo: LandingPage(req.Profile.Role)}
	}

	return Decision{Kind: Render}
}

func (r Request) gated() bool {
	return r.RequireAuth || len(r.AllowedRoles) > 0
}

// LandingPage is where a role is sent when it hits a route it cannot view.
func LandingPage(role profile.Role) string {
	switch role {
	case profile.RoleAdmin:
		return "/admin"
	case profile.RoleClient:
		return "/support"
	case profile.RoleStudent:
		return "/dashboard"
	default:
		return "/"
	}
}

func roleAllowed(role profile.Role, allowed []profile.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

func fallbackURL(fallback, from string) string {
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = DefaultFallback
	}
	from = strings.TrimSpace(from)
	if from == "" || from == fallback {
		return fallback
	}

	sep := "?"
	if strings.Contains(fallback, "?") {
		sep = "&"
	}
	return fallback + sep + "from=" + url.QueryEscape(from)
}
