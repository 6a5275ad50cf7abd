package access

import "azellar-portal/internal/domain/profile"

// Policy is the access rule attached to one route.
type Policy struct {
	AllowedRoles []profile.Role
	RequireAuth  bool
	Fallback     string
}

// Require builds an authenticated policy limited to roles.
func Require(roles ...profile.Role) Policy {
	return Policy{AllowedRoles: roles, RequireAuth: true, Fallback: DefaultFallback}
}

func Public() Policy {
	return Policy{}
}

// Request fills the policy part of a guard request.
func (p Policy) Request(loading, authenticated bool, prof *profile.Profile, from string) Request {
	return Request{
		Loading:       loading,
		Authenticated: authenticated,
		Profile:       prof,
		AllowedRoles:  p.AllowedRoles,
		RequireAuth:   p.RequireAuth,
		Fallback:      p.Fallback,
		From:          from,
	}
}

var (
	AdminOnly     = Require(profile.RoleAdmin)
	SupportRoles  = Require(profile.RoleAdmin, profile.RoleClient)
	AcademyRoles  = Require(profile.RoleAdmin, profile.RoleStudent)
	Authenticated = Require()
)

// Routes is the single declaration of each page's allow-list.
var Routes = map[string]Policy{
	"/admin":              AdminOnly,
	"/support":            SupportRoles,
	"/dashboard":          AcademyRoles,
	"/akademy/courses":    AcademyRoles,
	"/akademy/course/:id": AcademyRoles,

	"/":                Public(),
	"/about":           Public(),
	"/services":        Public(),
	"/academy":         Public(),
	"/contact":         Public(),
	"/faq":             Public(),
	"/blog":            Public(),
	"/blog/:id":        Public(),
	"/blog/post/:slug": Public(),
	"/support/inquiry": Public(),
	"/login":           Public(),
	"/signup":          Public(),
}

// PolicyFor returns the declared policy; unknown paths are public.
func PolicyFor(path string) Policy {
	if p, ok := Routes[path]; ok {
		return p
	}
	return Public()
}

// Allows reports whether a settled, signed-in profile may render path.
func Allows(path string, prof *profile.Profile) bool {
	if prof == nil {
		return false
	}
	return Decide(PolicyFor(path).Request(false, true, prof, path)).Kind == Render
}
