package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"azellar-portal/internal/domain/profile"
)

func withRole(r profile.Role) *profile.Profile {
	return &profile.Profile{Role: r, IsActive: true}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want Decision
	}{
		{
			name: "loading never decides",
			req:  Request{Loading: true, RequireAuth: true, AllowedRoles: []profile.Role{profile.RoleAdmin}},
			want: Decision{Kind: Loading},
		},
		{
			name: "public route renders while loading",
			req:  Request{Loading: true, From: "/login"},
			want: Decision{Kind: Render},
		},
		{
			name: "authenticated-only route waits while loading",
			req:  Request{Loading: true, Authenticated: true, RequireAuth: true},
			want: Decision{Kind: Loading},
		},
		{
			name: "unauthenticated goes to fallback regardless of roles",
			req:  Request{RequireAuth: true, AllowedRoles: []profile.Role{profile.RoleAdmin}, From: "/admin"},
			want: Decision{Kind: Redirect, RedirectTo: "/login?from=%2Fadmin"},
		},
		{
			name: "custom fallback without origin",
			req:  Request{RequireAuth: true, Fallback: "/signup"},
			want: Decision{Kind: Redirect, RedirectTo: "/signup"},
		},
		{
			name: "fallback with existing query",
			req:  Request{RequireAuth: true, Fallback: "/login?next=1", From: "/support"},
			want: Decision{Kind: Redirect, RedirectTo: "/login?next=1&from=%2Fsupport"},
		},
		{
			name: "public route renders for anonymous",
			req:  Request{RequireAuth: false},
			want: Decision{Kind: Render},
		},
		{
			name: "allowed role renders",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole(profile.RoleClient), AllowedRoles: []profile.Role{profile.RoleAdmin, profile.RoleClient}},
			want: Decision{Kind: Render},
		},
		{
			name: "empty allow-list accepts any role",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole(profile.RoleStudent)},
			want: Decision{Kind: Render},
		},
		{
			name: "student on admin route lands on dashboard",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole(profile.RoleStudent), AllowedRoles: []profile.Role{profile.RoleAdmin}},
			want: Decision{Kind: Redirect, RedirectTo: "/dashboard"},
		},
		{
			name: "client on academy route lands on support",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole(profile.RoleClient), AllowedRoles: []profile.Role{profile.RoleAdmin, profile.RoleStudent}},
			want: Decision{Kind: Redirect, RedirectTo: "/support"},
		},
		{
			name: "admin outside allow-list lands on admin",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole(profile.RoleAdmin), AllowedRoles: []profile.Role{profile.RoleClient}},
			want: Decision{Kind: Redirect, RedirectTo: "/admin"},
		},
		{
			name: "unknown role lands on home",
			req:  Request{Authenticated: true, RequireAuth: true, Profile: withRole("auditor"), AllowedRoles: []profile.Role{profile.RoleAdmin}},
			want: Decision{Kind: Redirect, RedirectTo: "/"},
		},
		{
			name: "missing profile is not denied by roles",
			req:  Request{Authenticated: true, RequireAuth: true, AllowedRoles: []profile.Role{profile.RoleAdmin}},
			want: Decision{Kind: Render},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.req)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Decide(tt.req), "decision must be deterministic")
		})
	}
}

func TestRoutes_AllowLists(t *testing.T) {
	student := withRole(profile.RoleStudent)
	client := withRole(profile.RoleClient)
	admin := withRole(profile.RoleAdmin)

	cases := []struct {
		path string
		prof *profile.Profile
		want Kind
	}{
		{"/admin", admin, Render},
		{"/admin", client, Redirect},
		{"/support", client, Render},
		{"/support", student, Redirect},
		{"/dashboard", student, Render},
		{"/akademy/courses", admin, Render},
		{"/akademy/course/:id", client, Redirect},
	}

	for _, c := range cases {
		got := Decide(PolicyFor(c.path).Request(false, true, c.prof, c.path))
		assert.Equal(t, c.want, got.Kind, "%s as %s", c.path, c.prof.Role)
	}
}

func TestRoutes_PublicPagesIgnoreLoading(t *testing.T) {
	for _, path := range []string{"/", "/contact", "/login", "/signup", "/blog/:id", "/blog/post/:slug"} {
		p, ok := Routes[path]
		assert.True(t, ok, path)
		assert.Equal(t, Render, Decide(p.Request(true, false, nil, path)).Kind, path)
	}
	for _, path := range []string{"/admin", "/support", "/dashboard"} {
		assert.Equal(t, Loading, Decide(Routes[path].Request(true, true, nil, path)).Kind, path)
	}
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows("/admin", withRole(profile.RoleAdmin)))
	assert.False(t, Allows("/admin", withRole(profile.RoleClient)))
	assert.True(t, Allows("/support", withRole(profile.RoleClient)))
	assert.False(t, Allows("/akademy/courses", withRole(profile.RoleClient)))
	assert.True(t, Allows("/akademy/courses", withRole(profile.RoleStudent)))
	assert.False(t, Allows("/admin", nil))
}

func TestPolicyFor_UnknownIsPublic(t *testing.T) {
	p := PolicyFor("/not-declared")
	assert.False(t, p.RequireAuth)
	assert.Empty(t, p.AllowedRoles)

	got := Decide(p.Request(false, false, nil, "/not-declared"))
	assert.Equal(t, Render, got.Kind)
}

func TestLandingPage(t *testing.T) {
	assert.Equal(t, "/admin", LandingPage(profile.RoleAdmin))
	assert.Equal(t, "/support", LandingPage(profile.RoleClient))
	assert.Equal(t, "/dashboard", LandingPage(profile.RoleStudent))
	assert.Equal(t, "/", LandingPage(""))
}
