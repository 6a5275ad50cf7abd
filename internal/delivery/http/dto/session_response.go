package dto

import (
	"azellar-portal/internal/access"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/session"
)

type PermissionsResponse struct {
	IsAdmin          bool `json:"is_admin"`
	IsClient         bool `json:"is_client"`
	IsStudent        bool `json:"is_student"`
	CanAccessAdmin   bool `json:"can_access_admin"`
	CanAccessSupport bool `json:"can_access_support"`
	CanAccessAcademy bool `json:"can_access_academy"`
}

type SessionResponse struct {
	Loading       bool                `json:"loading"`
	Authenticated bool                `json:"authenticated"`
	User          *session.Identity   `json:"user"`
	Profile       *profile.Profile    `json:"profile"`
	Permissions   PermissionsResponse `json:"permissions"`
	LandingPage   string              `json:"landing_page,omitempty"`
}

func NewSessionResponse(st session.State) SessionResponse {
	res := SessionResponse{
		Loading:       st.Loading,
		Authenticated: st.Authenticated,
		User:          st.User,
		Profile:       st.Profile,
		Permissions: PermissionsResponse{
			IsAdmin:          st.IsAdmin(),
			IsClient:         st.IsClient(),
			IsStudent:        st.IsStudent(),
			CanAccessAdmin:   st.CanAccessAdmin(),
			CanAccessSupport: st.CanAccessSupport(),
			CanAccessAcademy: st.CanAccessAcademy(),
		},
	}
	if st.Profile != nil {
		res.LandingPage = access.LandingPage(st.Profile.Role)
	}
	return res
}

type SignUpResponse struct {
	Session           SessionResponse `json:"session"`
	NeedsConfirmation bool            `json:"needs_confirmation"`
}
