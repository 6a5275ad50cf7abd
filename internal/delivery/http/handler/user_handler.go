package handler

import (
	"context"
	"errors"

	"azellar-portal/internal/delivery/http/dto"
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/session"
	ucauth "azellar-portal/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

type ProfileUsecase interface {
	UpdateProfile(ctx context.Context, st session.State, in ucauth.UpdateProfileInput) (profile.Profile, error)
}

type ProfileReloader interface {
	ReloadProfile(ctx context.Context, st session.State) (session.State, error)
}

// UserHandler serves the caller's own session and profile, as resolved by
// SessionMiddleware from either the cookie or a bearer token.
type UserHandler struct {
	uc       ProfileUsecase
	reloader ProfileReloader
}

func NewUserHandler(uc ProfileUsecase, reloader ProfileReloader) *UserHandler {
	return &UserHandler{uc: uc, reloader: reloader}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Patch("/profile", h.UpdateProfile)
	r.Post("/profile/reload", h.ReloadProfile)
}

// GetMe never fails on a missing session; it reports the anonymous state.
func (h *UserHandler) GetMe(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(stateOf(c)))
}

func (h *UserHandler) UpdateProfile(c fiber.Ctx) error {
	st := stateOf(c)
	if !st.Authenticated || st.User == nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Authentication required", nil, nil)
	}

	var req ucauth.UpdateProfileInput
	if err := bindBody(c, &req); err != nil {
		return err
	}
	if req.FullName == nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, nil)
	}

	p, err := h.uc.UpdateProfile(c.Context(), st, req)
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			return middleware.NewAppError(fiber.StatusNotFound, "Profile not found", nil, err)
		}
		return mapAuthError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", p)
}

func (h *UserHandler) ReloadProfile(c fiber.Ctx) error {
	st := stateOf(c)
	if !st.Authenticated || st.User == nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Authentication required", nil, nil)
	}
	st, err := h.reloader.ReloadProfile(c.Context(), st)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewSessionResponse(st))
}
