package handler

import (
	"context"
	"errors"

	"azellar-portal/internal/access"
	"azellar-portal/internal/delivery/http/dto"
	"azellar-portal/internal/delivery/http/middleware"
	"azellar-portal/internal/pkg/response"
	"azellar-portal/internal/pkg/validation"
	"azellar-portal/internal/session"
	ucauth "azellar-portal/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

const (
	MessageEmailAlreadyRegistered = "This email is already registered. Please try signing in instead."
	MessageInvalidEmail           = "Please enter a valid email address."
	MessageWeakPassword           = "Password is too weak. Please choose a stronger password."
	MessageInvalidCredentials     = "Invalid email or password"
	MessageAccountDisabled        = "This account has been deactivated. Please contact support."
)

type AuthUsecase interface {
	SignUp(ctx context.Context, in ucauth.SignUpInput) (ucauth.SignUpOutcome, error)
	Login(ctx context.Context, in ucauth.LoginInput) (session.State, error)
	Logout(ctx context.Context, sessionID string) error
}

type AuthHandler struct {
	uc       AuthUsecase
	sessions *middleware.SessionMiddleware
}

func NewAuthHandler(uc AuthUsecase, sessions *middleware.SessionMiddleware) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/signup", h.SignUp)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)
}

func (h *AuthHandler) SignUp(c fiber.Ctx) error {
	var req ucauth.SignUpInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	out, err := h.uc.SignUp(c.Context(), req)
	if err != nil {
		return mapAuthError(err)
	}
	if out.State.Authenticated && out.State.SessionID != "" {
		h.sessions.SetCookie(c, out.State.SessionID)
	}

	return response.Success(c, fiber.StatusCreated, out.Message, dto.SignUpResponse{
		Session:           dto.NewSessionResponse(out.State),
		NeedsConfirmation: out.NeedsConfirmation,
	})
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req ucauth.LoginInput
	if err := bindBody(c, &req); err != nil {
		return err
	}

	st, err := h.uc.Login(c.Context(), req)
	if err != nil {
		return mapAuthError(err)
	}
	h.sessions.SetCookie(c, st.SessionID)

	res := dto.NewSessionResponse(st)
	if from := c.Query("from"); isLocalPath(from) {
		res.LandingPage = from
	}
	return response.Success(c, fiber.StatusOK, "Signed in", res)
}

func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if err := h.uc.Logout(c.Context(), h.sessions.SessionID(c)); err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	h.sessions.ClearCookie(c)
	return response.Success(c, fiber.StatusOK, "Signed out", fiber.Map{"redirect_to": access.DefaultFallback})
}

// isLocalPath accepts only same-site absolute paths as a post-login target.
func isLocalPath(p string) bool {
	return len(p) > 0 && p[0] == '/' && (len(p) == 1 || (p[1] != '/' && p[1] != '\\'))
}

func mapAuthError(err error) error {
	if err == nil {
		return nil
	}
	if validation.IsValidationError(err) {
		return err
	}

	switch {
	case errors.Is(err, session.ErrEmailAlreadyRegistered):
		return middleware.NewAppError(fiber.StatusConflict, MessageEmailAlreadyRegistered, nil, err)
	case errors.Is(err, session.ErrInvalidEmail):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, MessageInvalidEmail, nil, err)
	case errors.Is(err, session.ErrWeakPassword):
		return middleware.NewAppError(fiber.StatusUnprocessableEntity, MessageWeakPassword, nil, err)
	case errors.Is(err, session.ErrInvalidCredentials):
		return middleware.NewAppError(fiber.StatusUnauthorized, MessageInvalidCredentials, nil, err)
	case errors.Is(err, session.ErrAccountDisabled):
		return middleware.NewAppError(fiber.StatusForbidden, MessageAccountDisabled, nil, err)
	case errors.Is(err, session.ErrNotAuthenticated):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Authentication required", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
