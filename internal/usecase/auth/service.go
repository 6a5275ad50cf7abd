package auth

import (
	"context"
	"strings"

	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/pkg/validation"
	"azellar-portal/internal/session"
)

const (
	MessageAccountCreated     = "Account created successfully! You are now logged in."
	MessageConfirmationNeeded = "Account created! Please check your email to confirm your account before signing in."
)

// SessionStore is the part of session.Store the auth flows drive.
type SessionStore interface {
	SignUp(ctx context.Context, in session.SignUpInput) (session.SignUpResult, error)
	SignIn(ctx context.Context, email, password string) (session.State, error)
	SignOut(ctx context.Context, sessionID string) error
	UpdateProfile(ctx context.Context, st session.State, u profile.Update) (profile.Profile, error)
}

type SignUpInput struct {
	FullName        string `json:"full_name" validate:"required,max=200"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignUpOutcome struct {
	State             session.State
	NeedsConfirmation bool
	Message           string
}

type Service struct {
	store SessionStore
}

func NewService(store SessionStore) *Service {
	return &Service{store: store}
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (SignUpOutcome, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = normalizeEmail(in.Email)
	if err := validation.Struct(in); err != nil {
		return SignUpOutcome{}, err
	}
	if in.ConfirmPassword != "" && in.Password != in.ConfirmPassword {
		return SignUpOutcome{}, validation.Field("confirm_password", "Passwords do not match")
	}
	if !isValidPassword(in.Password) {
		return SignUpOutcome{}, validation.Field("password", "Password must be at least 8 characters long")
	}

	res, err := s.store.SignUp(ctx, session.SignUpInput{Email: in.Email, Password: in.Password, FullName: in.FullName})
	if err != nil {
		return SignUpOutcome{}, err
	}
	if res.NeedsConfirmation {
		return SignUpOutcome{NeedsConfirmation: true, Message: MessageConfirmationNeeded}, nil
	}
	return SignUpOutcome{State: res.State, Message: MessageAccountCreated}, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (session.State, error) {
	in.Email = normalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return session.State{}, session.ErrInvalidCredentials
	}
	return s.store.SignIn(ctx, in.Email, in.Password)
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.SignOut(ctx, sessionID)
}

type UpdateProfileInput struct {
	FullName *string `json:"full_name" validate:"omitempty,max=200"`
}

func (s *Service) UpdateProfile(ctx context.Context, st session.State, in UpdateProfileInput) (profile.Profile, error) {
	if err := validation.Struct(in); err != nil {
		return profile.Profile{}, err
	}
	if in.FullName != nil && strings.TrimSpace(*in.FullName) == "" {
		return profile.Profile{}, validation.Field("full_name", "full_name is required")
	}
	return s.store.UpdateProfile(ctx, st, profile.Update{FullName: in.FullName})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= 8
}
