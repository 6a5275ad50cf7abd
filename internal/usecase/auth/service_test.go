package auth

import (
	"context"
	"errors"
	"testing"

	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/pkg/validation"
	"azellar-portal/internal/session"
)

type fakeStore struct {
	signUps  []session.SignUpInput
	signUp   session.SignUpResult
	err      error
	lastName *string
}

func (f *fakeStore) SignUp(_ context.Context, in session.SignUpInput) (session.SignUpResult, error) {
	f.signUps = append(f.signUps, in)
	return f.signUp, f.err
}

func (f *fakeStore) SignIn(_ context.Context, email, _ string) (session.State, error) {
	if email != "jane@azellar.com" {
		return session.State{}, session.ErrInvalidCredentials
	}
	return session.State{Authenticated: true, SessionID: "s1"}, nil
}

func (f *fakeStore) SignOut(context.Context, string) error { return nil }

func (f *fakeStore) UpdateProfile(_ context.Context, _ session.State, u profile.Update) (profile.Profile, error) {
	f.lastName = u.FullName
	return profile.Profile{FullName: *u.FullName}, nil
}

func TestSignUp_FormChecks(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	_, err := svc.SignUp(context.Background(), SignUpInput{FullName: "Jane", Email: "jane@azellar.com", Password: "Password123!", ConfirmPassword: "Password123?"})
	var verr *validation.Error
	if !errors.As(err, &verr) || verr.Message != "Passwords do not match" {
		t.Fatalf("expected mismatch error, got %v", err)
	}

	_, err = svc.SignUp(context.Background(), SignUpInput{FullName: "Jane", Email: "jane@azellar.com", Password: "short", ConfirmPassword: "short"})
	if !errors.As(err, &verr) || verr.Message != "Password must be at least 8 characters long" {
		t.Fatalf("expected length error, got %v", err)
	}

	_, err = svc.SignUp(context.Background(), SignUpInput{FullName: "Jane", Email: "jane", Password: "Password123!"})
	if !errors.As(err, &verr) || verr.Message != "Please enter a valid email address." {
		t.Fatalf("expected email error, got %v", err)
	}

	if len(store.signUps) != 0 {
		t.Fatalf("invalid forms must not reach the store")
	}
}

func TestSignUp_Outcomes(t *testing.T) {
	store := &fakeStore{signUp: session.SignUpResult{NeedsConfirmation: true}}
	svc := NewService(store)

	out, err := svc.SignUp(context.Background(), SignUpInput{FullName: " Jane ", Email: " Jane@Azellar.com ", Password: "Password123!", ConfirmPassword: "Password123!"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if !out.NeedsConfirmation || out.Message != MessageConfirmationNeeded {
		t.Fatalf("unexpected outcome %#v", out)
	}
	if store.signUps[0].Email != "jane@azellar.com" || store.signUps[0].FullName != "Jane" {
		t.Fatalf("input not normalized: %#v", store.signUps[0])
	}

	store.signUp = session.SignUpResult{State: session.State{Authenticated: true, SessionID: "s2"}}
	out, err = svc.SignUp(context.Background(), SignUpInput{FullName: "Jane", Email: "jane2@azellar.com", Password: "Password123!"})
	if err != nil || out.Message != MessageAccountCreated || out.State.SessionID != "s2" {
		t.Fatalf("unexpected outcome %#v err=%v", out, err)
	}

	store.err = session.ErrEmailAlreadyRegistered
	if _, err := svc.SignUp(context.Background(), SignUpInput{FullName: "Jane", Email: "jane@azellar.com", Password: "Password123!"}); !errors.Is(err, session.ErrEmailAlreadyRegistered) {
		t.Fatalf("expected ErrEmailAlreadyRegistered, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := NewService(&fakeStore{})

	if _, err := svc.Login(context.Background(), LoginInput{Email: "", Password: "x"}); !errors.Is(err, session.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	st, err := svc.Login(context.Background(), LoginInput{Email: "JANE@azellar.com", Password: "Password123!"})
	if err != nil || !st.Authenticated {
		t.Fatalf("login: %#v %v", st, err)
	}
}

func TestUpdateProfile_RejectsBlankName(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	blank := "   "
	if _, err := svc.UpdateProfile(context.Background(), session.State{Authenticated: true, SessionID: "s1"}, UpdateProfileInput{FullName: &blank}); !validation.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	name := "Jane Doe"
	p, err := svc.UpdateProfile(context.Background(), session.State{Authenticated: true, SessionID: "s1"}, UpdateProfileInput{FullName: &name})
	if err != nil || p.FullName != "Jane Doe" {
		t.Fatalf("update: %#v %v", p, err)
	}
}
