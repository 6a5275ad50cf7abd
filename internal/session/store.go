// Package session keeps the authenticated identity and its profile for each
// browser session, backed by the auth platform and the profiles table.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"azellar-portal/internal/domain/profile"
	"azellar-portal/internal/infrastructure/authapi"
	"azellar-portal/internal/pkg/jwt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrWeakPassword           = errors.New("weak password")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAccountDisabled        = errors.New("account disabled")
	ErrNotAuthenticated       = errors.New("not authenticated")
)

// refreshSkew refreshes tokens slightly before they expire.
const refreshSkew = 30 * time.Second

// Provider is the auth platform as seen by the store.
type Provider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (authapi.SignUpResult, error)
	SignInWithPassword(ctx context.Context, email, password string) (authapi.Session, error)
	Refresh(ctx context.Context, refreshToken string) (authapi.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	GetUser(ctx context.Context, accessToken string) (authapi.User, error)
}

type TokenVerifier interface {
	Verify(token string) (jwt.Claims, error)
}

type Options struct {
	TTL       time.Duration
	Verifier  TokenVerifier
	Cache     ProfileCache
	Publisher Publisher
	Logger    *zap.Logger
}

type Store struct {
	provider Provider
	profiles profile.Repository
	sessions Repository

	verifier  TokenVerifier
	cache     ProfileCache
	publisher Publisher
	logger    *zap.Logger
	ttl       time.Duration

	now   func() time.Time
	newID func() string
}

func NewStore(provider Provider, profiles profile.Repository, sessions Repository, opts Options) *Store {
	s := &Store{
		provider:  provider,
		profiles:  profiles,
		sessions:  sessions,
		verifier:  opts.Verifier,
		cache:     opts.Cache,
		publisher: opts.Publisher,
		logger:    opts.Logger,
		ttl:       opts.TTL,
		now:       time.Now,
		newID:     newSessionID,
	}
	if s.cache == nil {
		s.cache = nopProfileCache{}
	}
	if s.publisher == nil {
		s.publisher = nopPublisher{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ttl <= 0 {
		s.ttl = 7 * 24 * time.Hour
	}
	return s
}

func newSessionID() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// SignUpResult.State is authenticated only when the platform opened a session
// right away (email confirmation disabled).
type SignUpResult struct {
	State             State
	NeedsConfirmation bool
}

func (s *Store) SignUp(ctx context.Context, in SignUpInput) (SignUpResult, error) {
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.FullName)

	var meta map[string]any
	if name != "" {
		meta = map[string]any{"full_name": name}
	}

	res, err := s.provider.SignUp(ctx, email, in.Password, meta)
	if err != nil {
		return SignUpResult{}, mapProviderError(err)
	}

	user := res.User
	if res.Session != nil && user.ID == uuid.Nil {
		user = res.Session.User
	}
	if user.ID == uuid.Nil {
		return SignUpResult{NeedsConfirmation: true}, nil
	}

	p, _, err := s.profiles.EnsureDefault(ctx, profile.Seed{
		UserID:   user.ID,
		Email:    email,
		FullName: name,
		Role:     profile.DefaultRole,
	})
	if err != nil {
		// Created lazily at first sign-in instead.
		s.logger.Warn("profile creation after sign-up failed", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		s.cache.Set(ctx, p)
	}

	if res.Session == nil || res.Session.AccessToken == "" {
		return SignUpResult{NeedsConfirmation: true}, nil
	}

	st, err := s.open(ctx, *res.Session, user)
	if err != nil {
		return SignUpResult{}, err
	}
	return SignUpResult{State: st}, nil
}

func (s *Store) SignIn(ctx context.Context, email, password string) (State, error) {
	sess, err := s.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return State{}, mapProviderError(err)
	}
	return s.open(ctx, sess, sess.User)
}

// open loads or creates the profile before the session is persisted, so a
// session never exists without its profile.
func (s *Store) open(ctx context.Context, sess authapi.Session, user authapi.User) (State, error) {
	ident := &Identity{ID: user.ID, Email: user.Email, FullName: user.FullName()}

	p, err := s.loadProfile(ctx, ident)
	if err != nil {
		return State{}, err
	}
	if !p.IsActive {
		if err := s.provider.SignOut(ctx, sess.AccessToken); err != nil {
			s.logger.Warn("revoke disabled account session failed", zap.Error(err))
		}
		return State{}, ErrAccountDisabled
	}

	now := s.now()
	rec := Record{
		ID:           s.newID(),
		UserID:       user.ID,
		Email:        user.Email,
		FullName:     ident.FullName,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresAt:    sess.Expiry(now),
		CreatedAt:    now.UTC(),
	}
	if err := s.sessions.Save(ctx, rec, s.ttl); err != nil {
		return State{}, err
	}

	s.publisher.Publish(newEvent(EventSignedIn, rec.ID, user.ID, now))
	s.logger.Info("signed in", zap.String("user_id", user.ID.String()), zap.String("role", p.Role.String()))

	return State{Authenticated: true, SessionID: rec.ID, User: ident, Profile: &p}, nil
}

// SignOut is idempotent; an unknown session is already signed out.
func (s *Store) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	if err := s.provider.SignOut(ctx, rec.AccessToken); err != nil {
		s.logger.Warn("provider sign-out failed", zap.String("user_id", rec.UserID.String()), zap.Error(err))
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, rec.UserID)
	s.publisher.Publish(newEvent(EventSignedOut, sessionID, rec.UserID, s.now()))
	return nil
}

// UpdateProfile only ever touches the profile owned by the resolved identity,
// whether st came from the session cookie or a bearer token.
func (s *Store) UpdateProfile(ctx context.Context, st State, u profile.Update) (profile.Profile, error) {
	if !st.Authenticated || st.User == nil {
		return profile.Profile{}, ErrNotAuthenticated
	}
	if u.FullName != nil {
		trimmed := strings.TrimSpace(*u.FullName)
		u.FullName = &trimmed
	}
	if u.Empty() {
		if st.Profile != nil {
			return *st.Profile, nil
		}
		return profile.Profile{}, profile.ErrNotFound
	}

	p, err := s.profiles.UpdateSelf(ctx, st.User.ID, u)
	if err != nil {
		return profile.Profile{}, err
	}
	s.cache.Set(ctx, p)
	s.publisher.Publish(newEvent(EventUserUpdated, st.SessionID, st.User.ID, s.now()))
	return p, nil
}

// Resolve returns the current state for sessionID. Transient failures while
// checking the token or loading the profile yield Loading instead of an error.
func (s *Store) Resolve(ctx context.Context, sessionID string) (State, error) {
	if sessionID == "" {
		return State{}, nil
	}

	rec, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return State{}, nil
		}
		s.logger.Warn("session lookup failed", zap.Error(err))
		return State{Loading: true, SessionID: sessionID}, nil
	}

	rec, err = s.ensureFresh(ctx, rec)
	if err != nil {
		if errors.Is(err, errSessionRevoked) {
			_ = s.sessions.Delete(ctx, sessionID)
			s.publisher.Publish(newEvent(EventSignedOut, sessionID, rec.UserID, s.now()))
			return State{}, nil
		}
		s.logger.Warn("session token check failed", zap.String("user_id", rec.UserID.String()), zap.Error(err))
		return State{Loading: true, Authenticated: true, SessionID: sessionID, User: rec.identity()}, nil
	}

	ident := rec.identity()
	p, err := s.loadProfile(ctx, ident)
	if err != nil {
		s.logger.Warn("profile load failed", zap.String("user_id", rec.UserID.String()), zap.Error(err))
		return State{Loading: true, Authenticated: true, SessionID: sessionID, User: ident}, nil
	}
	if !p.IsActive {
		_ = s.SignOut(ctx, sessionID)
		return State{}, nil
	}

	return State{Authenticated: true, SessionID: sessionID, User: ident, Profile: &p}, nil
}

// ReloadProfile drops the cached profile of st's identity and loads it again.
func (s *Store) ReloadProfile(ctx context.Context, st State) (State, error) {
	if !st.Authenticated || st.User == nil {
		return State{}, nil
	}
	s.cache.Invalidate(ctx, st.User.ID)
	if st.SessionID != "" {
		return s.Resolve(ctx, st.SessionID)
	}

	p, err := s.loadProfile(ctx, st.User)
	if err != nil {
		s.logger.Warn("profile load failed", zap.String("user_id", st.User.ID.String()), zap.Error(err))
		return State{Loading: true, Authenticated: true, User: st.User}, nil
	}
	if !p.IsActive {
		return State{}, nil
	}
	return State{Authenticated: true, User: st.User, Profile: &p}, nil
}

// ResolveToken resolves a bearer access token without a server-side session.
// Expired tokens are not refreshed; the caller holds the refresh token.
func (s *Store) ResolveToken(ctx context.Context, accessToken string) (State, error) {
	ident, err := s.identify(ctx, accessToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, jwt.ErrTokenInvalid) || errors.Is(err, authapi.ErrInvalidToken) {
			return State{}, nil
		}
		return State{Loading: true}, nil
	}

	p, err := s.loadProfile(ctx, ident)
	if err != nil {
		s.logger.Warn("profile load failed", zap.String("user_id", ident.ID.String()), zap.Error(err))
		return State{Loading: true, Authenticated: true, User: ident}, nil
	}
	if !p.IsActive {
		return State{}, nil
	}
	return State{Authenticated: true, User: ident, Profile: &p}, nil
}

var errSessionRevoked = errors.New("session revoked")

func (s *Store) ensureFresh(ctx context.Context, rec Record) (Record, error) {
	now := s.now()
	if !rec.ExpiresAt.IsZero() && !now.Add(refreshSkew).Before(rec.ExpiresAt) {
		return s.refresh(ctx, rec)
	}

	if _, err := s.identify(ctx, rec.AccessToken); err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, authapi.ErrInvalidToken) {
			return s.refresh(ctx, rec)
		}
		if errors.Is(err, jwt.ErrTokenInvalid) {
			return rec, errSessionRevoked
		}
		return rec, err
	}
	return rec, nil
}

func (s *Store) refresh(ctx context.Context, rec Record) (Record, error) {
	if rec.RefreshToken == "" {
		return rec, errSessionRevoked
	}
	sess, err := s.provider.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		var apiErr *authapi.APIError
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return rec, errSessionRevoked
		}
		return rec, err
	}

	now := s.now()
	rec.AccessToken = sess.AccessToken
	if sess.RefreshToken != "" {
		rec.RefreshToken = sess.RefreshToken
	}
	rec.ExpiresAt = sess.Expiry(now)
	if err := s.sessions.Save(ctx, rec, s.ttl); err != nil {
		return rec, err
	}
	s.publisher.Publish(newEvent(EventTokenRefreshed, rec.ID, rec.UserID, now))
	return rec, nil
}

// identify checks an access token locally when a verifier is configured and
// asks the platform otherwise.
func (s *Store) identify(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, jwt.ErrTokenInvalid
	}
	if s.verifier != nil {
		c, err := s.verifier.Verify(accessToken)
		if err != nil {
			return nil, err
		}
		id, err := c.UserID()
		if err != nil {
			return nil, err
		}
		return &Identity{ID: id, Email: c.Email, FullName: c.FullName()}, nil
	}

	u, err := s.provider.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: u.ID, Email: u.Email, FullName: u.FullName()}, nil
}

// loadProfile returns the cached profile or creates the default one.
func (s *Store) loadProfile(ctx context.Context, ident *Identity) (profile.Profile, error) {
	if p, ok := s.cache.Get(ctx, ident.ID); ok {
		return p, nil
	}
	p, created, err := s.profiles.EnsureDefault(ctx, profile.Seed{
		UserID:   ident.ID,
		Email:    ident.Email,
		FullName: ident.FullName,
		Role:     profile.DefaultRole,
	})
	if err != nil {
		return profile.Profile{}, err
	}
	if created {
		s.logger.Info("profile created", zap.String("user_id", ident.ID.String()), zap.String("role", p.Role.String()))
	}
	s.cache.Set(ctx, p)
	return p, nil
}

func mapProviderError(err error) error {
	switch {
	case errors.Is(err, authapi.ErrUserAlreadyExists):
		return ErrEmailAlreadyRegistered
	case errors.Is(err, authapi.ErrInvalidEmail):
		return ErrInvalidEmail
	case errors.Is(err, authapi.ErrWeakPassword):
		return ErrWeakPassword
	case errors.Is(err, authapi.ErrInvalidCredentials):
		return ErrInvalidCredentials
	default:
		return err
	}
}
