package middleware

import (
	"context"
	"strings"
	"time"

	"azellar-portal/internal/config"
	"azellar-portal/internal/session"

	"github.com/gofiber/fiber/v3"
)

const CtxStateKey = "session_state"

// SessionResolver is the read side of session.Store.
type SessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (session.State, error)
	ResolveToken(ctx context.Context, accessToken string) (session.State, error)
}

// SessionMiddleware resolves the caller's session and profile before any
// handler or guard runs. A bearer token wins over the session cookie.
type SessionMiddleware struct {
	store  SessionResolver
	cookie config.SessionConfig
}

func NewSessionMiddleware(store SessionResolver, cookie config.SessionConfig) *SessionMiddleware {
	if cookie.CookieName == "" {
		cookie.CookieName = "azellar_session"
	}
	return &SessionMiddleware{store: store, cookie: cookie}
}

func (m *SessionMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		var (
			st  session.State
			err error
		)
		if token, ok := bearerTokenFromHeader(c.Get("Authorization")); ok {
			st, err = m.store.ResolveToken(c.Context(), token)
		} else if sid := c.Cookies(m.cookie.CookieName); sid != "" {
			st, err = m.store.Resolve(c.Context(), sid)
			if err == nil && !st.Authenticated && !st.Loading {
				m.ClearCookie(c)
			}
		}
		if err != nil {
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}

		c.Locals(CtxStateKey, st)
		return c.Next()
	}
}

// SetCookie binds the browser to sessionID.
func (m *SessionMiddleware) SetCookie(c fiber.Ctx, sessionID string) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.CookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   m.cookie.CookieDomain,
		MaxAge:   int(m.cookie.TTL / time.Second),
		Secure:   m.cookie.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (m *SessionMiddleware) ClearCookie(c fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     m.cookie.CookieName,
		Value:    "",
		Path:     "/",
		Domain:   m.cookie.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   m.cookie.CookieSecure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// SessionID is the cookie value, if any.
func (m *SessionMiddleware) SessionID(c fiber.Ctx) string {
	return c.Cookies(m.cookie.CookieName)
}

// StateFrom returns the state stored by SessionMiddleware.
func StateFrom(c fiber.Ctx) (session.State, bool) {
	st, ok := c.Locals(CtxStateKey).(session.State)
	return st, ok
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
