package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the fields the auth platform puts in its access tokens.
type Claims struct {
	Email        string         `json:"email,omitempty"`
	Role         string         `json:"role,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`

	jwtlib.RegisteredClaims
}

func (c Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// FullName reads user_metadata.full_name when present.
func (c Claims) FullName() string {
	if c.UserMetadata == nil {
		return ""
	}
	s, _ := c.UserMetadata["full_name"].(string)
	return s
}

type Verifier interface {
	Verify(tokenString string) (Claims, error)
}

// HMACVerifier checks HS256 tokens signed with the platform's JWT secret.
type HMACVerifier struct {
	secret   []byte
	audience string
	leeway   time.Duration

	now func() time.Time
}

func NewHMACVerifier(secret, audience string) *HMACVerifier {
	return &HMACVerifier{
		secret:   []byte(secret),
		audience: audience,
		leeway:   5 * time.Second,
		now:      time.Now,
	}
}

func (v *HMACVerifier) Verify(tokenString string) (Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(v.leeway),
		jwtlib.WithTimeFunc(v.now),
	}
	if v.audience != "" {
		opts = append(opts, jwtlib.WithAudience(v.audience))
	}
	p := jwtlib.NewParser(opts...)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if _, err := c.UserID(); err != nil {
		return Claims{}, err
	}

	return c, nil
}

// Sign issues a token with the verifier's secret. The platform issues real
// tokens; this exists for tests and local tooling.
func (v *HMACVerifier) Sign(c Claims) (string, error) {
	if v == nil || len(v.secret) == 0 {
		return "", ErrTokenInvalid
	}
	t := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c)
	return t.SignedString(v.secret)
}
