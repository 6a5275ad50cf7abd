// Package authapi talks to the managed backend's GoTrue-compatible auth REST API.
package authapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"azellar-portal/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type User struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}

// FullName reads user_metadata.full_name when present.
func (u User) FullName() string {
	s, _ := u.UserMetadata["full_name"].(string)
	return strings.TrimSpace(s)
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expiry prefers expires_at and falls back to issued time plus expires_in.
func (s Session) Expiry(issued time.Time) time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0).UTC()
	}
	if s.ExpiresIn > 0 {
		return issued.Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}
	return time.Time{}
}

// SignUpResult carries the created user and, when email confirmation is
// disabled on the platform, an already open session.
type SignUpResult struct {
	User    User
	Session *Session
}

type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	client         *http.Client
	logger         *zap.Logger
}

func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.URL), "/"),
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		client:         &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

type signUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data,omitempty"`
}

// signUpResponse covers both shapes the platform returns: a session when
// confirmation is off, a bare user otherwise.
type signUpResponse struct {
	Session
	ID               uuid.UUID          `json:"id"`
	Email            string             `json:"email"`
	EmailConfirmedAt *time.Time         `json:"email_confirmed_at,omitempty"`
	UserMetadata     map[string]any     `json:"user_metadata,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	Identities       *[]json.RawMessage `json:"identities"`
}

// obfuscated reports the fake user the platform returns, with confirmation
// on, for an email that is already registered: no session and an empty
// identities list.
func (r signUpResponse) obfuscated() bool {
	return r.AccessToken == "" && r.Identities != nil && len(*r.Identities) == 0
}

func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (SignUpResult, error) {
	var out signUpResponse
	err := c.do(ctx, http.MethodPost, "/auth/v1/signup", nil, c.anonKey, "", signUpRequest{
		Email:    email,
		Password: password,
		Data:     metadata,
	}, &out)
	if err != nil {
		return SignUpResult{}, err
	}

	if out.obfuscated() {
		c.logger.Debug("sign-up answered with obfuscated user")
		return SignUpResult{}, &APIError{Status: http.StatusUnprocessableEntity, Code: "user_already_exists", Message: "User already registered"}
	}
	if out.AccessToken != "" {
		s := out.Session
		return SignUpResult{User: s.User, Session: &s}, nil
	}
	return SignUpResult{User: User{
		ID:               out.ID,
		Email:            out.Email,
		EmailConfirmedAt: out.EmailConfirmedAt,
		UserMetadata:     out.UserMetadata,
		CreatedAt:        out.CreatedAt,
	}}, nil
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	var out Session
	q := url.Values{"grant_type": {"password"}}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, c.anonKey, "", passwordGrantRequest{Email: email, Password: password}, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

type refreshGrantRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (c *Client) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	var out Session
	q := url.Values{"grant_type": {"refresh_token"}}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token", q, c.anonKey, "", refreshGrantRequest{RefreshToken: refreshToken}, &out); err != nil {
		return Session{}, err
	}
	return out, nil
}

func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, c.anonKey, accessToken, nil, nil)
}

func (c *Client) GetUser(ctx context.Context, accessToken string) (User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, c.anonKey, accessToken, nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}

type adminCreateUserRequest struct {
	Email        string         `json:"email"`
	Password     string         `json:"password"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// ErrServiceRoleRequired is returned by admin calls when no service-role key is configured.
var ErrServiceRoleRequired = errors.New("auth admin api requires a service role key")

// AdminCreateUser creates a confirmed user with the service-role key.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, metadata map[string]any) (User, error) {
	if strings.TrimSpace(c.serviceRoleKey) == "" {
		return User{}, ErrServiceRoleRequired
	}
	var out User
	err := c.do(ctx, http.MethodPost, "/auth/v1/admin/users", nil, c.serviceRoleKey, c.serviceRoleKey, adminCreateUserRequest{
		Email:        email,
		Password:     password,
		EmailConfirm: true,
		UserMetadata: metadata,
	}, &out)
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, apiKey, bearer string, body any, out any) error {
	if c == nil || c.client == nil {
		return errors.New("nil auth client")
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", apiKey)
	if bearer == "" {
		bearer = apiKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth api %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := parseAPIError(resp.StatusCode, rb)
		c.logger.Debug("auth api error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", apiErr.Code),
		)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode auth api response: %w", err)
	}
	return nil
}
