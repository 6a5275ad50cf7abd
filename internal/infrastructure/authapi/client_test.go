package authapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"azellar-portal/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.BackendConfig{URL: srv.URL + "/", AnonKey: "anon", ServiceRoleKey: "service"}, nil)
}

func TestSignUp_WithoutSession(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/signup", r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))

		var body signUpRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe", body.Data["full_name"])

		_ = json.NewEncoder(w).Encode(map[string]any{"id": id, "email": body.Email})
	})

	res, err := c.SignUp(context.Background(), "jane@azellar.com", "Password123!", map[string]any{"full_name": "Jane Doe"})
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Nil(t, res.Session)
}

func TestSignUp_WithSession(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "at",
			"refresh_token": "rt",
			"expires_in":    3600,
			"user":          map[string]any{"id": id, "email": "jane@azellar.com"},
		})
	})

	res, err := c.SignUp(context.Background(), "jane@azellar.com", "Password123!", nil)
	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Equal(t, "at", res.Session.AccessToken)
	assert.Equal(t, id, res.User.ID)
}

func TestSignUp_AlreadyRegistered(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"user_already_exists","msg":"User already registered"}`))
	})

	_, err := c.SignUp(context.Background(), "jane@azellar.com", "Password123!", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
}

func TestSignUp_ObfuscatedRepeatIsAlreadyRegistered(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + uuid.NewString() + `","email":"jane@azellar.com","identities":[],"user_metadata":{}}`))
	})

	res, err := c.SignUp(context.Background(), "jane@azellar.com", "Password123!", nil)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Equal(t, uuid.Nil, res.User.ID)
}

func TestSignUp_NewUserWithIdentities(t *testing.T) {
	id := uuid.New()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         id,
			"email":      "jane@azellar.com",
			"identities": []map[string]any{{"provider": "email"}},
		})
	})

	res, err := c.SignUp(context.Background(), "jane@azellar.com", "Password123!", nil)
	require.NoError(t, err)
	assert.Equal(t, id, res.User.ID)
	assert.Nil(t, res.Session)
}

func TestSignInWithPassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		if r.URL.Query().Get("grant_type") != "password" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		var body passwordGrantRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "right" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(Session{AccessToken: "at", RefreshToken: "rt"})
	})

	s, err := c.SignInWithPassword(context.Background(), "a@b.co", "right")
	require.NoError(t, err)
	assert.Equal(t, "rt", s.RefreshToken)

	_, err = c.SignInWithPassword(context.Background(), "a@b.co", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetUser_UsesBearer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"error_code":"bad_jwt","msg":"invalid JWT"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": uuid.New(), "email": "a@b.co", "user_metadata": map[string]any{"full_name": " Jane "}})
	})

	u, err := c.GetUser(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "Jane", u.FullName())

	_, err = c.GetUser(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSignOut_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/logout", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.SignOut(context.Background(), "at"))
}

func TestAdminCreateUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		var body adminCreateUserRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.True(t, body.EmailConfirm)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": uuid.New(), "email": body.Email})
	})

	u, err := c.AdminCreateUser(context.Background(), "client@techcorp.com", "ClientPassword123!", nil)
	require.NoError(t, err)
	assert.Equal(t, "client@techcorp.com", u.Email)

	noKey := NewClient(config.BackendConfig{URL: "http://unused", AnonKey: "anon"}, nil)
	_, err = noKey.AdminCreateUser(context.Background(), "x@y.z", "pw", nil)
	assert.ErrorIs(t, err, ErrServiceRoleRequired)
}

func TestAPIError_Unwrap(t *testing.T) {
	cases := []struct {
		body string
		want error
	}{
		{`{"msg":"User already registered"}`, ErrUserAlreadyExists},
		{`{"error_code":"weak_password","msg":"Password should be at least 8 characters"}`, ErrWeakPassword},
		{`{"msg":"Unable to validate email address: invalid format"}`, ErrInvalidEmail},
		{`{"error_code":"email_address_invalid","msg":"Email address is invalid"}`, ErrInvalidEmail},
	}
	for _, c := range cases {
		err := parseAPIError(http.StatusBadRequest, []byte(c.body))
		assert.ErrorIs(t, err, c.want, c.body)
	}

	plain := parseAPIError(http.StatusBadGateway, []byte("upstream down"))
	assert.Equal(t, "upstream down", plain.Message)
	assert.Nil(t, plain.Unwrap())
}
