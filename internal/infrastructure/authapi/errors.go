package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserAlreadyExists  = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// APIError is a non-2xx answer from the auth API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	if e.Code != "" {
		return fmt.Sprintf("auth api: status=%d code=%s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("auth api: status=%d: %s", e.Status, e.Message)
}

// Unwrap maps platform error codes and messages onto the package sentinels.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}
	code := strings.ToLower(e.Code)
	msg := strings.ToLower(e.Message)

	switch {
	case code == "user_already_exists" || code == "email_exists" || strings.Contains(msg, "already registered"):
		return ErrUserAlreadyExists
	case code == "invalid_credentials" || (code == "invalid_grant" && strings.Contains(msg, "credentials")) || strings.Contains(msg, "invalid login credentials"):
		return ErrInvalidCredentials
	case code == "weak_password" || strings.Contains(msg, "password should be"):
		return ErrWeakPassword
	case code == "email_address_invalid" || (code == "validation_failed" && strings.Contains(msg, "email")) || strings.Contains(msg, "unable to validate email address"):
		return ErrInvalidEmail
	case code == "bad_jwt" || code == "session_not_found" || code == "refresh_token_not_found" || code == "refresh_token_already_used":
		return ErrInvalidToken
	case e.Status == 401 || e.Status == 403:
		return ErrInvalidToken
	default:
		return nil
	}
}

// apiErrorBody covers the error shapes the platform has used over time.
type apiErrorBody struct {
	Code             json.RawMessage `json:"code"`
	ErrorCode        string          `json:"error_code"`
	Msg              string          `json:"msg"`
	Message          string          `json:"message"`
	Error            string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{Status: status}

	var b apiErrorBody
	if err := json.Unmarshal(body, &b); err != nil {
		e.Message = strings.TrimSpace(string(body))
		return e
	}

	e.Code = b.ErrorCode
	if e.Code == "" && len(b.Code) > 0 {
		var s string
		if json.Unmarshal(b.Code, &s) == nil {
			e.Code = s
		}
	}
	if e.Code == "" {
		e.Code = b.Error
	}

	for _, m := range []string{b.Msg, b.Message, b.ErrorDescription, b.Error} {
		if strings.TrimSpace(m) != "" {
			e.Message = strings.TrimSpace(m)
			break
		}
	}
	return e
}
