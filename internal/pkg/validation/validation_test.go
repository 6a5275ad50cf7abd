package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func TestStruct_FieldMessages(t *testing.T) {
	err := Struct(signupForm{Email: "nope", Password: "short", ConfirmPassword: "other"})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please enter a valid email address.", verr.Fields["email"])
	assert.Equal(t, "password must be at least 8 characters", verr.Fields["password"])
	assert.Contains(t, verr.Fields["confirm_password"], "must match")
	assert.Equal(t, "Validation failed", verr.Message)
}

func TestStruct_SingleFieldMessage(t *testing.T) {
	err := Struct(signupForm{Email: "jane@azellar.com", Password: "Password123!", ConfirmPassword: "Password123?"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "confirm_password must match password", err.Error())

	assert.NoError(t, Struct(signupForm{Email: "jane@azellar.com", Password: "Password123!", ConfirmPassword: "Password123!"}))
}

func TestEmailDomainAllowed(t *testing.T) {
	blocked := []string{"example.com", "example.org"}

	assert.True(t, EmailDomainAllowed("sarah@newcompany.com", blocked))
	assert.False(t, EmailDomainAllowed("someone@example.com", blocked))
	assert.False(t, EmailDomainAllowed("someone@EXAMPLE.org", blocked))
	assert.False(t, EmailDomainAllowed("someone@mail.example.com", blocked))
	assert.True(t, EmailDomainAllowed("someone@notexample.com", blocked))
	assert.False(t, EmailDomainAllowed("broken@", blocked))
	assert.True(t, EmailDomainAllowed("a@b.co", nil))
}
