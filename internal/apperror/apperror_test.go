package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		err    *Error
		kind   Kind
		status int
	}{
		{Validation("email is required"), KindValidation, http.StatusBadRequest},
		{Unauthorized("Invalid credentials"), KindUnauthorized, http.StatusUnauthorized},
		{NotFound("User not found"), KindNotFound, http.StatusNotFound},
		{Conflict("Account with this email already exists"), KindConflict, http.StatusConflict},
		{AlreadyVerified(), KindAlreadyVerified, http.StatusBadRequest},
		{OtpExpired(), KindOtpExpired, http.StatusBadRequest},
		{OtpMismatch(), KindOtpMismatch, http.StatusBadRequest},
		{NoOtpPending(), KindNoOtpPending, http.StatusBadRequest},
		{Internal(errors.New("db down")), KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.err.Kind)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.NotEmpty(t, tt.err.Messages)
		})
	}
}

func TestMessage_SingleVersusMany(t *testing.T) {
	assert.Equal(t, "one", Validation("one").Message())
	assert.Equal(t, []string{"one", "two"}, Validation("one", "two").Message())
	assert.Equal(t, "Validation failed", Validation().Message())
}

func TestKindOf_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("verify otp: %w", OtpExpired())
	assert.Equal(t, KindOtpExpired, KindOf(wrapped))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestInternal_HidesCauseButUnwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	assert.Equal(t, "Internal server error", err.Message())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
