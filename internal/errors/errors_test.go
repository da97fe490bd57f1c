package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"wrapped service not found", fmt.Errorf("get service 7: %w", ErrServiceNotFound), http.StatusNotFound, "SERVICE_NOT_FOUND"},
		{"order not found", ErrOrderNotFound, http.StatusNotFound, "ORDER_NOT_FOUND"},
		{"invalid status", ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"email taken", ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{"invalid profile", fmt.Errorf("%w: name is required", ErrInvalidProfile), http.StatusBadRequest, "INVALID_PROFILE"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTPKeepsProfileDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("%w: name is required", ErrInvalidProfile))
	assert.Equal(t, "invalid profile: name is required", httpErr.Message)
}
