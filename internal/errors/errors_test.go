package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"user not found", ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"document not found", ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{"duplicate identity", ErrDuplicateIdentity, http.StatusConflict, "DUPLICATE_IDENTITY"},
		{"last admin", ErrLastAdmin, http.StatusConflict, "LAST_ADMIN"},
		{"self delete", ErrSelfDelete, http.StatusBadRequest, "SELF_DELETE"},
		{"wrapped validation", fmt.Errorf("%w: role must be admin or viewer", ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped not found", fmt.Errorf("update user: %w", ErrUserNotFound), http.StatusNotFound, "USER_NOT_FOUND"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantCode, httpErr.Code)
		})
	}
}

func TestMapErrorToHTTP_ValidationKeepsDetail(t *testing.T) {
	err := fmt.Errorf("%w: all fields are required", ErrValidation)

	resp := MapErrorToHTTP(err).ToErrorResponse()

	assert.Equal(t, "validation failed: all fields are required", resp.Error)
}

func TestMapErrorToHTTP_InternalHidesDetail(t *testing.T) {
	resp := MapErrorToHTTP(errors.New("open /data/users.json: permission denied")).ToErrorResponse()

	assert.Equal(t, "Internal server error", resp.Error)
}
