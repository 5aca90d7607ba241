// Copyright (c) 2026 Programando o Futuro. All rights reserved.

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caiomatenorio/programando-o-futuro-final/internal/platform/apperr"
)

/*
TestConstructors verifies code and status mapping for each error family.
*/
func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *apperr.AppError
		code       string
		httpStatus int
	}{
		{"not_found", apperr.NotFound("User"), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", apperr.Unauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"invalid_credentials", apperr.InvalidCredentials(), "INVALID_CREDENTIALS", http.StatusUnauthorized},
		{"conflict", apperr.Conflict("dup"), "CONFLICT", http.StatusConflict},
		{"validation", apperr.ValidationError("bad"), "VALIDATION_ERROR", http.StatusBadRequest},
		{"internal", apperr.Internal(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

/*
TestInvalidCredentials_Message verifies the single client-safe message used
for both unknown emails and wrong passwords.
*/
func TestInvalidCredentials_Message(t *testing.T) {
	assert.Equal(t, "Invalid email or password", apperr.InvalidCredentials().Error())
}

/*
TestHelpers verifies chain traversal through wrapped errors.
*/
func TestHelpers(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", apperr.NotFound("Session"))

	assert.True(t, apperr.IsAppError(wrapped))
	assert.True(t, apperr.IsNotFound(wrapped))
	assert.False(t, apperr.IsNotFound(errors.New("plain")))

	ae := apperr.As(wrapped)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)

	assert.Nil(t, apperr.As(errors.New("plain")))
}

/*
TestUnwrap verifies that Internal exposes its cause to errors.Is.
*/
func TestUnwrap(t *testing.T) {
	cause := errors.New("db down")
	err := apperr.Internal(cause)

	assert.True(t, errors.Is(err, cause))
}
