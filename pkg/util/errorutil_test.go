package util

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("image", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("not yours"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("duplicate", nil), "CONFLICT", http.StatusConflict},
		{"unavailable", NewServiceUnavailable("down"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var domainErr *DomainError
			require.ErrorAs(t, tc.err, &domainErr)
			assert.Equal(t, tc.code, domainErr.Code)
			assert.Equal(t, tc.status, domainErr.HTTPStatus)
		})
	}
}

func TestToDomainErrorPassesThroughExisting(t *testing.T) {
	original := NewForbidden("not yours")
	mapped := ToDomainError(original)
	assert.Equal(t, "FORBIDDEN", mapped.Code)
}

func TestToDomainErrorMapsNoRows(t *testing.T) {
	mapped := ToDomainError(sql.ErrNoRows)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
}

func TestToDomainErrorWrapsUnknown(t *testing.T) {
	mapped := ToDomainError(errors.New("disk on fire"))
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, http.StatusInternalServerError, mapped.HTTPStatus)
}

func TestToDomainErrorNil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestNotFoundMessageNamesResource(t *testing.T) {
	err := NewNotFound("illustrator", map[string]any{"id": 7})
	assert.Contains(t, err.Error(), "illustrator not found")
}
