package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    *Error
		status int
	}{
		{"invalid parameter", InvalidParameter("bad id"), http.StatusBadRequest},
		{"conflict maps to 400", Conflict("already in playlist"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("authentication required"), http.StatusUnauthorized},
		{"forbidden", Forbidden("not the owner"), http.StatusForbidden},
		{"not found", NotFound("video not found"), http.StatusNotFound},
		{"upload", Upload("upload failed", errors.New("boom")), http.StatusInternalServerError},
		{"persistence", Persistence("save failed", errors.New("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status())
		})
	}
}

func TestFrom(t *testing.T) {
	orig := NotFound("tweet not found")
	wrapped := fmt.Errorf("handler: %w", orig)

	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, "tweet not found", got.Message)
}

func TestFromUnknownError(t *testing.T) {
	got := From(errors.New("pq: connection refused"))

	assert.Equal(t, KindPersistence, got.Kind)
	// internal detail must not surface in the message
	assert.Equal(t, "Something went wrong", got.Message)
	assert.Equal(t, http.StatusInternalServerError, got.Status())
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := Upload("thumbnail upload failed", inner)
	assert.True(t, errors.Is(err, inner))
}
