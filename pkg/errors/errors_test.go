package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound_FormatsMessage(t *testing.T) {
	err := NotFound("category", "42")

	assert.Equal(t, "NOT_FOUND", err.Code)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.Contains(t, err.Message, "category")
	assert.Contains(t, err.Message, "42")
}

func TestAlreadyExists_FormatsMessage(t *testing.T) {
	err := AlreadyExists("manufacturer", "name", "Acme")

	assert.Equal(t, "ALREADY_EXISTS", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Contains(t, err.Message, `"Acme"`)
}

func TestInvalidFormat_WrapsSentinel(t *testing.T) {
	err := InvalidFormat("categories.json")

	assert.Equal(t, "INVALID_FORMAT", err.Code)
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, errors.Is(err, ErrInvalidFormat))
}

func TestUnresolvedDependency_WrapsSentinel(t *testing.T) {
	err := UnresolvedDependency("category")

	assert.Equal(t, "UNRESOLVED_DEPENDENCY", err.Code)
	assert.True(t, errors.Is(err, ErrUnresolvedDependency))
	assert.Contains(t, err.Message, "category")
}

func TestAppError_UnwrapChain(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal(cause)

	require.True(t, errors.Is(err, cause))
}

func TestHTTPStatus_Sentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"already exists", ErrAlreadyExists, http.StatusConflict},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"invalid format", ErrInvalidFormat, http.StatusUnprocessableEntity},
		{"unresolved dependency", ErrUnresolvedDependency, http.StatusUnprocessableEntity},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("reconcile categories: %w", ErrUnresolvedDependency)
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(err))
}
