package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/notekeeper/internal/apperror"
)

func TestWriteError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperror.ValidationFailed("title", "Title is required"), http.StatusBadRequest, "Title is required"},
		{"conflict is 400", apperror.Conflict("User is already exist"), http.StatusBadRequest, "User is already exist"},
		{"credentials", apperror.InvalidCredentials("Invalid Credentials"), http.StatusBadRequest, "Invalid Credentials"},
		{"not found", apperror.NotFound("Note"), http.StatusNotFound, "Note not found"},
		{"wrapped not found", fmt.Errorf("service: %w", apperror.NotFound("Note")), http.StatusNotFound, "Note not found"},
		{"unauthorized", apperror.Unauthorized("Unauthorized"), http.StatusUnauthorized, "Unauthorized"},
		{"internal details hidden", errors.New("sqlite: no such table: notes"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, logger, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			var got envelope
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
			assert.True(t, got.Error)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestValidator_FirstFailureWins(t *testing.T) {
	type req struct {
		A string `validate:"required" label:"Alpha"`
		B string `validate:"required" label:"Beta"`
		C string `validate:"required"`
	}
	v := NewValidator()

	err := v.Check(req{})
	require.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Alpha is required", err.Error())

	err = v.Check(req{A: "a", B: "b"})
	assert.Equal(t, "C is required", err.Error())

	assert.NoError(t, v.Check(req{A: "a", B: "b", C: "c"}))
}
