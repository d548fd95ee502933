package handler

// RESPONSE HELPERS:
// Every response from the API is a JSON object with the same two keys up
// front:
//
//	{"error": false, "message": "Note added successfully", ...payload}
//	{"error": true,  "message": "Note not found"}
//
// Frontends branch on "error" and show "message" as-is, so the message
// strings are part of the API.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/sakif/notekeeper/internal/apperror"
)

// MsgServerError is the only thing a client sees for an unexpected failure.
const (
	MsgServerError = "Server error"
	MsgInvalidJSON = "Invalid JSON body"
)

// envelope is embedded in every response body.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func ok(message string) envelope   { return envelope{Message: message} }
func fail(message string) envelope { return envelope{Error: true, Message: message} }

// writeJSON sends a JSON response with the given status code.
//
// Headers and status must be set BEFORE the body is written; once Encode
// starts writing, later header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the error
// envelope.
//
// ERROR MAPPING:
//
//	ErrValidation, ErrConflict, ErrInvalidCredentials → 400
//	ErrNotFound                                       → 404
//	ErrUnauthorized                                   → 401
//	anything else                                     → 500 "Server error"
//
// Duplicate email is a 400, not a 409: existing clients only distinguish
// 400 from the rest.
//
// errors.Is walks the whole chain, so a service that returns
// fmt.Errorf("...: %w", apperror.NotFound("Note")) still maps to 404.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, apperror.ErrValidation),
			errors.Is(err, apperror.ErrConflict),
			errors.Is(err, apperror.ErrInvalidCredentials):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, fail(appErr.Message))
			return
		}
	}

	// Never expose internal error details: the raw message may contain SQL
	// or file paths.
	logger.Error("request failed", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, fail(MsgServerError))
}

// decodeJSON reads the request body into dst. A body that is not valid JSON
// gets a 400 and decodeJSON returns false.
//
// An empty body decodes as an empty object so that a missing field is
// reported by validation ("Title is required") rather than as bad JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeJSON(w, http.StatusBadRequest, fail(MsgInvalidJSON))
	return false
}
