package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/handler"
	"github.com/sakif/notekeeper/internal/repository/sqlite"
	"github.com/sakif/notekeeper/internal/service"
)

// env wires real services over an in-memory SQLite store. Requests are
// served straight through the handlers; the caller picks the identity by
// calling as().
type env struct {
	t      *testing.T
	auth   *handler.AuthHandler
	notes  *handler.NoteHandler
	tokens *auth.TokenService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars!!", 0)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validate := handler.NewValidator()
	accounts := service.NewAuthService(db, tokens, auth.NewPasswordServiceWithCost(bcrypt.MinCost), logger)

	return &env{
		t:      t,
		auth:   handler.NewAuthHandler(accounts, validate, logger),
		notes:  handler.NewNoteHandler(service.NewNoteService(db, logger), validate, logger),
		tokens: tokens,
	}
}

// body is the decoded JSON response.
type body map[string]any

func do(t *testing.T, h http.HandlerFunc, req *http.Request) (int, body) {
	t.Helper()
	rr := httptest.NewRecorder()
	h(rr, req)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var b body
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&b), "response is not JSON: %s", rr.Body.String())
	return rr.Code, b
}

func newRequest(method, target, payload string) *http.Request {
	return httptest.NewRequest(method, target, bytes.NewBufferString(payload))
}

// as attaches a signed-in user to the request, the way RequireAuth would.
func as(req *http.Request, userID string) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), auth.SessionUser{ID: userID}))
}

// withNoteID sets the {noteId} URL parameter chi would have extracted.
func withNoteID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("noteId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// register creates an account through the handler and returns its user id.
func (e *env) register(email string) string {
	e.t.Helper()
	code, b := do(e.t, e.auth.HandleRegister, newRequest(http.MethodPost, "/create-account",
		`{"fullname":"Test User","email":"`+email+`","password":"pw1"}`))
	require.Equal(e.t, http.StatusOK, code, b)
	return b["user"].(map[string]any)["_id"].(string)
}

// addNote creates a note for userID and returns its id.
func (e *env) addNote(userID, title, content string) string {
	e.t.Helper()
	req := as(newRequest(http.MethodPost, "/add-note",
		`{"title":"`+title+`","content":"`+content+`"}`), userID)
	code, b := do(e.t, e.notes.HandleAdd, req)
	require.Equal(e.t, http.StatusOK, code, b)
	return b["note"].(map[string]any)["_id"].(string)
}
