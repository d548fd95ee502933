package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/notekeeper/internal/auth"
	"github.com/sakif/notekeeper/internal/model"
	"github.com/sakif/notekeeper/internal/service"
)

const (
	MsgRegistered = "Registration Successful"
	MsgLoggedIn   = "Login successful"
)

// AuthHandler serves account creation, login and the current-user lookup.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → POST /create-account
//   - HandleLogin    → POST /login
//   - HandleGetUser  → GET  /get-user (behind auth.RequireAuth)
type AuthHandler struct {
	accounts *service.AuthService
	validate *Validator
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(accounts *service.AuthService, validate *Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		validate: validate,
		logger:   logger,
	}
}

type registerRequest struct {
	FullName string `json:"fullname" validate:"required" label:"Fullname"`
	Email    string `json:"email"    validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type registerResponse struct {
	envelope
	User        *model.User `json:"user"`
	AccessToken string      `json:"accessToken"`
}

// HandleRegister creates an account and returns it with a token.
//
// HTTP: POST /create-account
// REQUEST BODY: {"fullname": "Ada", "email": "a@x.com", "password": "pw1"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Check(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.accounts.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{
		envelope:    ok(MsgRegistered),
		User:        result.User,
		AccessToken: result.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

type loginResponse struct {
	envelope
	Email       string `json:"email"`
	AccessToken string `json:"accessToken"`
}

// HandleLogin exchanges email and password for a token.
//
// HTTP: POST /login
// REQUEST BODY: {"email": "a@x.com", "password": "pw1"}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.validate.Check(req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	result, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		envelope:    ok(MsgLoggedIn),
		Email:       result.User.Email,
		AccessToken: result.Token,
	})
}

// profile is the public view of an account. It never carries the password.
type profile struct {
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	ID        string    `json:"_id"`
	CreatedOn time.Time `json:"createdOn"`
}

type getUserResponse struct {
	envelope
	User profile `json:"user"`
}

// HandleGetUser returns the caller's account, re-read from the store so the
// fields are current rather than what was frozen into the token.
//
// HTTP: GET /get-user
func (h *AuthHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.UserFromContext(r.Context())

	user, err := h.accounts.GetUser(r.Context(), session.ID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	p := profile{
		FullName:  user.FullName,
		Email:     user.Email,
		ID:        user.ID,
		CreatedOn: user.CreatedOn,
	}
	writeJSON(w, http.StatusOK, getUserResponse{envelope: ok(""), User: p})
}
