package handlers

import (
	"context"
	"net/http"
	"strings"

	"recipe-service/auth"
	"recipe-service/models"

	"github.com/umakantv/go-utils/errs"
	"go.uber.org/zap"
)

// CredentialStore is what the auth handlers need from the user repository.
type CredentialStore interface {
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	VerifyPassword(user *models.User, candidate string) bool
}

// SessionManager binds and unbinds the client's session cookie.
type SessionManager interface {
	Establish(w http.ResponseWriter, userID int64) error
	Current(r *http.Request) (int64, bool)
	Clear(w http.ResponseWriter)
}

// AuthHandler serves signup, login, logout and check_session.
type AuthHandler struct {
	users    CredentialStore
	sessions SessionManager
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users CredentialStore, sessions SessionManager) *AuthHandler {
	return &AuthHandler{
		users:    users,
		sessions: sessions,
	}
}

// Signup handles POST /signup - registers a user and logs them in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		logRequest(r, "info", "Missing required fields", zap.String("username", req.Username))
		writeJSON(w, http.StatusUnprocessableEntity, errs.NewValidationError("Username and password are required."))
		return
	}

	logRequest(r, "info", "Signup request", zap.String("username", req.Username))

	user, err := h.users.Register(r.Context(), models.Registration{
		Username: req.Username,
		Password: req.Password,
		ImageURL: req.ImageURL,
		Bio:      req.Bio,
	})
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := h.sessions.Establish(w, user.ID); err != nil {
		logRequest(r, "error", "Failed to establish session", zap.Error(err), zap.Int64("user_id", user.ID))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to establish session"))
		return
	}

	logRequest(r, "info", "User created successfully", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusCreated, user.Profile())
}

// Login handles POST /login. Unknown users and wrong passwords both get 401.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.users.FindByUsername(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, err, http.StatusInternalServerError)
		return
	}
	if user == nil {
		logRequest(r, "info", "User not found", zap.String("username", req.Username))
		writeUnauthenticated(w, r)
		return
	}
	if !h.users.VerifyPassword(user, req.Password) {
		logRequest(r, "info", "Invalid password", zap.String("username", req.Username))
		writeUnauthenticated(w, r)
		return
	}

	if err := h.sessions.Establish(w, user.ID); err != nil {
		logRequest(r, "error", "Failed to establish session", zap.Error(err), zap.Int64("user_id", user.ID))
		writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to establish session"))
		return
	}

	logRequest(r, "info", "Login successful", zap.Int64("user_id", user.ID))
	writeJSON(w, http.StatusOK, user.Profile())
}

// Logout handles DELETE /logout. It needs a session but not a live user.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.sessions.Current(r)
	if !ok {
		writeUnauthenticated(w, r)
		return
	}

	h.sessions.Clear(w)
	logRequest(r, "info", "Logout successful", zap.Int64("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

// CheckSession handles GET /check_session behind the auth gate.
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w, r)
		return
	}
	writeJSON(w, http.StatusOK, actor.Profile())
}
