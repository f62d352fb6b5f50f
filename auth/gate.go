package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"recipe-service/models"

	"github.com/umakantv/go-utils/errs"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

// State is the outcome of resolving a request's session.
type State int

const (
	NoSession State = iota
	SessionNoUser
	Authenticated
)

func (s State) String() string {
	switch s {
	case NoSession:
		return "no_session"
	case SessionNoUser:
		return "session_no_user"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// SessionReader reads the user id bound to a request.
type SessionReader interface {
	Current(r *http.Request) (int64, bool)
}

// UserFinder looks a user up by id, returning nil when it does not exist.
type UserFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Gate is the single authorization choke point for session-protected routes.
type Gate struct {
	sessions SessionReader
	users    UserFinder
}

// NewGate creates an auth gate.
func NewGate(sessions SessionReader, users UserFinder) *Gate {
	return &Gate{
		sessions: sessions,
		users:    users,
	}
}

// Resolve works out who is calling. It is evaluated fresh on every request.
// A bound id that no longer resolves is SessionNoUser, not an error; err is
// only set for storage faults.
func (g *Gate) Resolve(r *http.Request) (State, *models.User, error) {
	userID, ok := g.sessions.Current(r)
	if !ok {
		return NoSession, nil, nil
	}

	user, err := g.users.FindByID(r.Context(), userID)
	if err != nil {
		return SessionNoUser, nil, err
	}
	if user == nil {
		return SessionNoUser, nil, nil
	}
	return Authenticated, user, nil
}

// ResolveActor returns the acting user or models.ErrUnauthenticated.
func (g *Gate) ResolveActor(r *http.Request) (*models.User, error) {
	state, user, err := g.Resolve(r)
	if err != nil {
		return nil, err
	}
	if state != Authenticated {
		return nil, models.ErrUnauthenticated
	}
	return user, nil
}

// Require rejects unauthenticated requests with 401 and binds the actor into
// the request context for the next handler.
func (g *Gate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, user, err := g.Resolve(r)
		if err != nil {
			logger.Error("Session lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errs.NewInternalServerError("Failed to resolve session"))
			return
		}
		if state != Authenticated {
			logger.Debug("Unauthenticated request", zap.String("path", r.URL.Path), zap.Stringer("state", state))
			writeJSON(w, http.StatusUnauthorized, errs.NewAuthenticationError("401 Unauthorized"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), user)))
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
