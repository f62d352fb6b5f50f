// Package session binds a client to a user id through a signed cookie.
// Nothing is stored server side: the cookie value is an HS256 token whose
// subject is the user id.
package session

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid session token")

// Options configures a Manager.
type Options struct {
	Secret     []byte
	CookieName string
	Secure     bool
}

// Manager encodes and decodes the session cookie.
type Manager struct {
	secret     []byte
	cookieName string
	secure     bool
}

// NewManager creates a session manager. Secret must not be empty.
func NewManager(opts Options) (*Manager, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("session secret is empty")
	}
	if opts.CookieName == "" {
		return nil, errors.New("session cookie name is empty")
	}
	return &Manager{
		secret:     opts.Secret,
		cookieName: opts.CookieName,
		secure:     opts.Secure,
	}, nil
}

// CookieName returns the name of the session cookie.
func (m *Manager) CookieName() string {
	return m.cookieName
}

// Establish binds the client to userID, replacing any previous binding.
func (m *Manager) Establish(w http.ResponseWriter, userID int64) error {
	token, err := m.Encode(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, m.cookie(token, 0))
	return nil
}

// Current returns the user id bound to the request, if any. A missing,
// tampered or malformed cookie reads as no binding.
func (m *Manager) Current(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return 0, false
	}
	userID, err := m.Decode(cookie.Value)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Clear removes the binding. Clearing an absent session is not an error.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, m.cookie("", -1))
}

// Encode signs a token for userID.
func (m *Manager) Encode(userID int64) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(userID, 10),
		ID:       uuid.NewString(),
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	return token.SignedString(m.secret)
}

// Decode verifies a token and returns its user id.
func (m *Manager) Decode(value string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}
