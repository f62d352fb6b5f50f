package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, secret string) *Manager {
	t.Helper()
	m, err := NewManager(Options{Secret: []byte(secret), CookieName: "session"})
	require.NoError(t, err)
	return m
}

// requestWith replays the cookies set on rec into a fresh request.
func requestWith(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestNewManager_RequiresSecretAndName(t *testing.T) {
	t.Parallel()

	_, err := NewManager(Options{CookieName: "session"})
	assert.Error(t, err)
	_, err = NewManager(Options{Secret: []byte("k")})
	assert.Error(t, err)
}

func TestManager_EstablishThenCurrent(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	rec := httptest.NewRecorder()
	require.NoError(t, m.Establish(rec, 42))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "/", cookies[0].Path)

	userID, ok := m.Current(requestWith(rec))
	require.True(t, ok)
	assert.Equal(t, int64(42), userID)
}

func TestManager_EstablishOverwrites(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	first := httptest.NewRecorder()
	require.NoError(t, m.Establish(first, 1))
	second := httptest.NewRecorder()
	require.NoError(t, m.Establish(second, 2))

	// A cookie jar keeps the latest value for the same name and path.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(second.Result().Cookies()[0])
	userID, ok := m.Current(req)
	require.True(t, ok)
	assert.Equal(t, int64(2), userID)
}

func TestManager_CurrentAbsent(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	_, ok := m.Current(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "not.a.jwt"})
	_, ok = m.Current(req)
	assert.False(t, ok)
}

func TestManager_RejectsForeignSignature(t *testing.T) {
	t.Parallel()
	ours := newTestManager(t, "right-secret")
	theirs := newTestManager(t, "wrong-secret")

	rec := httptest.NewRecorder()
	require.NoError(t, theirs.Establish(rec, 42))

	_, ok := ours.Current(requestWith(rec))
	assert.False(t, ok)
}

func TestManager_RejectsUnsignedAndBadSubject(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "42"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Decode(none)
	assert.Error(t, err)

	for _, sub := range []string{"", "abc", "0", "-3"} {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: sub}).
			SignedString([]byte("super-secret"))
		require.NoError(t, err)
		_, err = m.Decode(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, sub)
	}
}

func TestManager_TokensAreUnique(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	a, err := m.Encode(7)
	require.NoError(t, err)
	b, err := m.Encode(7)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestManager_ClearIsIdempotent(t *testing.T) {
	t.Parallel()
	m := newTestManager(t, "super-secret")

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		m.Clear(rec)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, "session", cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Less(t, cookies[0].MaxAge, 0)

		_, ok := m.Current(requestWith(rec))
		assert.False(t, ok)
	}
}
