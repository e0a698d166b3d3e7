package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

func newTestManager() *Manager {
	return &Manager{
		Store:  NewMemoryStore(time.Hour),
		Secret: testSecret,
		TTL:    time.Hour,
	}
}

func startSession(t *testing.T, e *echo.Echo, m *Manager) (*http.Cookie, Session) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/addlogin", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	s, err := m.Start(c, "u1", "asha")
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, DefaultCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	return cookies[0], s
}

func TestManager_StartAndLoad(t *testing.T) {
	t.Parallel()

	e := echo.New()
	m := newTestManager()
	cookie, started := startSession(t, e, m)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	c := e.NewContext(req, httptest.NewRecorder())

	got, err := m.Load(c)
	require.NoError(t, err)
	assert.Equal(t, started.ID, got.ID)
	assert.Equal(t, "asha", got.Username)
}

func TestManager_Load_RejectsBadTokens(t *testing.T) {
	t.Parallel()

	e := echo.New()
	m := newTestManager()
	cookie, s := startSession(t, e, m)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        s.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString(testSecret)
	require.NoError(t, err)

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        s.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		value string
	}{
		{name: "tampered", value: cookie.Value + "x"},
		{name: "expired", value: expired},
		{name: "wrong key", value: otherKey},
		{name: "garbage", value: "not-a-token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: DefaultCookieName, Value: tt.value})
			c := e.NewContext(req, httptest.NewRecorder())

			_, err := m.Load(c)
			require.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestManager_End(t *testing.T) {
	t.Parallel()

	e := echo.New()
	m := newTestManager()
	cookie, s := startSession(t, e, m)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	require.NoError(t, m.End(e.NewContext(req, rec)))

	_, err := m.Store.Get(req.Context(), s.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)

	noCookie := httptest.NewRequest(http.MethodPost, "/logout", nil)
	require.NoError(t, m.End(e.NewContext(noCookie, httptest.NewRecorder())))
}

func TestManager_RequireSession(t *testing.T) {
	t.Parallel()

	e := echo.New()
	m := newTestManager()
	cookie, _ := startSession(t, e, m)

	handler := m.Middleware(m.RequireSession(func(c echo.Context) error {
		s, ok := FromContext(c)
		require.True(t, ok)
		assert.Equal(t, "u1", c.Get("user_id"))
		return c.String(http.StatusOK, "hello "+s.Username)
	}))

	t.Run("without session redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("with session passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/feedback", nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hello asha", rec.Body.String())
	})
}
