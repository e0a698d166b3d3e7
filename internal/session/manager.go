package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
)

const (
	DefaultCookieName = "storefront_session"
	contextKey        = "session"
)

type Manager struct {
	Store      Store
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool
	LoginPath  string
}

func (m *Manager) cookieName() string {
	if m.CookieName == "" {
		return DefaultCookieName
	}
	return m.CookieName
}

func (m *Manager) loginPath() string {
	if m.LoginPath == "" {
		return "/login"
	}
	return m.LoginPath
}

// Start creates a session for the user and sets the signed cookie.
func (m *Manager) Start(c echo.Context, userID, username string) (Session, error) {
	s, err := m.Store.Create(c.Request().Context(), userID, username)
	if err != nil {
		return Session{}, err
	}
	token, err := signToken(s, m.Secret)
	if err != nil {
		_ = m.Store.Delete(c.Request().Context(), s.ID)
		return Session{}, err
	}

	c.SetCookie(&http.Cookie{
		Name:     m.cookieName(),
		Value:    token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		MaxAge:   int(m.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return s, nil
}

// Load resolves the request cookie to a live session. A missing, tampered or
// expired token yields ErrSessionNotFound.
func (m *Manager) Load(c echo.Context) (Session, error) {
	cookie, err := c.Cookie(m.cookieName())
	if err != nil || cookie.Value == "" {
		return Session{}, ErrSessionNotFound
	}
	id, err := sessionIDFromToken(cookie.Value, m.Secret)
	if err != nil {
		return Session{}, ErrSessionNotFound
	}
	return m.Store.Get(c.Request().Context(), id)
}

func (m *Manager) End(c echo.Context) error {
	s, err := m.Load(c)
	m.clearCookie(c)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.Store.Delete(c.Request().Context(), s.ID)
}

func (m *Manager) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the current session, if any, to the echo context.
func (m *Manager) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s, err := m.Load(c)
		switch {
		case err == nil:
			c.Set(contextKey, s)
			c.Set("user_id", s.UserID)
		case !errors.Is(err, ErrSessionNotFound):
			logging.FromContext(c.Request().Context()).Warn("session_load_failed", "error", err)
		}
		return next(c)
	}
}

// RequireSession redirects to the login page when no session is attached.
// It must run after Middleware.
func (m *Manager) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := FromContext(c); !ok {
			return c.Redirect(http.StatusFound, m.loginPath())
		}
		return next(c)
	}
}

func FromContext(c echo.Context) (Session, bool) {
	s, ok := c.Get(contextKey).(Session)
	return s, ok
}
