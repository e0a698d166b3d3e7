package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type AccountHTTP struct {
	Svc      *service.AccountService
	Sessions *session.Manager
}

// Register is the JSON registration endpoint.
func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Invalid request body"})
	}

	_, err := h.Svc.Register(ctx, req.Input(false))
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, transport.MessageResponse{Message: "Registration successful"})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Email or Username already exists"})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, transport.MessageResponse{Message: "Email, username and password are required"})
	default:
		return c.JSON(http.StatusInternalServerError, transport.MessageResponse{Message: "An error occurred during registration"})
	}
}

// AddUser handles the registration form and redirects to the login page.
func (h *AccountHTTP) AddUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.adduser")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("adduser_error", "status", 400, "error", err)
		return c.String(http.StatusBadRequest, "Invalid form submission.")
	}

	_, err := h.Svc.Register(ctx, req.Input(true))
	switch {
	case err == nil:
		return c.Redirect(http.StatusFound, "/login")
	case errors.Is(err, service.ErrEmailTaken):
		return c.String(http.StatusBadRequest, "You have already registered with this email.")
	case errors.Is(err, service.ErrUsernameTaken):
		return c.String(http.StatusBadRequest, "You have already registered with this username.")
	case errors.Is(err, service.ErrAddressTaken):
		return c.String(http.StatusBadRequest, "You have already registered with this address.")
	case errors.Is(err, service.ErrConflict):
		return c.String(http.StatusBadRequest, "You have already registered with this email or username.")
	case errors.Is(err, service.ErrValidation):
		return c.String(http.StatusBadRequest, "Email, username and password are required.")
	default:
		return c.String(http.StatusInternalServerError, "Error registering user.")
	}
}

// AddLogin authenticates the login form and starts a session.
func (h *AccountHTTP) AddLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.addlogin")

	var form transport.LoginForm
	if err := c.Bind(&form); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.String(http.StatusBadRequest, "Invalid form submission.")
	}

	user, err := h.Svc.Authenticate(ctx, form.Username, form.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return c.String(http.StatusUnauthorized, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.String(http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		return c.String(http.StatusInternalServerError, "Error during login.")
	}

	if _, err := h.Sessions.Start(c, user.ID, user.Username); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot start session", "error", err)
		return c.String(http.StatusInternalServerError, "Error during login.")
	}

	l.Info("login_success", "status", 302, "user_id", user.ID)
	return c.Redirect(http.StatusFound, "/")
}

func (h *AccountHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "account.logout")

	if err := h.Sessions.End(c); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return c.String(http.StatusInternalServerError, "Error during logout.")
	}
	return c.Redirect(http.StatusFound, "/login")
}

func (h *AccountHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list")

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		l.Error("list_users_error", "status", 500, "error", err)
		return c.String(http.StatusInternalServerError, "Error fetching users.")
	}
	return c.JSON(http.StatusOK, users)
}
