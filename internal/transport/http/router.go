package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/metrics"
	"github.com/Skotchmaster/storefront/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/storefront/internal/middleware/logging"
	"github.com/Skotchmaster/storefront/internal/session"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Cart     *CartHTTP
	Account  *AccountHTTP
	Checkout *CheckoutHTTP
	Forms    *FormsHTTP
	Pages    *PagesHTTP

	Sessions *session.Manager
	Metrics  *metrics.Metrics
	CSRF     csrf.Config
	// Ready lists the backends /health/ready must reach.
	Ready map[string]Pinger
}

// New builds the echo instance with the shared middleware stack and all routes.
func New(base *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(base))
	if d.Metrics != nil {
		e.Use(d.Metrics.Middleware())
	}
	e.Use(d.Sessions.Middleware)

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", readiness(d.Ready))
	if d.Metrics != nil {
		e.GET("/metrics", d.Metrics.Handler())
	}

	e.POST("/register", d.Account.Register)
	e.GET("/get-users", d.Account.ListUsers)

	e.GET("/cart/:userId", d.Cart.GetCart)
	e.POST("/cart/:userId", d.Cart.AddToCart)
	e.DELETE("/cart/:userId/:productId", d.Cart.RemoveFromCart)

	e.POST("/checkout/create-checkout-session", d.Checkout.CreateCheckoutSession)

	requireSession := d.Sessions.RequireSession
	e.GET("/", d.Pages.Page("index.html"), requireSession)
	e.GET("/feedback", d.Pages.Page("feedback.html"), requireSession)
	e.GET("/register", d.Pages.Page("register.html"))
	e.GET("/login", d.Pages.Page("login.html"))
	e.GET("/contact", d.Pages.Page("contact.html"))

	sameOrigin := csrf.Middleware(d.CSRF)
	e.POST("/adduser", d.Account.AddUser, sameOrigin)
	e.POST("/addlogin", d.Account.AddLogin, sameOrigin)
	e.POST("/logout", d.Account.Logout, sameOrigin)
	e.POST("/addData", d.Forms.AddFeedback, sameOrigin)
	e.POST("/contact", d.Forms.AddContact, sameOrigin)
}

func readiness(checks map[string]Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		l := logging.FromContext(ctx).With("handler", "health.ready")
		failed := map[string]string{}
		for name, p := range checks {
			if err := p.Ping(ctx); err != nil {
				l.Warn("readiness_check_failed", "backend", name, "error", err)
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return c.JSON(http.StatusServiceUnavailable, failed)
		}
		return c.NoContent(http.StatusOK)
	}
}
