package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CheckoutHTTP struct {
	Svc *service.CheckoutService
}

func (h *CheckoutHTTP) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout.create")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "error", err)
		return c.String(http.StatusBadRequest, "Invalid checkout request")
	}

	id, err := h.Svc.CreateCheckoutSession(ctx, req.Items)
	if errors.Is(err, service.ErrValidation) {
		return c.String(http.StatusBadRequest, "No items to check out")
	}
	if err != nil {
		return c.String(http.StatusInternalServerError, "An error occurred during checkout")
	}
	return c.JSON(http.StatusOK, transport.CheckoutResponse{ID: id})
}
