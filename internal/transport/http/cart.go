package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userId")
	l := logging.FromContext(ctx).With("handler", "cart.get", "user_id", userID)

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "failed to load cart"})
	}
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID := c.Param("userId")
	l := logging.FromContext(ctx).With("handler", "cart.add", "user_id", userID)

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "invalid body"})
	}
	if req.ProductID == "" {
		l.Warn("add_to_cart_error", "status", 400, "reason", "productId missing")
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: "productId is required"})
	}

	cart, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		return cartError(c, l, "add_to_cart_error", err)
	}

	l.Info("cart_item_added", "status", 200, "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	userID, productID := c.Param("userId"), c.Param("productId")
	l := logging.FromContext(ctx).With("handler", "cart.remove", "user_id", userID)

	cart, err := h.Svc.RemoveItem(ctx, userID, productID)
	if err != nil {
		return cartError(c, l, "remove_from_cart_error", err)
	}

	l.Info("cart_item_removed", "status", 200, "product_id", productID, "cart_found", cart != nil)
	return c.JSON(http.StatusOK, cart)
}

func cartError(c echo.Context, l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, transport.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "error", err)
		return c.JSON(http.StatusConflict, transport.ErrorResponse{Error: "cart was modified concurrently, please retry"})
	default:
		l.Error(event, "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.ErrorResponse{Error: "failed to update cart"})
	}
}
