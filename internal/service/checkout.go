package service

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/payment"
)

const checkoutCurrency = "INR"

type LineItem struct {
	Amount   float64 `json:"amount"`
	Quantity int     `json:"quantity"`
}

func Total(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Amount * float64(it.Quantity)
	}
	return total
}

// ToSmallestUnit converts rupees to paise, rounding to the nearest paisa.
func ToSmallestUnit(total float64) int64 {
	return int64(math.Round(total * 100))
}

func randomReceipt() string {
	return fmt.Sprintf("order_rcptid_%d", rand.Intn(1_000_000_000))
}

type CheckoutService struct {
	Gateway PaymentGateway
	Events  events.Publisher
	// Receipt generates the merchant receipt id; defaults to a random one.
	Receipt func() string
}

// CreateCheckoutSession asks the gateway for an order covering items and
// returns the gateway order id.
func (s *CheckoutService) CreateCheckoutSession(ctx context.Context, items []LineItem) (string, error) {
	l := logging.FromContext(ctx).With("svc", "checkout.create")

	if len(items) == 0 {
		return "", fmt.Errorf("no items to check out: %w", ErrValidation)
	}

	receipt := randomReceipt
	if s.Receipt != nil {
		receipt = s.Receipt
	}

	req := payment.OrderRequest{
		Amount:         ToSmallestUnit(Total(items)),
		Currency:       checkoutCurrency,
		Receipt:        receipt(),
		PaymentCapture: 1,
	}

	order, err := s.Gateway.CreateOrder(ctx, req)
	if err != nil {
		l.Error("checkout_failed", "status", 500, "receipt", req.Receipt, "error", err)
		return "", fmt.Errorf("create payment order: %w", err)
	}

	l.Info("checkout_created", "status", 200, "order_id", order.ID, "amount", req.Amount)
	publish(ctx, s.Events, events.TopicCheckout, order.ID, "checkout_created", map[string]any{
		"orderId":  order.ID,
		"receipt":  req.Receipt,
		"amount":   req.Amount,
		"currency": req.Currency,
	})
	return order.ID, nil
}
