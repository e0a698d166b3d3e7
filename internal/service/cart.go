package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

const (
	defaultCartRetries    = 5
	defaultCartRetryDelay = 10 * time.Millisecond
)

type CartService struct {
	Carts    CartRepo
	Products ProductResolver
	Events   events.Publisher

	MaxRetries uint64
	RetryDelay time.Duration
	// OnConflict is called each time a concurrent writer forces a retry.
	OnConflict func()
}

// GetCart returns nil without error when the user has no cart.
func (s *CartService) GetCart(ctx context.Context, userID string) (*models.ResolvedCart, error) {
	cart, err := s.Carts.FindCartByUser(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return s.resolve(ctx, cart)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.ResolvedCart, error) {
	if userID == "" || productID == "" {
		return nil, fmt.Errorf("user id and product id are required: %w", ErrValidation)
	}

	cart, err := s.mutate(ctx, userID, true, func(c *models.Cart) bool {
		c.AddQuantity(productID, quantity)
		return true
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicCart, userID, "cart_item_added", map[string]any{
		"userId":    userID,
		"productId": productID,
		"quantity":  quantity,
	})
	return s.resolve(ctx, cart)
}

// RemoveItem returns nil when the user has no cart; no cart is created.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*models.ResolvedCart, error) {
	removed := false
	cart, err := s.mutate(ctx, userID, false, func(c *models.Cart) bool {
		removed = c.Remove(productID)
		return removed
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}

	if removed {
		publish(ctx, s.Events, events.TopicCart, userID, "cart_item_removed", map[string]any{
			"userId":    userID,
			"productId": productID,
		})
	}
	return s.resolve(ctx, cart)
}

// mutate runs a load-apply-save cycle under optimistic concurrency. apply
// reports whether the cart changed; unchanged carts are not written back.
func (s *CartService) mutate(ctx context.Context, userID string, create bool, apply func(*models.Cart) bool) (*models.Cart, error) {
	l := logging.FromContext(ctx).With("svc", "cart.mutate", "user_id", userID)

	var out *models.Cart
	backoff := retry.WithMaxRetries(s.maxRetries(), retry.NewConstant(s.retryDelay()))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out = nil

		cart, err := s.Carts.FindCartByUser(ctx, userID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			if !create {
				return nil
			}
			cart = &models.Cart{UserID: userID, Products: []models.CartLine{}}
			if err := s.Carts.CreateCart(ctx, cart); err != nil {
				if errors.Is(err, repo.ErrDuplicate) {
					s.conflict(l, "create")
					return retry.RetryableError(err)
				}
				return err
			}
		case err != nil:
			return err
		}

		if !apply(cart) {
			out = cart
			return nil
		}

		if err := s.Carts.SaveCart(ctx, cart); err != nil {
			if errors.Is(err, repo.ErrVersionConflict) {
				s.conflict(l, "save")
				return retry.RetryableError(err)
			}
			return err
		}
		out = cart
		return nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrVersionConflict) || errors.Is(err, repo.ErrDuplicate) {
			l.Error("cart_update_failed", "status", 409, "error", err)
			return nil, fmt.Errorf("cart for %s changed concurrently: %w", userID, ErrConflict)
		}
		return nil, fmt.Errorf("update cart: %w", err)
	}
	return out, nil
}

func (s *CartService) conflict(l *slog.Logger, stage string) {
	l.Debug("cart_conflict", "stage", stage, "status", "retry")
	if s.OnConflict != nil {
		s.OnConflict()
	}
}

func (s *CartService) resolve(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {
	ids := make([]string, 0, len(cart.Products))
	for _, line := range cart.Products {
		ids = append(ids, line.ProductID)
	}

	products, err := s.Products.FindProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	out := &models.ResolvedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Products:  make([]models.ResolvedLine, 0, len(cart.Products)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, line := range cart.Products {
		rl := models.ResolvedLine{ProductID: line.ProductID, Quantity: line.Quantity}
		if p, ok := products[line.ProductID]; ok {
			p := p
			rl.Product = &p
		}
		out.Products = append(out.Products, rl)
	}
	return out, nil
}

func (s *CartService) maxRetries() uint64 {
	if s.MaxRetries == 0 {
		return defaultCartRetries
	}
	return s.MaxRetries
}

func (s *CartService) retryDelay() time.Duration {
	if s.RetryDelay <= 0 {
		return defaultCartRetryDelay
	}
	return s.RetryDelay
}
