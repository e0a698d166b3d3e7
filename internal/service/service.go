package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/payment"
)

var (
	ErrValidation = errors.New("validation")
	ErrConflict   = errors.New("conflict")

	ErrEmailTaken    = fmt.Errorf("email already registered: %w", ErrConflict)
	ErrUsernameTaken = fmt.Errorf("username already registered: %w", ErrConflict)
	ErrAddressTaken  = fmt.Errorf("address already registered: %w", ErrConflict)

	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type CartRepo interface {
	FindCartByUser(ctx context.Context, userID string) (*models.Cart, error)
	CreateCart(ctx context.Context, c *models.Cart) error
	SaveCart(ctx context.Context, c *models.Cart) error
}

type ProductResolver interface {
	FindProducts(ctx context.Context, ids []string) (map[string]models.Product, error)
}

type UserRepo interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByAddress(ctx context.Context, address, city, state, pincode string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context) ([]models.User, error)
}

type FormRepo interface {
	CreateFeedback(ctx context.Context, f *models.Feedback) error
	CreateContact(ctx context.Context, c *models.Contact) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, req payment.OrderRequest) (payment.Order, error)
}

type Mailer interface {
	Send(ctx context.Context, subject, body string) error
}

// publish never fails the caller; broker trouble is only logged.
func publish(ctx context.Context, p events.Publisher, topic, key, eventType string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, topic, key, events.New(eventType, data)); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			"topic", topic,
			"event", eventType,
			"error", err,
		)
	}
}
