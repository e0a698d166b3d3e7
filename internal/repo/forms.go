package repo

import (
	"context"

	"github.com/Skotchmaster/storefront/internal/models"
)

func (r *GormRepo) CreateFeedback(ctx context.Context, f *models.Feedback) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) CreateContact(ctx context.Context, c *models.Contact) error {
	return r.DB.WithContext(ctx).Create(c).Error
}
