package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/storefront/internal/models"
	"gorm.io/gorm/clause"
)

func (r *GormRepo) FindCartByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, notFound(err)
	}
	if cart.Products == nil {
		cart.Products = []models.CartLine{}
	}
	return &cart, nil
}

// CreateCart inserts a fresh cart. ErrDuplicate means another request created
// the cart for this user first.
func (r *GormRepo) CreateCart(ctx context.Context, c *models.Cart) error {
	if c.Products == nil {
		c.Products = []models.CartLine{}
	}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// SaveCart writes the line items only if the stored version still matches
// c.Version, then bumps c.Version.
func (r *GormRepo) SaveCart(ctx context.Context, c *models.Cart) error {
	next := models.Cart{
		Products:  c.Products,
		Version:   c.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
	res := r.DB.WithContext(ctx).
		Model(&models.Cart{ID: c.ID}).
		Where("version = ?", c.Version).
		Select("Products", "Version", "UpdatedAt").
		Updates(&next)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	c.Version = next.Version
	c.UpdatedAt = next.UpdatedAt
	return nil
}
