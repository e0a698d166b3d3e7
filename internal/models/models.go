package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36"                     json:"id"        bson:"_id"`
	FullName     string    `gorm:"not null"                               json:"fullName"  bson:"fullName"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"          json:"email"     bson:"email"`
	Username     string    `gorm:"uniqueIndex;size:255;not null"          json:"username"  bson:"username"`
	PasswordHash string    `gorm:"not null"                               json:"-"         bson:"passwordHash"`
	Address      string    `gorm:"index:idx_user_address;size:255"        json:"address"   bson:"address"`
	City         string    `gorm:"index:idx_user_address;size:255"        json:"city"      bson:"city"`
	State        string    `gorm:"index:idx_user_address;size:255"        json:"state"     bson:"state"`
	Pincode      string    `gorm:"index:idx_user_address;size:255"        json:"pincode"   bson:"pincode"`
	CreatedAt    time.Time `                                              json:"createdAt" bson:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CartLine is one product reference inside a cart. ProductID is unique per cart.
type CartLine struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity"  bson:"quantity"`
}

type Cart struct {
	ID        string     `gorm:"primaryKey;size:36"              json:"id"        bson:"_id"`
	UserID    string     `gorm:"uniqueIndex;size:255;not null"   json:"userId"    bson:"userId"`
	Products  []CartLine `gorm:"type:text;serializer:json"       json:"products"  bson:"products"`
	Version   int64      `gorm:"not null;default:0"              json:"-"         bson:"version"`
	UpdatedAt time.Time  `                                       json:"updatedAt" bson:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AddQuantity merges qty into the line for productID, appending a new line if
// the product is not in the cart yet.
func (c *Cart) AddQuantity(productID string, qty int) {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			c.Products[i].Quantity += qty
			return
		}
	}
	c.Products = append(c.Products, CartLine{ProductID: productID, Quantity: qty})
}

// Remove drops every line for productID and reports whether anything changed.
func (c *Cart) Remove(productID string) bool {
	kept := make([]CartLine, 0, len(c.Products))
	for _, l := range c.Products {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	changed := len(kept) != len(c.Products)
	c.Products = kept
	return changed
}

type Product struct {
	ID          string  `gorm:"primaryKey;size:36" json:"id"          bson:"_id"`
	Name        string  `gorm:"not null"           json:"name"        bson:"name"`
	Description string  `gorm:"not null"           json:"description" bson:"description"`
	Price       float64 `gorm:"not null"           json:"price"       bson:"price"`
	Count       uint    `                          json:"count"       bson:"count"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Feedback struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"          bson:"_id"`
	Name        string    `                          json:"name"        bson:"name"`
	Email       string    `                          json:"email"       bson:"email"`
	Message     string    `                          json:"message"     bson:"message"`
	SubmittedAt time.Time `gorm:"autoCreateTime"     json:"submittedAt" bson:"submittedAt"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (Feedback) TableName() string {
	return "feedback"
}

type Contact struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"          bson:"_id"`
	Name        string    `gorm:"not null"           json:"name"        bson:"name"`
	Email       string    `gorm:"not null"           json:"email"       bson:"email"`
	Subject     string    `gorm:"not null"           json:"subject"     bson:"subject"`
	Message     string    `gorm:"not null"           json:"message"     bson:"message"`
	SubmittedAt time.Time `gorm:"autoCreateTime"     json:"submittedAt" bson:"submittedAt"`
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// ResolvedLine is a cart line with its product looked up. Product is nil when
// the referenced product no longer exists.
type ResolvedLine struct {
	ProductID string   `json:"productId"`
	Quantity  int      `json:"quantity"`
	Product   *Product `json:"product"`
}

type ResolvedCart struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	Products  []ResolvedLine `json:"products"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
