package models

import "time"

type CartItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type Cart struct {
	ID        string     `json:"_id"`
	UserID    string     `json:"user"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Find returns the index of the line holding productID, or -1.
func (c *Cart) Find(productID string) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

type CartItemDetail struct {
	Product  *ProductDetail `json:"product"`
	Quantity int            `json:"quantity"`
}

type CartDetail struct {
	ID        string           `json:"_id,omitempty"`
	UserID    string           `json:"user,omitempty"`
	Items     []CartItemDetail `json:"items"`
	UpdatedAt *time.Time       `json:"updatedAt,omitempty"`
}

type AddCartItemRequest struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// SetCartItemRequest accepts zero or negative quantities, which drop the line.
type SetCartItemRequest struct {
	ProductID string `json:"product" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type Wishlist struct {
	ID         string    `json:"_id"`
	UserID     string    `json:"user"`
	ProductIDs []string  `json:"products"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type WishlistDetail struct {
	ID       string          `json:"_id,omitempty"`
	UserID   string          `json:"user,omitempty"`
	Products []ProductDetail `json:"products"`
}

type WishlistRequest struct {
	ProductID string `json:"product" binding:"required"`
}
