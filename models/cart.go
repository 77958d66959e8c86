package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusInactive  CartStatus = "inactive"
	CartStatusPending   CartStatus = "pending"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type CartItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"itemId"`
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Name      string             `bson:"name" json:"name"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	// Price is the product's finalPrice snapshotted when the item was
	// added; later product edits do not move it.
	Price      float64 `bson:"price" json:"price"`
	TotalPrice float64 `bson:"totalPrice" json:"totalPrice"`
}

type Cart struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []CartItem         `bson:"items" json:"items"`

	AppliedPromo   string       `bson:"appliedPromo,omitempty" json:"appliedPromo,omitempty"`
	DiscountAmount float64      `bson:"discountAmount" json:"discountAmount"`
	DiscountType   DiscountType `bson:"discountType,omitempty" json:"discountType,omitempty"`

	// TotalAmount is recomputed from Items on every write, never set
	// independently.
	TotalAmount float64    `bson:"totalAmount" json:"totalAmount"`
	Status      CartStatus `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Subtotal sums the line totals of the current items.
func (c *Cart) Subtotal() float64 {
	var sum float64
	for _, item := range c.Items {
		sum += item.TotalPrice
	}
	return sum
}
