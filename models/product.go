package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`

	// Pricing fields. Price is the base cost per unit. Profit is the
	// legacy margin field, being migrated to ExpectedProfit. SellingPrice
	// and FinalPrice are used as stored when set, otherwise derived by
	// the pricing package. FinalPrice is the only amount ever charged.
	Price          float64 `bson:"price" json:"price"`
	Profit         float64 `bson:"profit,omitempty" json:"profit,omitempty"`
	ExpectedProfit float64 `bson:"expectedProfit,omitempty" json:"expectedProfit,omitempty"`
	SellingPrice   float64 `bson:"sellingPrice,omitempty" json:"sellingPrice,omitempty"`
	OfferValue     float64 `bson:"offerValue,omitempty" json:"offerValue,omitempty"`
	FinalPrice     float64 `bson:"finalPrice,omitempty" json:"finalPrice,omitempty"`
	DeliveryCharge float64 `bson:"deliveryCharge,omitempty" json:"deliveryCharge,omitempty"`

	Stock     int      `bson:"stock" json:"stock"`
	SoldCount int      `bson:"soldCount" json:"soldCount"`
	Images    []string `bson:"images,omitempty" json:"images,omitempty"`
	IsEnabled bool     `bson:"isEnabled" json:"isEnabled"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
