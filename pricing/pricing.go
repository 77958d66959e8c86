// Package pricing holds the checkout arithmetic: the product price
// fallback chain, per-line resolution, delivery tiers, promo discounts,
// order aggregation and the payment split. Everything here is pure;
// handlers do the I/O.
package pricing

import (
	"errors"
	"strings"

	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductDisabled   = errors.New("product is not available")
	ErrInvalidPaidAmount = errors.New("paid amount must be between 0 and the order total")
)

// Flat delivery tiers: inside Dhaka vs everywhere else.
const (
	DeliveryChargeDhaka   = 60
	DeliveryChargeOutside = 120
)

// SellingPrice returns the stored selling price when present, otherwise
// price plus margin. ExpectedProfit supersedes the legacy Profit field
// when both are set.
func SellingPrice(p *models.Product) float64 {
	if p.SellingPrice > 0 {
		return p.SellingPrice
	}
	profit := p.Profit
	if p.ExpectedProfit > 0 {
		profit = p.ExpectedProfit
	}
	return p.Price + profit
}

// FinalPrice is the amount actually charged per unit: selling price
// minus the offer, floored at zero. This is the single implementation
// of the formula; nothing else derives it.
func FinalPrice(p *models.Product) float64 {
	if p.FinalPrice > 0 {
		return p.FinalPrice
	}
	final := SellingPrice(p) - p.OfferValue
	if final < 0 {
		return 0
	}
	return final
}

// UnitProfit is the realized margin per unit, finalPrice minus base
// price. The stored profit field is an expectation, not what the sale
// actually earns once offers are applied.
func UnitProfit(p *models.Product) float64 {
	return FinalPrice(p) - p.Price
}

// ResolveLine snapshots one (product, quantity) pair into an order line.
// The caller has already fetched the product; a missing product is its
// NotFound, not ours.
func ResolveLine(p *models.Product, quantity int) (models.OrderItem, error) {
	if quantity < 1 {
		return models.OrderItem{}, ErrInvalidQuantity
	}
	if !p.IsEnabled {
		return models.OrderItem{}, ErrProductDisabled
	}
	if quantity > p.Stock {
		return models.OrderItem{}, ErrInsufficientStock
	}

	final := FinalPrice(p)
	return models.OrderItem{
		ProductID:      p.ID,
		Name:           p.Name,
		Quantity:       quantity,
		UnitPrice:      p.Price,
		Profit:         final - p.Price,
		DeliveryCharge: p.DeliveryCharge,
		SellingPrice:   SellingPrice(p),
		OfferValue:     p.OfferValue,
		FinalPrice:     final,
		TotalPrice:     final * float64(quantity),
	}, nil
}

// DeliveryCharge returns the flat rate for a shipping city: 60 inside
// Dhaka, 120 everywhere else. Matching is a case-insensitive substring
// check so "North Dhaka" and "dhaka" both hit the inside tier.
func DeliveryCharge(city string) float64 {
	if strings.Contains(strings.ToLower(city), "dhaka") {
		return DeliveryChargeDhaka
	}
	return DeliveryChargeOutside
}

// Discount computes a promo discount against a subtotal. Percentage
// discounts scale with the subtotal; fixed discounts are capped at the
// subtotal so an order never goes negative.
func Discount(dtype models.DiscountType, value, subtotal float64) float64 {
	if value <= 0 || subtotal <= 0 {
		return 0
	}
	var d float64
	switch dtype {
	case models.DiscountPercentage:
		d = subtotal * value / 100
	case models.DiscountFixed:
		d = value
	default:
		return 0
	}
	if d > subtotal {
		d = subtotal
	}
	return d
}

// Totals carries the order-level aggregates over resolved lines.
type Totals struct {
	Subtotal                   float64
	TotalUnitPrice             float64
	TotalProfit                float64
	TotalProductDeliveryCharge float64
	TotalSellingPrice          float64
	TotalOfferValue            float64
	DeliveryCharge             float64
	ExtraCharge                float64
	DiscountAmount             float64
	NetProfit                  float64
	TotalAmount                float64
}

// Aggregate folds resolved lines plus order-level charges into totals.
func Aggregate(items []models.OrderItem, discount, deliveryCharge, extraCharge float64) Totals {
	t := Totals{
		DeliveryCharge: deliveryCharge,
		ExtraCharge:    extraCharge,
		DiscountAmount: discount,
	}
	for _, it := range items {
		qty := float64(it.Quantity)
		t.Subtotal += it.TotalPrice
		t.TotalUnitPrice += it.UnitPrice * qty
		t.TotalProfit += it.Profit * qty
		t.TotalProductDeliveryCharge += it.DeliveryCharge * qty
		t.TotalSellingPrice += it.SellingPrice * qty
		t.TotalOfferValue += it.OfferValue * qty
	}
	t.NetProfit = t.TotalProfit - discount
	t.TotalAmount = t.Subtotal + deliveryCharge + extraCharge - discount
	return t
}

// PaymentSplit is the terminal payment configuration decided at order
// creation and never revisited automatically.
type PaymentSplit struct {
	PaidAmount float64
	DueAmount  float64
	Status     models.PaymentStatus
}

// SplitPayment decides paid/due at checkout. Non-COD orders are paid in
// full up front. COD orders may carry a partial advance; the advance
// must sit within [0, total] or the whole order is rejected.
func SplitPayment(total float64, isCOD bool, requestedPaid float64) (PaymentSplit, error) {
	if !isCOD {
		return PaymentSplit{
			PaidAmount: total,
			DueAmount:  0,
			Status:     models.PaymentStatusPaid,
		}, nil
	}
	if requestedPaid < 0 || requestedPaid > total {
		return PaymentSplit{}, ErrInvalidPaidAmount
	}
	return PaymentSplit{
		PaidAmount: requestedPaid,
		DueAmount:  total - requestedPaid,
		Status:     models.PaymentStatusCOD,
	}, nil
}
