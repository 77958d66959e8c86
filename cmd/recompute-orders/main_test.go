package main

import (
	"testing"

	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/pricing"
	"github.com/stretchr/testify/assert"
)

func TestRebalance(t *testing.T) {
	tests := []struct {
		name        string
		total, paid float64
		wantPaid    float64
		wantDue     float64
	}{
		{"partial advance keeps split", 2060, 500, 500, 1560},
		{"fully paid", 2060, 2060, 2060, 0},
		{"nothing paid", 2060, 0, 0, 2060},
		{"total shrank below paid caps at total", 1800, 2060, 1800, 0},
		{"negative paid floors at zero", 2060, -5, 0, 2060},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, due := rebalance(tt.total, tt.paid)
			assert.Equal(t, tt.wantPaid, paid)
			assert.Equal(t, tt.wantDue, due)
			assert.Equal(t, tt.total, paid+due)
		})
	}
}

func TestDriftsDetection(t *testing.T) {
	lines := []models.OrderItem{
		{Quantity: 2, UnitPrice: 1000, Profit: 200, SellingPrice: 1300, OfferValue: 100, FinalPrice: 1200, TotalPrice: 2400},
	}
	totals := pricing.Aggregate(lines, 0, 60, 0)

	clean := models.Order{
		Items:             lines,
		Subtotal:          totals.Subtotal,
		TotalUnitPrice:    totals.TotalUnitPrice,
		TotalProfit:       totals.TotalProfit,
		TotalSellingPrice: totals.TotalSellingPrice,
		TotalOfferValue:   totals.TotalOfferValue,
		NetProfit:         totals.NetProfit,
		TotalAmount:       totals.TotalAmount,
	}
	assert.False(t, drifts(clean, totals, lines))

	// An aggregate written by the old profit formula stands out.
	stale := clean
	stale.NetProfit = clean.NetProfit + 150
	assert.True(t, drifts(stale, totals, lines))

	// So does a line carrying the expected rather than realized margin.
	staleLine := clean
	staleLine.Items = []models.OrderItem{lines[0]}
	staleLine.Items[0].Profit = 300
	assert.True(t, drifts(staleLine, totals, lines))
}
