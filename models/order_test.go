package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},

		// No skipping forward.
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusDelivered, false},

		// No moving backward.
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusShipped, false},

		// Cancellation from any non-terminal state.
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, true},

		// Terminal states stay terminal.
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusDelivered, false},

		// Self-transitions are not transitions.
		{OrderStatusPending, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransitionSideEffects(t *testing.T) {
	mugID := primitive.NewObjectID()
	sheetID := primitive.NewObjectID()
	order := Order{
		Items: []OrderItem{
			{ProductID: mugID, Quantity: 2},
			{ProductID: sheetID, Quantity: 1},
		},
		TotalAmount:   2060,
		PaidAmount:    500,
		DueAmount:     1560,
		PaymentStatus: PaymentStatusCOD,
	}

	t.Run("delivering a COD order settles the full amount", func(t *testing.T) {
		fx := order.TransitionSideEffects(OrderStatusDelivered)
		assert.True(t, fx.StampDelivery)
		assert.True(t, fx.SettlePayment)
		assert.Equal(t, 2060.0, fx.PaidAmount)
		assert.Equal(t, 0.0, fx.DueAmount)
		assert.Empty(t, fx.StockRestorations)
	})

	t.Run("delivering a prepaid order only stamps delivery", func(t *testing.T) {
		prepaid := order
		prepaid.PaymentStatus = PaymentStatusPaid
		prepaid.PaidAmount = 2060
		prepaid.DueAmount = 0

		fx := prepaid.TransitionSideEffects(OrderStatusDelivered)
		assert.True(t, fx.StampDelivery)
		assert.False(t, fx.SettlePayment)
	})

	t.Run("cancelling restores every line's stock and sold count", func(t *testing.T) {
		fx := order.TransitionSideEffects(OrderStatusCancelled)
		assert.False(t, fx.StampDelivery)
		assert.False(t, fx.SettlePayment)
		assert.Equal(t, []StockRestoration{
			{ProductID: mugID, Quantity: 2},
			{ProductID: sheetID, Quantity: 1},
		}, fx.StockRestorations)
	})

	t.Run("forward moves carry no side effects", func(t *testing.T) {
		for _, next := range []OrderStatus{OrderStatusProcessing, OrderStatusShipped} {
			fx := order.TransitionSideEffects(next)
			assert.False(t, fx.StampDelivery, string(next))
			assert.False(t, fx.SettlePayment, string(next))
			assert.Empty(t, fx.StockRestorations, string(next))
		}
	})
}

func TestOrderStatusValidity(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	} {
		assert.True(t, s.IsValid(), string(s))
	}
	assert.False(t, OrderStatus("refunded").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestShippingAddressComplete(t *testing.T) {
	full := ShippingAddress{Name: "Rahim", Phone: "01700000000", Street: "12 Mirpur Rd", City: "Dhaka"}
	assert.True(t, full.Complete())

	missingCity := full
	missingCity.City = ""
	assert.False(t, missingCity.Complete())

	missingPhone := full
	missingPhone.Phone = ""
	assert.False(t, missingPhone.Complete())

	assert.False(t, ShippingAddress{}.Complete())
}

func TestCartSubtotal(t *testing.T) {
	cart := Cart{Items: []CartItem{
		{Quantity: 2, Price: 1000, TotalPrice: 2000},
		{Quantity: 1, Price: 600, TotalPrice: 600},
	}}
	assert.Equal(t, 2600.0, cart.Subtotal())

	assert.Equal(t, 0.0, (&Cart{}).Subtotal())
}
