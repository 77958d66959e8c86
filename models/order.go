package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusCOD      PaymentStatus = "cod"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// IsValid reports whether s is one of the declared order statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether s → next is an allowed transition.
// Fulfilment moves strictly forward (pending → processing → shipped →
// delivered); cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	switch s {
	case OrderStatusPending:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

// StockRestoration is one product-level compensation a cancellation
// implies: the line's quantity goes back to stock and comes off
// soldCount.
type StockRestoration struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// SideEffects describes what entering a status does to an order beyond
// the status field itself.
type SideEffects struct {
	// SettlePayment forces paymentStatus=paid with the amounts below.
	// COD collects the outstanding due at the door, so delivery settles
	// the split.
	SettlePayment bool
	PaidAmount    float64
	DueAmount     float64

	// StampDelivery records actualDelivery.
	StampDelivery bool

	// StockRestorations is non-empty only for cancellation.
	StockRestorations []StockRestoration
}

// TransitionSideEffects computes the consequences of moving the order
// into next. It assumes the transition itself is allowed; callers gate
// on CanTransitionTo first.
func (o *Order) TransitionSideEffects(next OrderStatus) SideEffects {
	var fx SideEffects
	switch next {
	case OrderStatusDelivered:
		fx.StampDelivery = true
		if o.PaymentStatus == PaymentStatusCOD {
			fx.SettlePayment = true
			fx.PaidAmount = o.TotalAmount
			fx.DueAmount = 0
		}
	case OrderStatusCancelled:
		fx.StockRestorations = make([]StockRestoration, 0, len(o.Items))
		for _, item := range o.Items {
			fx.StockRestorations = append(fx.StockRestorations, StockRestoration{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
	}
	return fx
}

// OrderItem is an immutable snapshot of one purchased line. Product
// price changes after checkout never touch these fields.
type OrderItem struct {
	ProductID      primitive.ObjectID `bson:"productId" json:"productId"`
	Name           string             `bson:"name" json:"name"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	UnitPrice      float64            `bson:"unitPrice" json:"unitPrice"`
	Profit         float64            `bson:"profit" json:"profit"`
	DeliveryCharge float64            `bson:"deliveryCharge" json:"deliveryCharge"`
	SellingPrice   float64            `bson:"sellingPrice" json:"sellingPrice"`
	OfferValue     float64            `bson:"offerValue" json:"offerValue"`
	FinalPrice     float64            `bson:"finalPrice" json:"finalPrice"`
	TotalPrice     float64            `bson:"totalPrice" json:"totalPrice"`
}

// StatusHistoryEntry records one transition. The history is append-only;
// entries are never amended or removed.
type StatusHistoryEntry struct {
	Status    OrderStatus        `bson:"status" json:"status"`
	ChangedBy primitive.ObjectID `bson:"changedBy,omitempty" json:"changedBy,omitempty"`
	Note      string             `bson:"note,omitempty" json:"note,omitempty"`
	ChangedAt time.Time          `bson:"changedAt" json:"changedAt"`
}

type ShippingAddress struct {
	Name       string `bson:"name" json:"name"`
	Phone      string `bson:"phone" json:"phone"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode,omitempty" json:"postalCode,omitempty"`
}

// Complete reports whether the address carries the fields checkout needs.
func (a ShippingAddress) Complete() bool {
	return a.Name != "" && a.Phone != "" && a.Street != "" && a.City != ""
}

type Order struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Items  []OrderItem        `bson:"items" json:"items"`

	// Order-level aggregates over Items, written once at creation.
	// Corrections happen only through cmd/recompute-orders.
	TotalUnitPrice             float64 `bson:"totalUnitPrice" json:"totalUnitPrice"`
	TotalProfit                float64 `bson:"totalProfit" json:"totalProfit"`
	TotalProductDeliveryCharge float64 `bson:"totalProductDeliveryCharge" json:"totalProductDeliveryCharge"`
	TotalSellingPrice          float64 `bson:"totalSellingPrice" json:"totalSellingPrice"`
	TotalOfferValue            float64 `bson:"totalOfferValue" json:"totalOfferValue"`
	NetProfit                  float64 `bson:"netProfit" json:"netProfit"`

	Subtotal       float64 `bson:"subtotal" json:"subtotal"`
	DeliveryCharge float64 `bson:"deliveryCharge" json:"deliveryCharge"`
	ExtraCharge    float64 `bson:"extraCharge" json:"extraCharge"`

	AppliedPromo   string       `bson:"appliedPromo,omitempty" json:"appliedPromo,omitempty"`
	DiscountAmount float64      `bson:"discountAmount" json:"discountAmount"`
	DiscountType   DiscountType `bson:"discountType,omitempty" json:"discountType,omitempty"`

	// paidAmount + dueAmount == totalAmount at creation. For non-COD
	// orders dueAmount is always zero.
	TotalAmount   float64       `bson:"totalAmount" json:"totalAmount"`
	PaidAmount    float64       `bson:"paidAmount" json:"paidAmount"`
	DueAmount     float64       `bson:"dueAmount" json:"dueAmount"`
	PaymentMethod string        `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`

	ShippingAddress ShippingAddress      `bson:"shippingAddress" json:"shippingAddress"`
	Status          OrderStatus          `bson:"status" json:"status"`
	StatusHistory   []StatusHistoryEntry `bson:"statusHistory" json:"statusHistory"`

	EstimatedDelivery time.Time `bson:"estimatedDelivery,omitempty" json:"estimatedDelivery,omitempty"`
	ActualDelivery    time.Time `bson:"actualDelivery,omitempty" json:"actualDelivery,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
