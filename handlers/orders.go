package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/middleware"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/pricing"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type OrderItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	IsCOD           bool                   `json:"isCOD"`
	PaidAmount      float64                `json:"paidAmount"`
	ExtraCharge     float64                `json:"extraCharge"`
}

// apiError carries an HTTP status out of the transaction callback so the
// handler can map stock/pricing failures onto the right response code.
type apiError struct {
	code    int
	message string
}

func (e *apiError) Error() string { return e.message }

// CreateOrder places an order: resolves every line against current
// product pricing, decrements stock, writes the order document and pulls
// the ordered items from the cart — all inside one Mongo transaction, so
// a failure on any line leaves no stock decremented.
func CreateOrder(c echo.Context) error {
	userID, ok := c.Get("userID").(primitive.ObjectID)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not authenticated"})
	}

	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Order must contain at least one item"})
	}
	if !req.ShippingAddress.Complete() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Shipping address is incomplete"})
	}
	if req.ExtraCharge < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Extra charge cannot be negative"})
	}

	isCOD := req.IsCOD || strings.EqualFold(req.PaymentMethod, "cod")
	if isCOD && req.PaidAmount < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Paid amount cannot be negative"})
	}

	itemIDs := make([]primitive.ObjectID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
		}
		if item.Quantity < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
		}
		itemIDs = append(itemIDs, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := database.Client.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start transaction"})
	}
	defer session.EndSession(ctx)

	var order models.Order

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		products := database.DB.Collection("products")
		orderItems := make([]models.OrderItem, 0, len(req.Items))

		for i, item := range req.Items {
			var product models.Product
			if err := products.FindOne(sc, bson.M{"_id": itemIDs[i]}).Decode(&product); err != nil {
				if err == mongo.ErrNoDocuments {
					return nil, &apiError{http.StatusNotFound,
						fmt.Sprintf("Product %s not found", item.ProductID)}
				}
				return nil, err
			}

			line, err := pricing.ResolveLine(&product, item.Quantity)
			if err != nil {
				switch {
				case errors.Is(err, pricing.ErrInsufficientStock):
					return nil, &apiError{http.StatusBadRequest,
						fmt.Sprintf("Insufficient stock for %s", product.Name)}
				case errors.Is(err, pricing.ErrProductDisabled):
					return nil, &apiError{http.StatusBadRequest,
						fmt.Sprintf("%s is not available", product.Name)}
				default:
					return nil, &apiError{http.StatusBadRequest, err.Error()}
				}
			}

			// Guarded decrement: the stock filter makes two concurrent
			// last-unit orders conflict instead of both committing.
			res, err := products.UpdateOne(sc,
				bson.M{"_id": product.ID, "stock": bson.M{"$gte": item.Quantity}},
				bson.M{
					"$inc": bson.M{"stock": -item.Quantity, "soldCount": item.Quantity},
					"$set": bson.M{"updatedAt": time.Now()},
				},
			)
			if err != nil {
				return nil, err
			}
			if res.ModifiedCount == 0 {
				return nil, &apiError{http.StatusBadRequest,
					fmt.Sprintf("Insufficient stock for %s", product.Name)}
			}

			orderItems = append(orderItems, line)
		}

		// Promo state comes from the active cart; the discount snapshot
		// is capped at the order subtotal so it can never go negative.
		var cart models.Cart
		discount := 0.0
		appliedPromo := ""
		var discountType models.DiscountType
		err := database.DB.Collection("carts").FindOne(sc, bson.M{
			"userId": userID,
			"status": models.CartStatusActive,
		}).Decode(&cart)
		if err == nil && cart.AppliedPromo != "" {
			appliedPromo = cart.AppliedPromo
			discountType = cart.DiscountType
			discount = cart.DiscountAmount
		} else if err != nil && err != mongo.ErrNoDocuments {
			return nil, err
		}

		var subtotal float64
		for _, line := range orderItems {
			subtotal += line.TotalPrice
		}
		if discount > subtotal {
			discount = subtotal
		}

		deliveryCharge := pricing.DeliveryCharge(req.ShippingAddress.City)
		totals := pricing.Aggregate(orderItems, discount, deliveryCharge, req.ExtraCharge)

		split, err := pricing.SplitPayment(totals.TotalAmount, isCOD, req.PaidAmount)
		if err != nil {
			return nil, &apiError{http.StatusBadRequest, err.Error()}
		}

		now := time.Now()
		order = models.Order{
			ID:                         primitive.NewObjectID(),
			UserID:                     userID,
			Items:                      orderItems,
			Subtotal:                   totals.Subtotal,
			TotalUnitPrice:             totals.TotalUnitPrice,
			TotalProfit:                totals.TotalProfit,
			TotalProductDeliveryCharge: totals.TotalProductDeliveryCharge,
			TotalSellingPrice:          totals.TotalSellingPrice,
			TotalOfferValue:            totals.TotalOfferValue,
			NetProfit:                  totals.NetProfit,
			DeliveryCharge:             totals.DeliveryCharge,
			ExtraCharge:                totals.ExtraCharge,
			AppliedPromo:               appliedPromo,
			DiscountAmount:             totals.DiscountAmount,
			DiscountType:               discountType,
			TotalAmount:                totals.TotalAmount,
			PaidAmount:                 split.PaidAmount,
			DueAmount:                  split.DueAmount,
			PaymentMethod:              req.PaymentMethod,
			PaymentStatus:              split.Status,
			ShippingAddress:            req.ShippingAddress,
			Status:                     models.OrderStatusPending,
			StatusHistory: []models.StatusHistoryEntry{{
				Status:    models.OrderStatusPending,
				ChangedBy: userID,
				Note:      "Order placed",
				ChangedAt: now,
			}},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := database.DB.Collection("orders").InsertOne(sc, order); err != nil {
			return nil, err
		}

		// Ordered items leave the cart; the promo snapshot goes with them.
		_, err = database.DB.Collection("carts").UpdateOne(sc,
			bson.M{"userId": userID, "status": models.CartStatusActive},
			bson.M{
				"$pull": bson.M{"items": bson.M{"productId": bson.M{"$in": itemIDs}}},
				"$set": bson.M{
					"appliedPromo":   "",
					"discountAmount": 0,
					"discountType":   "",
					"updatedAt":      now,
				},
			},
		)
		if err != nil {
			return nil, err
		}

		return nil, nil
	})

	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return c.JSON(apiErr.code, map[string]string{"error": apiErr.message})
		}
		zap.L().Error("order transaction failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	middleware.RecordOrderCreated(order.PaymentMethod)

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order": order,
		"paymentSummary": map[string]interface{}{
			"totalAmount":   order.TotalAmount,
			"paidAmount":    order.PaidAmount,
			"dueAmount":     order.DueAmount,
			"paymentStatus": order.PaymentStatus,
		},
	})
}

// GetMyOrders lists the caller's orders, newest first.
func GetMyOrders(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("orders").Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

func GetMyOrder(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var order models.Order
	err = database.DB.Collection("orders").FindOne(
		c.Request().Context(),
		bson.M{"_id": orderID, "userId": userID},
	).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}
