package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// GetAllOrders lists orders for the admin panel, filterable by status
// and payment status, paginated.
func GetAllOrders(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		if !models.OrderStatus(status).IsValid() {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid status filter"})
		}
		filter["status"] = status
	}
	if ps := c.QueryParam("paymentStatus"); ps != "" {
		filter["paymentStatus"] = ps
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := database.DB.Collection("orders")

	total, err := collection.CountDocuments(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to count orders"})
	}

	cursor, err := collection.Find(ctx, filter, options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page-1)*limit)).
		SetLimit(int64(limit)),
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"pagination": map[string]interface{}{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + int64(limit) - 1) / int64(limit),
		},
	})
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus moves an order through its lifecycle. Delivering a
// COD order settles the due amount; cancelling restores stock for every
// line. Each transition appends to the immutable status history.
func UpdateOrderStatus(c echo.Context) error {
	adminID := c.Get("userID").(primitive.ObjectID)

	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if !req.Status.IsValid() {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown order status"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	session, err := database.Client.StartSession()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to start transaction"})
	}
	defer session.EndSession(ctx)

	var updated models.Order

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		orders := database.DB.Collection("orders")

		var order models.Order
		if err := orders.FindOne(sc, bson.M{"_id": orderID}).Decode(&order); err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, &apiError{http.StatusNotFound, "Order not found"}
			}
			return nil, err
		}

		if !order.Status.CanTransitionTo(req.Status) {
			return nil, &apiError{http.StatusBadRequest,
				"Cannot move order from " + string(order.Status) + " to " + string(req.Status)}
		}

		now := time.Now()
		effects := order.TransitionSideEffects(req.Status)

		set := bson.M{
			"status":    req.Status,
			"updatedAt": now,
		}
		if effects.StampDelivery {
			set["actualDelivery"] = now
		}
		if effects.SettlePayment {
			set["paymentStatus"] = models.PaymentStatusPaid
			set["paidAmount"] = effects.PaidAmount
			set["dueAmount"] = effects.DueAmount
		}

		products := database.DB.Collection("products")
		for _, r := range effects.StockRestorations {
			_, err := products.UpdateOne(sc,
				bson.M{"_id": r.ProductID},
				bson.M{
					"$inc": bson.M{"stock": r.Quantity, "soldCount": -r.Quantity},
					"$set": bson.M{"updatedAt": now},
				},
			)
			if err != nil {
				return nil, err
			}
		}

		update := bson.M{
			"$set": set,
			"$push": bson.M{"statusHistory": models.StatusHistoryEntry{
				Status:    req.Status,
				ChangedBy: adminID,
				Note:      req.Note,
				ChangedAt: now,
			}},
		}

		if err := orders.FindOneAndUpdate(sc, bson.M{"_id": orderID}, update,
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated); err != nil {
			return nil, err
		}

		return nil, nil
	})

	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			return c.JSON(apiErr.code, map[string]string{"error": apiErr.message})
		}
		zap.L().Error("status transition failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order status"})
	}

	return c.JSON(http.StatusOK, updated)
}

type UpdatePaymentRequest struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaidAmount    *float64             `json:"paidAmount"`
}

// UpdateOrderPayment corrects payment bookkeeping on an order. The
// paid + due == total invariant is preserved: setting paidAmount moves
// the remainder to dueAmount.
func UpdateOrderPayment(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("orderId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	switch req.PaymentStatus {
	case "", models.PaymentStatusUnpaid, models.PaymentStatusPaid,
		models.PaymentStatusCOD, models.PaymentStatusRefunded, models.PaymentStatusFailed:
	default:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown payment status"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders := database.DB.Collection("orders")

	var order models.Order
	if err := orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
	}

	set := bson.M{"updatedAt": time.Now()}
	if req.PaymentStatus != "" {
		set["paymentStatus"] = req.PaymentStatus
		if req.PaymentStatus == models.PaymentStatusPaid {
			set["paidAmount"] = order.TotalAmount
			set["dueAmount"] = 0.0
		}
	}
	if req.PaidAmount != nil {
		paid := *req.PaidAmount
		if paid < 0 || paid > order.TotalAmount {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Paid amount must be between 0 and the order total"})
		}
		set["paidAmount"] = paid
		set["dueAmount"] = order.TotalAmount - paid
	}

	var updated models.Order
	if err := orders.FindOneAndUpdate(ctx, bson.M{"_id": orderID}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update payment"})
	}

	return c.JSON(http.StatusOK, updated)
}

// GetOrderStats aggregates the numbers the admin dashboard shows:
// per-status counts, realized revenue and profit, outstanding COD dues.
func GetOrderStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders := database.DB.Collection("orders")

	statusCursor, err := orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":   "$status",
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}
	defer statusCursor.Close(ctx)

	statusCounts := map[string]int64{}
	for statusCursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := statusCursor.Decode(&row); err != nil {
			continue
		}
		statusCounts[row.ID] = row.Count
	}

	revenueCursor, err := orders.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": bson.M{"$ne": models.OrderStatusCancelled},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":         nil,
			"totalOrders": bson.M{"$sum": 1},
			"revenue":     bson.M{"$sum": "$paidAmount"},
			"netProfit":   bson.M{"$sum": "$netProfit"},
			"codDue":      bson.M{"$sum": "$dueAmount"},
		}}},
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
	}
	defer revenueCursor.Close(ctx)

	var totals struct {
		TotalOrders int64   `bson:"totalOrders"`
		Revenue     float64 `bson:"revenue"`
		NetProfit   float64 `bson:"netProfit"`
		CODDue      float64 `bson:"codDue"`
	}
	if revenueCursor.Next(ctx) {
		if err := revenueCursor.Decode(&totals); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to compute stats"})
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"statusCounts": statusCounts,
		"totalOrders":  totals.TotalOrders,
		"revenue":      totals.Revenue,
		"netProfit":    totals.NetProfit,
		"codDue":       totals.CODDue,
	})
}
