package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/pricing"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// loadOrNewCart returns the user's active cart, creating an empty one
// in memory (not yet persisted) if none exists.
func loadOrNewCart(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := database.DB.Collection("carts").FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.CartStatusActive,
	}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return &models.Cart{
			ID:        primitive.NewObjectID(),
			UserID:    userID,
			Items:     []models.CartItem{},
			Status:    models.CartStatusActive,
			CreatedAt: time.Now(),
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// saveCart recomputes line and cart totals from the current items and
// writes the whole document back. The total is derived, never accepted
// from the client.
func saveCart(ctx context.Context, cart *models.Cart) error {
	for i := range cart.Items {
		cart.Items[i].TotalPrice = cart.Items[i].Price * float64(cart.Items[i].Quantity)
	}
	total := cart.Subtotal() - cart.DiscountAmount
	if total < 0 {
		total = 0
	}
	cart.TotalAmount = total
	cart.UpdatedAt = time.Now()

	_, err := database.DB.Collection("carts").ReplaceOne(
		ctx,
		bson.M{"_id": cart.ID},
		cart,
		options.Replace().SetUpsert(true),
	)
	return err
}

type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func AddToCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var product models.Product
	err = database.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}
	if !product.IsEnabled {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product is not available"})
	}

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	// Same product already in the cart bumps the quantity; the price
	// snapshot stays from the first add.
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: productID,
			Name:      product.Name,
			Quantity:  req.Quantity,
			Price:     pricing.FinalPrice(&product),
		})
	}

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, cart)
}

func GetCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	return c.JSON(http.StatusOK, cart)
}

func UpdateCartItem(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item ID"})
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Quantity < 1 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == itemID {
			cart.Items[i].Quantity = req.Quantity
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, cart)
}

func RemoveCartItem(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	itemID, err := primitive.ObjectIDFromHex(c.Param("itemId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid item ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	items := cart.Items[:0]
	found := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Item not found in cart"})
	}
	cart.Items = items

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, cart)
}

func ClearCart(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	cart.Items = []models.CartItem{}
	cart.AppliedPromo = ""
	cart.DiscountAmount = 0
	cart.DiscountType = ""

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to clear cart"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Cart cleared"})
}

type ApplyPromoRequest struct {
	Code string `json:"code"`
}

// promoGate maps the settings lookup outcome onto a response. A missing
// settings document or a switched-off promo feature is the shopper's
// 400; any other lookup failure is ours.
func promoGate(settings *models.Settings, err error) (int, string) {
	if err != nil && err != mongo.ErrNoDocuments {
		return http.StatusInternalServerError, "Failed to fetch settings"
	}
	if err == mongo.ErrNoDocuments || !settings.PromoEnabled {
		return http.StatusBadRequest, "Promo codes are not available"
	}
	return 0, ""
}

// ApplyPromo validates a promo code against the site settings and
// snapshots the computed discount on the cart. Usage limits are not
// checked here; usedCount is reporting-only.
func ApplyPromo(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req ApplyPromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if strings.TrimSpace(req.Code) == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var settings models.Settings
	err := database.DB.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if code, msg := promoGate(&settings, err); code != 0 {
		return c.JSON(code, map[string]string{"error": msg})
	}

	promo, ok := settings.FindPromo(req.Code)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
	}
	if !promo.Redeemable(time.Now()) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Promo code is expired or disabled"})
	}

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}
	if len(cart.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Cart is empty"})
	}

	cart.AppliedPromo = strings.ToUpper(promo.Code)
	cart.DiscountType = promo.DiscountType
	cart.DiscountAmount = pricing.Discount(promo.DiscountType, promo.DiscountValue, cart.Subtotal())

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, cart)
}

func RemovePromo(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := loadOrNewCart(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch cart"})
	}

	cart.AppliedPromo = ""
	cart.DiscountAmount = 0
	cart.DiscountType = ""

	if err := saveCart(ctx, cart); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update cart"})
	}

	return c.JSON(http.StatusOK, cart)
}
