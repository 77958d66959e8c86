package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Promo codes live embedded in the single settings document, so admin
// management is array surgery on that document.

func loadSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := database.DB.Collection("settings").FindOne(ctx, bson.M{}).Decode(&settings)
	if err == mongo.ErrNoDocuments {
		return &models.Settings{
			ID:         primitive.NewObjectID(),
			PromoCodes: []models.PromoCode{},
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func saveSettings(ctx context.Context, settings *models.Settings) error {
	settings.UpdatedAt = time.Now()
	_, err := database.DB.Collection("settings").ReplaceOne(
		ctx,
		bson.M{"_id": settings.ID},
		settings,
		options.Replace().SetUpsert(true),
	)
	return err
}

type PromoRequest struct {
	Code          string              `json:"code"`
	DiscountType  models.DiscountType `json:"discountType"`
	DiscountValue float64             `json:"discountValue"`
	ExpiryDate    time.Time           `json:"expiryDate"`
	UsageLimit    int                 `json:"usageLimit"`
	IsEnabled     bool                `json:"isEnabled"`
}

func (r *PromoRequest) validate() string {
	r.Code = strings.ToUpper(strings.TrimSpace(r.Code))
	if r.Code == "" {
		return "Promo code is required"
	}
	if r.DiscountType != models.DiscountPercentage && r.DiscountType != models.DiscountFixed {
		return "Discount type must be percentage or fixed"
	}
	if r.DiscountValue <= 0 {
		return "Discount value must be positive"
	}
	if r.DiscountType == models.DiscountPercentage && r.DiscountValue > 100 {
		return "Percentage discount cannot exceed 100"
	}
	return ""
}

func CreatePromo(c echo.Context) error {
	var req PromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	if _, exists := settings.FindPromo(req.Code); exists {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Promo code already exists"})
	}

	promo := models.PromoCode{
		ID:            primitive.NewObjectID(),
		Code:          req.Code,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		ExpiryDate:    req.ExpiryDate,
		UsageLimit:    req.UsageLimit,
		IsEnabled:     req.IsEnabled,
		CreatedAt:     time.Now(),
	}
	settings.PromoCodes = append(settings.PromoCodes, promo)

	if err := saveSettings(ctx, settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save promo"})
	}

	return c.JSON(http.StatusCreated, promo)
}

func UpdatePromo(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	var req PromoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	req.Code = code
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	found := false
	for i := range settings.PromoCodes {
		if strings.ToUpper(settings.PromoCodes[i].Code) == code {
			settings.PromoCodes[i].DiscountType = req.DiscountType
			settings.PromoCodes[i].DiscountValue = req.DiscountValue
			settings.PromoCodes[i].ExpiryDate = req.ExpiryDate
			settings.PromoCodes[i].UsageLimit = req.UsageLimit
			settings.PromoCodes[i].IsEnabled = req.IsEnabled
			found = true
			break
		}
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
	}

	if err := saveSettings(ctx, settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save promo"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Promo code updated"})
}

func DeletePromo(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	promos := settings.PromoCodes[:0]
	found := false
	for _, p := range settings.PromoCodes {
		if strings.ToUpper(p.Code) == code {
			found = true
			continue
		}
		promos = append(promos, p)
	}
	if !found {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Promo code not found"})
	}
	settings.PromoCodes = promos

	if err := saveSettings(ctx, settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Promo code deleted"})
}

// GetPromos lists promo codes with their usage counters for reporting.
func GetPromos(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"promoEnabled": settings.PromoEnabled,
		"promoCodes":   settings.PromoCodes,
	})
}

// SetPromoEnabled flips the global promo switch.
func SetPromoEnabled(c echo.Context) error {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	settings, err := loadSettings(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch settings"})
	}

	settings.PromoEnabled = req.Enabled
	if err := saveSettings(ctx, settings); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save settings"})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"promoEnabled": settings.PromoEnabled})
}
