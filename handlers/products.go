package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	"github.com/RyanHasanSunny/ecommerce-backend-go/models"
	"github.com/RyanHasanSunny/ecommerce-backend-go/pricing"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	return c.JSON(http.StatusOK, product)
}

func GetProducts(c echo.Context) error {
	var products []models.Product
	collection := database.DB.Collection("products")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := collection.Find(ctx, bson.M{"isEnabled": true})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			continue
		}
		products = append(products, product)
	}

	return c.JSON(http.StatusOK, products)
}

func CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if product.Name == "" || product.Price < 0 || product.Stock < 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Name, non-negative price and stock are required"})
	}

	// Client-sent finalPrice is ignored; the stored value always comes
	// from the one pricing chain so it cannot drift from what checkout
	// would charge.
	product.ID = primitive.NewObjectID()
	product.FinalPrice = 0
	product.SellingPrice = pricing.SellingPrice(&product)
	product.FinalPrice = pricing.FinalPrice(&product)
	product.SoldCount = 0
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	collection := database.DB.Collection("products")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.InsertOne(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}

	return c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var req models.Product
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	// Same as creation: derived prices are recomputed, never trusted.
	req.FinalPrice = 0
	req.SellingPrice = pricing.SellingPrice(&req)
	req.FinalPrice = pricing.FinalPrice(&req)

	update := bson.M{"$set": bson.M{
		"name":           req.Name,
		"description":    req.Description,
		"price":          req.Price,
		"profit":         req.Profit,
		"expectedProfit": req.ExpectedProfit,
		"sellingPrice":   req.SellingPrice,
		"offerValue":     req.OfferValue,
		"finalPrice":     req.FinalPrice,
		"deliveryCharge": req.DeliveryCharge,
		"stock":          req.Stock,
		"images":         req.Images,
		"isEnabled":      req.IsEnabled,
		"updatedAt":      time.Now(),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("products").UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product updated"})
}

func DeleteProduct(c echo.Context) error {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("products").DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete product"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted"})
}
