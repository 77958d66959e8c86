package main

import (
	"log"

	"github.com/RyanHasanSunny/ecommerce-backend-go/config"
	"github.com/RyanHasanSunny/ecommerce-backend-go/database"
	customMiddleware "github.com/RyanHasanSunny/ecommerce-backend-go/middleware"
	"github.com/RyanHasanSunny/ecommerce-backend-go/routes"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(customMiddleware.RequestLogger(logger))
	e.Use(customMiddleware.Metrics())

	// Connect to MongoDB
	if err := database.ConnectDB(); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Setup routes
	routes.SetupRoutes(e)

	// Start the server
	port := config.GetEnv("PORT", "3000")
	logger.Info("Server starting", zap.String("port", port))
	e.Logger.Fatal(e.Start(":" + port))
}
