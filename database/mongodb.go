package database

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Client is exported alongside DB because order placement opens
	// sessions (multi-document transactions) on it.
	Client *mongo.Client
	DB     *mongo.Database
)

func ConnectDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGODB_URI")
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return err
	}

	// Ping the database
	if err := client.Ping(ctx, nil); err != nil {
		return err
	}

	dbName := os.Getenv("MONGODB_DB")
	if dbName == "" {
		dbName = "ecommerce"
	}

	Client = client
	DB = client.Database(dbName)
	log.Println("🗄️ Connected to MongoDB!")
	return nil
}
