// Package config reads deployment settings from the environment. A .env
// file covers local development; production supplies real variables.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv loads a .env file when one is present.
func LoadEnv() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

// GetEnv returns the named variable, or fallback when unset.
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
