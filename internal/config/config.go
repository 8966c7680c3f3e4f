package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is built once at startup and passed by value into the components
// that need it. Business logic never reads the environment directly.
type Config struct {
	Port      string
	DBUrl     string
	JWTSecret string
	BaseURL   string
	UploadDir string

	// Credentials for the idempotent seller seed.
	SellerName     string
	SellerEmail    string
	SellerPassword string
}

const defaultJWTSecret = "default-secret-key-change-in-production"

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, falling back to environment defaults")
	}

	port := envOrDefault("PORT", "8080")

	return Config{
		Port:           port,
		DBUrl:          os.Getenv("DB_URL"),
		JWTSecret:      envOrDefault("JWT_SECRET", defaultJWTSecret),
		BaseURL:        envOrDefault("BASE_URL", "http://localhost:"+port),
		UploadDir:      envOrDefault("UPLOAD_DIR", "uploads"),
		SellerName:     envOrDefault("SELLER_NAME", "Store Admin"),
		SellerEmail:    envOrDefault("SELLER_EMAIL", "seller@marketplace.local"),
		SellerPassword: envOrDefault("SELLER_PASSWORD", "change-me-please"),
	}
}

// UsingDefaultSecret reports whether the signing key was left at its
// placeholder value, so startup can log a warning.
func (c Config) UsingDefaultSecret() bool {
	return c.JWTSecret == defaultJWTSecret
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
