package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	supabaseConnStr := os.Getenv("SUPABASE_CONNECTION_STRING")
	redisURL := os.Getenv("REDIS_URL")
	jwtSecret := os.Getenv("JWT_SECRET")
	sessionSecret := os.Getenv("SESSION_SECRET")
	environment := os.Getenv("ENVIRONMENT")
	baseURL := os.Getenv("BASE_URL")

	if supabaseConnStr == "" {
		return nil, fmt.Errorf("SUPABASE_CONNECTION_STRING environment variable is required")
	}

	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL environment variable is required")
	}

	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	if sessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}

	if environment == "" {
		environment = "development"
	}

	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	paystackBaseURL := os.Getenv("PAYSTACK_BASE_URL")
	if paystackBaseURL == "" {
		paystackBaseURL = "https://api.paystack.co"
	}

	return &Config{
		Environment:        environment,
		BaseURL:            baseURL,
		SupabaseConnString: supabaseConnStr,
		RedisURL:           redisURL,
		JWTSecret:          jwtSecret,
		SessionSecret:      sessionSecret,
		PaystackSecretKey:  os.Getenv("PAYSTACK_SECRET_KEY"),
		PaystackBaseURL:    paystackBaseURL,
	}, nil
}
