package config

import (
	"fmt"
	"os"
)

// Config holds everything the process needs from the environment.
// It is built once in main and passed down explicitly.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret string
	// SignerSecret keys the outer wrapper around issued JWTs.
	SignerSecret string

	ResendAPIKey string
	FromEmail    string
	FrontendURL  string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         os.Getenv("PORT"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisURL:     os.Getenv("REDIS_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SignerSecret: os.Getenv("TOKEN_SIGNER_SECRET"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		FromEmail:    os.Getenv("FROM_EMAIL"),
		FrontendURL:  os.Getenv("FRONTEND_URL"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.FrontendURL == "" {
		cfg.FrontendURL = "http://localhost:3000"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379"
	}
	if cfg.FromEmail == "" {
		cfg.FromEmail = "noreply@accountant.app"
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if cfg.SignerSecret == "" {
		return nil, fmt.Errorf("TOKEN_SIGNER_SECRET environment variable is required")
	}

	return cfg, nil
}
