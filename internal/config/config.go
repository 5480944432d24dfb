package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backend identifiers. The backend is resolved exactly once in
// Load and held as immutable process-wide configuration; it is never
// re-evaluated per request.
const (
	BackendFile = "file"
	BackendKV   = "kv"
)

// Config holds all application configuration loaded from environment
// variables. It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	Domain    string
	JWTSecret string

	Admin     AdminConfig
	Storage   StorageConfig
	Redis     RedisConfig
	Stripe    StripeConfig
	RateLimit RateLimitConfig
}

// AdminConfig identifies the single administrator account. Session issuance
// beyond this one credential check is out of scope for this service.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

// StorageConfig selects the catalog backend and its parameters.
type StorageConfig struct {
	Backend      string // BackendFile or BackendKV
	ProductsFile string // path of the flat-file catalog document
}

// RedisConfig contains connection parameters for the hosted KV backend.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StripeConfig contains credentials for the hosted checkout provider.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// RateLimitConfig bounds request volume for sensitive endpoints.
type RateLimitConfig struct {
	APIMax      int
	APIWindow   time.Duration
	LoginMax    int
	LoginWindow time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.Domain = getEnv("PUBLIC_DOMAIN", "http://localhost:3000")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")

	// Admin account
	cfg.Admin = AdminConfig{
		Email:        getEnv("ADMIN_EMAIL", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}

	// Redis (hosted KV backend)
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Storage. The backend choice is made here, once: an explicit
	// STORAGE_BACKEND wins; otherwise production with Redis credentials uses
	// the KV backend and everything else uses the flat-file document.
	backend := getEnv("STORAGE_BACKEND", "")
	if backend == "" {
		if cfg.Env == "production" && cfg.Redis.Host != "" {
			backend = BackendKV
		} else {
			backend = BackendFile
		}
	}
	if backend != BackendFile && backend != BackendKV {
		return nil, fmt.Errorf("invalid STORAGE_BACKEND %q: must be %q or %q", backend, BackendFile, BackendKV)
	}
	cfg.Storage = StorageConfig{
		Backend:      backend,
		ProductsFile: getEnv("PRODUCTS_FILE", "data/products.json"),
	}
	if backend == BackendKV && cfg.Redis.Host == "" {
		return nil, errors.New("storage backend is kv but REDIS_HOST is not set")
	}

	// Stripe
	cfg.Stripe = StripeConfig{
		SecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
	}

	// Rate limits
	var err error
	cfg.RateLimit.APIMax = getEnvInt("RATE_LIMIT_API_MAX", 60)
	if cfg.RateLimit.APIWindow, err = parseDurationEnv("RATE_LIMIT_API_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_API_WINDOW: %w", err)
	}
	cfg.RateLimit.LoginMax = getEnvInt("RATE_LIMIT_LOGIN_MAX", 10)
	if cfg.RateLimit.LoginWindow, err = parseDurationEnv("RATE_LIMIT_LOGIN_WINDOW", "1m"); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN_WINDOW: %w", err)
	}

	// Validate required secrets.
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}
	if cfg.Admin.Email == "" || cfg.Admin.PasswordHash == "" {
		return nil, errors.New("admin configuration incomplete: ensure ADMIN_EMAIL and ADMIN_PASSWORD_HASH are set")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a
// default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as
// time.Duration. If the variable is empty, it falls back to the provided
// default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be > 0")
	}
	return d, nil
}
