package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvTesting     = "testing"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Env            string
	Port           string
	StorageDriver  string
	DatabaseURL    string
	RedisURL       string
	JWTSecret      string
	JWTIssuer      string
	JWTTTL         time.Duration
	JWTRefreshTTL  time.Duration
	CORSOrigins    []string
	DefaultPerPage int
	MaxPerPage     int
	Admin          AdminAccount
}

// AdminAccount is bootstrapped at start-up when all three fields are set.
type AdminAccount struct {
	Username string
	Email    string
	Password string
}

// Enabled reports whether every bootstrap field is set.
func (a AdminAccount) Enabled() bool {
	return a.Username != "" && a.Email != "" && a.Password != ""
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Env:            strings.ToLower(fallback(os.Getenv("APP_ENV"), EnvDevelopment)),
		Port:           fallback(os.Getenv("PORT"), "8080"),
		StorageDriver:  strings.ToLower(fallback(os.Getenv("STORAGE_DRIVER"), DriverPostgres)),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:       strings.TrimSpace(os.Getenv("REDIS_URL")),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:      fallback(os.Getenv("JWT_ISSUER"), "blog-backend"),
		JWTTTL:         minutes(os.Getenv("JWT_TTL_MINUTES"), 15),
		JWTRefreshTTL:  minutes(os.Getenv("JWT_REFRESH_TTL_MINUTES"), 30*24*60),
		CORSOrigins:    parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		DefaultPerPage: positive(os.Getenv("DEFAULT_ITEMS_PER_PAGE"), 10),
		MaxPerPage:     positive(os.Getenv("MAX_ITEMS_PER_PAGE"), 100),
		Admin: AdminAccount{
			Username: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
			Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}

	switch cfg.Env {
	case EnvDevelopment, EnvTesting, EnvProduction:
	default:
		return Config{}, fmt.Errorf("unknown APP_ENV %q", cfg.Env)
	}
	switch cfg.StorageDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return Config{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.DefaultPerPage > cfg.MaxPerPage {
		cfg.DefaultPerPage = cfg.MaxPerPage
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func positive(value string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
		return n
	}
	return def
}

func minutes(value string, def int) time.Duration {
	return time.Duration(positive(value, def)) * time.Minute
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
