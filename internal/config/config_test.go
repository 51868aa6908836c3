package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "PORT", "STORAGE_DRIVER", "DATABASE_URL", "REDIS_URL",
		"JWT_SECRET", "JWT_ISSUER", "JWT_TTL_MINUTES", "JWT_REFRESH_TTL_MINUTES",
		"CORS_ALLOWED_ORIGINS", "DEFAULT_ITEMS_PER_PAGE", "MAX_ITEMS_PER_PAGE",
		"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		t.Setenv(key, kv[key])
	}
}

func TestLoadDefaults(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL": "postgres://localhost/blog",
		"JWT_SECRET":   "secret",
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, EnvDevelopment, cfg.Env)
	require.Equal(t, DriverPostgres, cfg.StorageDriver)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, "blog-backend", cfg.JWTIssuer)
	require.Equal(t, 15*time.Minute, cfg.JWTTTL)
	require.Equal(t, 30*24*time.Hour, cfg.JWTRefreshTTL)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 10, cfg.DefaultPerPage)
	require.Equal(t, 100, cfg.MaxPerPage)
	require.False(t, cfg.Admin.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	setEnv(t, map[string]string{
		"APP_ENV":                 "Testing",
		"PORT":                    "9000",
		"STORAGE_DRIVER":          "memory",
		"JWT_SECRET":              "secret",
		"JWT_TTL_MINUTES":         "5",
		"JWT_REFRESH_TTL_MINUTES": "oops",
		"CORS_ALLOWED_ORIGINS":    "https://a.example, https://b.example ,",
		"DEFAULT_ITEMS_PER_PAGE":  "500",
		"MAX_ITEMS_PER_PAGE":      "50",
		"ADMIN_USERNAME":          "root",
		"ADMIN_EMAIL":             "root@example.com",
		"ADMIN_PASSWORD":          "rootpassword",
	})

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, EnvTesting, cfg.Env)
	require.Equal(t, DriverMemory, cfg.StorageDriver)
	require.Equal(t, ":9000", cfg.HTTPAddress())
	require.Equal(t, 5*time.Minute, cfg.JWTTTL)
	require.Equal(t, 30*24*time.Hour, cfg.JWTRefreshTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	require.Equal(t, 50, cfg.DefaultPerPage)
	require.True(t, cfg.Admin.Enabled())
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {"STORAGE_DRIVER": "memory"},
		"missing database": {"JWT_SECRET": "secret"},
		"unknown driver":   {"JWT_SECRET": "secret", "STORAGE_DRIVER": "mongo"},
		"unknown env":      {"JWT_SECRET": "secret", "STORAGE_DRIVER": "memory", "APP_ENV": "staging"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setEnv(t, env)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
