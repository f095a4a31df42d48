package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{"JWT_SECRET": "s3cret"}))
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "ecommerce", cfg.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, PhotoBackendMongo, cfg.PhotoBackend)
	assert.Equal(t, "*", cfg.CORSOrigins)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.AdminEmails)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"JWT_SECRET":    "s3cret",
		"PORT":          "9000",
		"JWT_TTL":       "90m",
		"ADMIN_EMAILS":  " Boss@Shop.io, ,ops@shop.io",
		"PHOTO_BACKEND": "MinIO",
		"MINIO_USE_SSL": "true",
		"REDIS_ADDR":    "localhost:6379",
		"REDIS_DB":      "2",
		"LOG_FORMAT":    "JSON",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 90*time.Minute, cfg.JWTTTL)
	assert.Equal(t, []string{"boss@shop.io", "ops@shop.io"}, cfg.AdminEmails)
	assert.Equal(t, PhotoBackendMinio, cfg.PhotoBackend)
	assert.True(t, cfg.MinioUseSSL)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET is required"},
		{"bad ttl", map[string]string{"JWT_SECRET": "x", "JWT_TTL": "soon"}, "invalid JWT_TTL"},
		{"negative ttl", map[string]string{"JWT_SECRET": "x", "JWT_TTL": "-1h"}, "invalid JWT_TTL"},
		{"bad cache ttl", map[string]string{"JWT_SECRET": "x", "CACHE_TTL": "later"}, "invalid CACHE_TTL"},
		{"bad redis db", map[string]string{"JWT_SECRET": "x", "REDIS_DB": "one"}, "invalid REDIS_DB"},
		{"bad ssl flag", map[string]string{"JWT_SECRET": "x", "MINIO_USE_SSL": "maybe"}, "invalid MINIO_USE_SSL"},
		{"unknown backend", map[string]string{"JWT_SECRET": "x", "PHOTO_BACKEND": "s3"}, "unknown PHOTO_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(envFrom(tt.env))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
