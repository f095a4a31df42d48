package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Photo storage backends.
const (
	PhotoBackendMongo = "mongo"
	PhotoBackendMinio = "minio"
)

// Config holds the application configuration
type Config struct {
	Port        string
	MongoURI    string
	MongoDB     string
	JWTSecret   string
	JWTTTL      time.Duration
	AdminEmails []string
	CORSOrigins string

	PhotoBackend   string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads a .env file if present and builds the configuration from the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:           get("PORT", "8000"),
		MongoURI:       get("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:        get("MONGO_DB", "ecommerce"),
		JWTSecret:      getenv("JWT_SECRET"),
		CORSOrigins:    get("CORS_ORIGINS", "*"),
		PhotoBackend:   strings.ToLower(get("PHOTO_BACKEND", PhotoBackendMongo)),
		MinioEndpoint:  get("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: get("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: get("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    get("MINIO_BUCKET", "product-photos"),
		RedisAddr:      getenv("REDIS_ADDR"),
		RedisPassword:  getenv("REDIS_PASSWORD"),
		LogLevel:       get("LOG_LEVEL", "info"),
		LogFormat:      strings.ToLower(get("LOG_FORMAT", "text")),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(get("JWT_TTL", "24h")); err != nil || cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_TTL %q", getenv("JWT_TTL"))
	}
	if cfg.CacheTTL, err = time.ParseDuration(get("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.RedisDB, err = strconv.Atoi(get("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.MinioUseSSL, err = strconv.ParseBool(get("MINIO_USE_SSL", "false")); err != nil {
		return nil, fmt.Errorf("invalid MINIO_USE_SSL: %w", err)
	}

	switch cfg.PhotoBackend {
	case PhotoBackendMongo, PhotoBackendMinio:
	default:
		return nil, fmt.Errorf("unknown PHOTO_BACKEND %q", cfg.PhotoBackend)
	}

	for _, email := range strings.Split(getenv("ADMIN_EMAILS"), ",") {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			cfg.AdminEmails = append(cfg.AdminEmails, email)
		}
	}

	return cfg, nil
}
