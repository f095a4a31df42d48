// Package app builds the application context: configuration, connections,
// services and the HTTP server, with an explicit connect/close lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arzan03/ShopFront/internal/cache"
	"github.com/arzan03/ShopFront/internal/config"
	"github.com/arzan03/ShopFront/internal/db"
	"github.com/arzan03/ShopFront/internal/storage"
	"github.com/arzan03/ShopFront/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	Config *config.Config
	Log    *logrus.Logger
	Server *fiber.App

	mongo *mongo.Client
	redis *redis.Client
}

// New connects to MongoDB, the photo backend and (optionally) Redis and
// builds the server.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Log: log, mongo: client}
	log.WithField("database", cfg.MongoDB).Info("connected to MongoDB")

	database := client.Database(cfg.MongoDB)
	if err := db.EnsureIndexes(ctx, database); err != nil {
		a.close(ctx)
		return nil, err
	}

	photos, err := newPhotoStore(ctx, cfg, database, log)
	if err != nil {
		a.close(ctx)
		return nil, err
	}

	var c cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.close(ctx)
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		c = cache.NewRedisCache(a.redis, cfg.MongoDB+":", cfg.CacheTTL)
		log.WithField("addr", cfg.RedisAddr).Info("connected to Redis")
	}

	a.Server = NewServer(cfg, log, Deps{
		Users:      store.NewMongoUserStore(database),
		Categories: store.NewMongoCategoryStore(database),
		Products:   store.NewMongoProductStore(database),
		Photos:     photos,
		Cache:      c,
		Ping:       func(ctx context.Context) error { return client.Ping(ctx, nil) },
	})
	return a, nil
}

func newPhotoStore(ctx context.Context, cfg *config.Config, database *mongo.Database, log logrus.FieldLogger) (storage.PhotoStore, error) {
	if cfg.PhotoBackend != config.PhotoBackendMinio {
		return storage.NewMongoPhotoStore(database), nil
	}

	photos, err := storage.NewMinioPhotoStore(ctx, storage.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}, log)
	if err != nil {
		return nil, err
	}
	log.WithField("endpoint", cfg.MinioEndpoint).Info("connected to MinIO")
	return photos, nil
}

// Listen serves HTTP until Shutdown is called.
func (a *App) Listen(addr string) error {
	a.Log.WithField("addr", addr).Info("server listening")
	return a.Server.Listen(addr)
}

// Shutdown stops the server and closes the connections it used.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if err := a.close(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) close(ctx context.Context) error {
	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if a.mongo != nil {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.mongo.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongodb disconnect: %w", err))
		}
	}
	return errors.Join(errs...)
}
