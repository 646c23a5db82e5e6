package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/auth"
	"backoffice/internal/domain/company"
	"backoffice/internal/infrastructure/cache"
	"backoffice/internal/infrastructure/config"
	"backoffice/internal/infrastructure/objectstore"
	"backoffice/internal/infrastructure/registry"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
)

func setReleaseMode() {
	gin.SetMode(gin.ReleaseMode)
}

func migrateUp(ctx context.Context, cfg *config.Config) error {
	m, err := postgres.NewMigrator(cfg.Database.URL, cfg.Migrations.Path)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}

// newRegistry builds the CNPJ registry client, cached in Redis when enabled.
func newRegistry(ctx context.Context, cfg *config.Config) (company.Registry, func(), error) {
	client := registry.New(registry.Config{
		BaseURL: cfg.Registry.BaseURL,
		Token:   cfg.Registry.Token,
		Timeout: cfg.Registry.Timeout,
	})
	if !cfg.Redis.Enabled {
		return client, func() {}, nil
	}

	rdb, err := cache.NewRedisClient(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	cached, err := cache.NewRegistryCache(client, cache.NewRedisStore(rdb), cfg.Redis.RegistryTTL)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	logger.Info(ctx, "registry lookups cached in redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.RegistryTTL)
	return cached, func() { _ = rdb.Close() }, nil
}

type avatarStorage struct {
	store auth.AvatarStore

	// set for the local driver, served by the router
	mediaDir    string
	mediaPrefix string
}

// newAvatarStore picks the storage driver. Local files are served by the API
// itself under the path part of storage.public_prefix.
func newAvatarStore(ctx context.Context, cfg *config.Config) (avatarStorage, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s3cfg := cfg.Storage.S3
		store, err := objectstore.NewS3Store(ctx, objectstore.S3Config{
			Endpoint:        s3cfg.Endpoint,
			Bucket:          s3cfg.Bucket,
			Region:          s3cfg.Region,
			AccessKeyID:     s3cfg.AccessKeyID,
			SecretAccessKey: s3cfg.SecretAccessKey,
			PathStyle:       s3cfg.PathStyle,
			PublicPrefix:    cfg.Storage.PublicPrefix,
		})
		if err != nil {
			return avatarStorage{}, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return avatarStorage{}, err
		}
		return avatarStorage{store: store}, nil

	case "local":
		route := "/" + strings.Trim(cfg.Storage.PublicPrefix, "/")
		store, err := objectstore.NewLocalStore(cfg.Storage.LocalDir, cfg.App.PublicURL+route+"/")
		if err != nil {
			return avatarStorage{}, err
		}
		return avatarStorage{store: store, mediaDir: store.Dir(), mediaPrefix: route}, nil
	}
	return avatarStorage{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
