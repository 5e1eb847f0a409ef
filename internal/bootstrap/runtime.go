// Package bootstrap wires the process-level dependencies shared by the
// server and the command line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"informatch/internal/cache"
	"informatch/internal/config"
	"informatch/internal/database"
	"informatch/internal/middleware"
	"informatch/internal/seed"
	"informatch/internal/storage"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoProfiles seeds this many demo students into an empty
	// development database. Ignored in every other environment.
	SeedDemoProfiles int
}

// Runtime holds the connected dependencies.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
	Store storage.ObjectStore
}

// InitRuntime connects to the database, Redis and the object store and
// optionally seeds demo data. Redis is nil when unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rdb := cache.InitRedis(cfg.RedisURL)

	store, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("object store init failed: %w", err)
	}

	if err := seedDemo(ctx, cfg, db, opts.SeedDemoProfiles); err != nil {
		return nil, fmt.Errorf("failed to seed demo profiles: %w", err)
	}

	return &Runtime{DB: db, Redis: rdb, Store: store}, nil
}

func seedDemo(ctx context.Context, cfg *config.Config, db *gorm.DB, n int) error {
	if n <= 0 || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}
	var existing int64
	if err := db.WithContext(ctx).Table("profiles").Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		middleware.Logger.Info("demo seed skipped, profiles already present", slog.Int64("profiles", existing))
		return nil
	}
	_, err := seed.Seed(ctx, db, seed.Options{Profiles: n})
	return err
}
