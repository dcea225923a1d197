// Package bootstrap wires the runtime dependencies shared by the server and
// the maintenance commands: database, cache, and development provisioning.
package bootstrap

import (
	"fmt"
	"strings"

	"vendora/internal/cache"
	"vendora/internal/config"
	"vendora/internal/database"
	"vendora/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoStore provisions the built-in demo owner and store. Only
	// honored in the development environment.
	SeedDemoStore bool
}

// InitRuntime connects to the database and Redis and optionally provisions
// the development demo store. The Redis client may be nil when the cache is
// unreachable; callers must tolerate that.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoStore && strings.EqualFold(cfg.Env, "development") {
		if err := seed.DemoStore(db); err != nil {
			return nil, nil, fmt.Errorf("failed to provision demo store: %w", err)
		}
	}

	return db, r, nil
}
