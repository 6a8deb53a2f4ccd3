// Package sources builds the reference data provider selected by the
// configuration.
package sources

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/cache"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/config"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/db"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/refdata"
	_ "github.com/lib/pq"
)

const cachePrefix = "reftables:"

// Closer releases whatever Open acquired.
type Closer func() error

// Open returns the provider for cfg.DataSource. The http source is wrapped in
// a Redis cache when cfg.RedisURL is set. The postgres source is migrated
// before use.
func Open(ctx context.Context, cfg config.Config) (refdata.Provider, Closer, error) {
	switch cfg.DataSource {
	case config.SourceDir:
		slog.Info("reference data source", "source", cfg.DataSource, "dir", cfg.DataDir)
		return refdata.NewDirProvider(cfg.DataDir), noop, nil

	case config.SourceHTTP:
		var p refdata.Provider = refdata.NewHTTPProvider(cfg.DataURL, cfg.HTTPTimeout)
		if cfg.RedisURL == "" {
			slog.Info("reference data source", "source", cfg.DataSource, "url", cfg.DataURL)
			return p, noop, nil
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, cachePrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("connect cache: %w", err)
		}
		slog.Info("reference data source", "source", cfg.DataSource, "url", cfg.DataURL, "cache_ttl", cfg.CacheTTL)
		return refdata.NewCachedProvider(p, rc, cfg.DataURL, cfg.CacheTTL), rc.Close, nil

	case config.SourcePostgres:
		sqlDB, err := OpenDB(ctx, cfg.DBURL)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("reference data source", "source", cfg.DataSource)
		return db.New(sqlDB), sqlDB.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}
}

// OpenDB connects to Postgres and applies pending migrations.
func OpenDB(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, errors.New("DB_URL is required")
	}
	sqlDB, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	return sqlDB, nil
}

func noop() error { return nil }
