package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"atlas-fetcher/internal/application"
	"atlas-fetcher/internal/config"
	"atlas-fetcher/internal/infrastructure/fsstore"
	"atlas-fetcher/internal/infrastructure/logx"
	"atlas-fetcher/internal/infrastructure/pg"
	"atlas-fetcher/internal/infrastructure/provider"
	redisstore "atlas-fetcher/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
)

// Stores bundles the write and read sides of the configured backend
// plus the probe the API readiness endpoint uses. Desc says where
// records end up (directory path, redis address, database) for the
// console summary.
type Stores struct {
	Records application.RecordStore
	Archive application.ArchiveReader
	Ready   func(ctx context.Context) error
	Desc    string
}

// BuildStores selects the storage backend from STORAGE (fs, redis, pg).
func BuildStores(ctx context.Context, cfg config.Config) (Stores, func(), error) {
	log := logx.L()
	switch cfg.Storage {
	case "fs":
		st, err := fsstore.New(cfg.OrdersDir)
		if err != nil {
			return Stores{}, func() {}, err
		}
		st.Log = log
		ready := func(context.Context) error {
			_, err := os.Stat(st.Dir)
			return err
		}
		return Stores{Records: st, Archive: st, Ready: ready, Desc: st.Dir}, func() {}, nil

	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		st := redisstore.New(rdb)
		cleanup := func() { _ = rdb.Close() }
		ready := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		return Stores{Records: st, Archive: st, Ready: ready, Desc: "redis://" + cfg.RedisAddr}, cleanup, nil

	case "pg":
		if cfg.DatabaseURL == "" {
			return Stores{}, func() {}, fmt.Errorf("DATABASE_URL is required for STORAGE=pg")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Stores{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Stores{}, func() {}, err
		}
		repo := pg.NewOrderRepo(db)
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Stores{Records: repo, Archive: repo, Ready: db.Ping, Desc: "postgres"}, cleanup, nil

	default:
		return Stores{}, func() {}, fmt.Errorf("unsupported STORAGE=%q", cfg.Storage)
	}
}

// BuildProvider selects the order source from PROVIDER (atlas, fake).
func BuildProvider(cfg config.Config) application.OrderProvider {
	switch cfg.Provider {
	case "fake":
		return provider.NewFake()
	default:
		return &provider.AtlasAPIProvider{
			BaseURL:   cfg.AtlasURL,
			AuthToken: cfg.AuthToken,
			Cookie:    cfg.Cookie,
			Client:    &http.Client{Timeout: cfg.RequestTimeout},
			Log:       logx.L(),
		}
	}
}
