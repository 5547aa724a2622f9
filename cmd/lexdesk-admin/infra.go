package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/bootstrap"
	"github.com/target/lexdesk/internal/ports"
)

var errNoPersistentStore = errors.New("the memory store backend keeps no state outside the server process")

// storeHandle is a client store plus whatever connection backs it.
type storeHandle struct {
	Store ports.ClientStore
	DB    *sql.DB
	Redis redis.UniversalClient
}

func (h *storeHandle) Close() error {
	var closeErr error
	if h.DB != nil {
		if err := h.DB.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close db: %w", err))
		}
	}
	if h.Redis != nil {
		if err := h.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis: %w", err))
		}
	}
	return closeErr
}

// openStore connects to the configured store backend.
func openStore(ctx context.Context, cmdCtx *commandContext) (*storeHandle, error) {
	cfg := &cmdCtx.Config
	deps := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: cmdCtx.Logger}
	h := &storeHandle{}

	var err error
	switch cfg.Store.Backend {
	case config.StoreBackendPostgres:
		if h.DB, err = bootstrap.ConnectDB(ctx, deps); err != nil {
			return nil, fmt.Errorf("connect db: %w", err)
		}
	case config.StoreBackendRedis:
		if h.Redis, err = bootstrap.ConnectRedis(ctx, deps); err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	default:
		return nil, errNoPersistentStore
	}

	h.Store, err = bootstrap.BuildClientStore(bootstrap.StoreDeps{Config: cfg.Store, DB: h.DB, Redis: h.Redis})
	if err != nil {
		return nil, errors.Join(err, h.Close())
	}
	return h, nil
}
