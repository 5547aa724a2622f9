package bootstrap

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/target/lexdesk/config"
	"github.com/target/lexdesk/internal/adapters/memory"
	redisadapter "github.com/target/lexdesk/internal/adapters/redis"
	"github.com/target/lexdesk/internal/data"
	"github.com/target/lexdesk/internal/ports"
)

// StoreDeps holds the connections a client store backend may need.
// Only the connection matching the configured backend is required.
type StoreDeps struct {
	Config config.StoreConfig
	DB     *sql.DB
	Redis  redis.UniversalClient
}

// BuildClientStore returns the ClientStore for the configured backend.
//
//nolint:ireturn // the backend is chosen at runtime.
func BuildClientStore(deps StoreDeps) (ports.ClientStore, error) {
	switch deps.Config.Backend {
	case config.StoreBackendMemory, "":
		return memory.NewClientStore(), nil
	case config.StoreBackendRedis:
		if deps.Redis == nil {
			return nil, errors.New("redis store backend requires a redis client")
		}
		return redisadapter.NewClientStore(deps.Redis, redisadapter.ClientStoreOptions{
			Prefix: deps.Config.KeyPrefix,
			TTL:    deps.Config.TTL,
		}), nil
	case config.StoreBackendPostgres:
		if deps.DB == nil {
			return nil, errors.New("postgres store backend requires a database connection")
		}
		return data.NewClientStateRepo(deps.DB), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", deps.Config.Backend)
	}
}
