package cache

import (
	"fmt"

	"github.com/pantryfresh/backend/internal/domain/shared"
	"github.com/pantryfresh/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Store names accepted by idempotency.store
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// NewIdempotencyStore picks the store named by cfg.Store. client may be nil
// unless the redis store is selected.
func NewIdempotencyStore(cfg config.IdempotencyConfig, client redis.UniversalClient, logger *zap.Logger) (shared.IdempotencyStore, error) {
	switch cfg.Store {
	case StoreRedis:
		if client == nil {
			return nil, fmt.Errorf("idempotency store %q needs a redis client", cfg.Store)
		}
		logger.Info("using redis idempotency store")
		return NewRedisIdempotencyStore(client, ""), nil
	case StoreMemory, "":
		logger.Warn("using in-memory idempotency store; keys are not shared between instances")
		return NewInMemoryIdempotencyStore(0), nil
	default:
		return nil, fmt.Errorf("unknown idempotency store %q", cfg.Store)
	}
}
