package ratelimit

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds the registration limiter settings.
type Config struct {
	Max             int           `env:"RATE_LIMIT_MAX" envDefault:"10"`
	Window          time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"10m"`
	Store           string        `env:"RATE_LIMIT_STORE" envDefault:"memory"`
	KeyPrefix       string        `env:"RATE_LIMIT_KEY_PREFIX" envDefault:"ratelimit:register:"`
	CleanupInterval time.Duration `env:"RATE_LIMIT_CLEANUP_INTERVAL" envDefault:"1m"`
}

// NewStore builds the store selected by cfg.Store. client is only used for
// the redis store and may be nil otherwise.
func NewStore(cfg Config, client *redis.Client) (Store, error) {
	switch cfg.Store {
	case "", StoreMemory:
		return NewMemoryStore(WithCleanupInterval(cfg.CleanupInterval)), nil
	case StoreRedis:
		if client == nil {
			return nil, ErrStoreRequired
		}
		return NewRedisStore(client, cfg.KeyPrefix)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}

// NewFromConfig builds a SlidingWindow on top of store using cfg's limits.
func NewFromConfig(cfg Config, store Store, opts ...Option) (*SlidingWindow, error) {
	return NewSlidingWindow(store, cfg.Max, cfg.Window, opts...)
}
