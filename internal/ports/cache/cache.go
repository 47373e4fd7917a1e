package cache

import (
	"context"
	"time"
)

// SessionCache определяет интерфейс кэша сессий для middleware аутентификации.
type SessionCache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Delete(ctx context.Context, key string) error

	Close() error
}
