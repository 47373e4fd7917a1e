package config

import (
	"fmt"
	"time"
)

// RedisConfig представляет конфигурацию для Redis.
type RedisConfig struct {
	Host           string        `yaml:"host" env:"NOTESHARE_REDIS_HOST" env-default:"localhost"`
	Port           int           `yaml:"port" env:"NOTESHARE_REDIS_PORT" env-default:"6379"`
	Password       string        `yaml:"password" env:"NOTESHARE_REDIS_PASSWORD" env-default:""`
	DB             int           `yaml:"db" env:"NOTESHARE_REDIS_DB" env-default:"0"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"NOTESHARE_REDIS_CONNECT_TIMEOUT" env-default:"5s"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"NOTESHARE_REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout   time.Duration `yaml:"write_timeout" env:"NOTESHARE_REDIS_WRITE_TIMEOUT" env-default:"3s"`
	PoolSize       int           `yaml:"pool_size" env:"NOTESHARE_REDIS_POOL_SIZE" env-default:"10"`
	MinIdle        int           `yaml:"min_idle" env:"NOTESHARE_REDIS_MIN_IDLE" env-default:"2"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"NOTESHARE_REDIS_IDLE_TIMEOUT" env-default:"5m"`
	DefaultTTL     time.Duration `yaml:"default_ttl" env:"NOTESHARE_REDIS_DEFAULT_TTL" env-default:"15m"`
}

// GetAddress возвращает адрес Redis.
func (c *RedisConfig) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
