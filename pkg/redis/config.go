package redis

import "time"

// Config describes how to reach the Redis server backing a session store.
type Config struct {
	ConnectionURL  string        `env:"SESSION_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // URL in the format "redis://:password@localhost:6379/0"
	RetryAttempts  int           `env:"SESSION_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"SESSION_REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"SESSION_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}
