package mongo

import "time"

// Config describes the MongoDB deployment backing a session store.
type Config struct {
	ConnectionURL   string        `env:"SESSION_MONGODB_URL,required"`
	Database        string        `env:"SESSION_MONGODB_DATABASE" envDefault:"sessions"`
	Collection      string        `env:"SESSION_MONGODB_COLLECTION" envDefault:"sessions"`
	ConnectTimeout  time.Duration `env:"SESSION_MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"SESSION_MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"SESSION_MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"SESSION_MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryAttempts   int           `env:"SESSION_MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"SESSION_MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}
