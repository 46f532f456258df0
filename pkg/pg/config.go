package pg

import "time"

// Config describes the PostgreSQL pool backing a session store.
type Config struct {
	ConnectionString  string        `env:"SESSION_PG_CONN_URL,required"`
	MaxOpenConns      int32         `env:"SESSION_PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns      int32         `env:"SESSION_PG_MAX_IDLE_CONNS" envDefault:"5"`
	HealthCheckPeriod time.Duration `env:"SESSION_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`
	MaxConnIdleTime   time.Duration `env:"SESSION_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"`
	MaxConnLifetime   time.Duration `env:"SESSION_PG_MAX_CONN_LIFETIME" envDefault:"30m"`

	RetryAttempts int           `env:"SESSION_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"SESSION_PG_RETRY_INTERVAL" envDefault:"5s"`
}
