// Package redis provides the connection helper for the Redis-backed
// session store: a Connect function with retries and a health-check probe.
// Configuration comes from the Config struct, whose fields populate from
// environment variables via github.com/caarlos0/env.
package redis
