// Package mongo provides the connection helper for the MongoDB-backed
// session store. Configuration comes from the Config struct, whose fields
// populate from environment variables via github.com/caarlos0/env.
package mongo
