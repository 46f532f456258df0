// Package config loads env-tagged configuration structs for twelve-factor
// deployments: a .env file when present, then the process environment, via
// github.com/caarlos0/env.
package config
