package pg

import "errors"

var (
	ErrInvalidConnectionString = errors.New("failed to parse postgres connection string")
	ErrFailedToConnect         = errors.New("failed to open db connection")
	ErrHealthcheckFailed       = errors.New("postgres healthcheck failed")
)
