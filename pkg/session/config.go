package session

// UnsetMode controls what happens to a session that was detached from the
// request via Unset.
type UnsetMode string

const (
	// UnsetKeep leaves the stored record untouched.
	UnsetKeep UnsetMode = "keep"
	// UnsetDestroy removes the stored record at response finalization.
	UnsetDestroy UnsetMode = "destroy"
)

// Config holds session configuration.
type Config struct {
	// Name is the cookie carrying the session identifier.
	Name string `env:"SESSION_NAME" envDefault:"connect.sid"`

	// Resave forces a store write on every response even when the session
	// was not modified.
	Resave bool `env:"SESSION_RESAVE" envDefault:"false"`

	// Rolling forces cookie re-emission on every response, sliding the
	// expiry forward each time.
	Rolling bool `env:"SESSION_ROLLING" envDefault:"false"`

	// SaveUninitialized persists newly generated, never-modified sessions.
	SaveUninitialized bool `env:"SESSION_SAVE_UNINITIALIZED" envDefault:"false"`

	// Unset is the policy applied to sessions detached via Unset:
	// "keep" or "destroy".
	Unset UnsetMode `env:"SESSION_UNSET" envDefault:"keep"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		Name:  "connect.sid",
		Unset: UnsetKeep,
	}
}

// NewFromConfig creates a Manager from the provided Config. Additional
// options are applied after the config.
func NewFromConfig(cfg Config, opts ...Option) (*Manager, error) {
	configOpts := []Option{WithConfig(cfg)}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
