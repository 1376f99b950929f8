package config

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultDatabaseURL is empty; must be provided via flag or environment.
	DefaultDatabaseURL = ""

	// DefaultRedisURL is empty; without it notifications fall back to the
	// log sink and realtime publishing is disabled.
	DefaultRedisURL = ""
)
