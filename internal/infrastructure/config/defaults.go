package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultMigratePings    = 30
	DefaultMigratePingGap  = 500 * time.Millisecond
	DefaultHTTPMaxElapsed  = 5 * time.Second
)
