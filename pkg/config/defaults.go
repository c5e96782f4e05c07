package config

import "time"

// Data defaults.
const (
	DefaultSource   = "loc.csv"
	DefaultTimezone = "UTC"
)

// Server defaults.
const (
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 8080
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Dashboard defaults.
const (
	DefaultTitle         = "Commit history"
	DefaultTheme         = "dark"
	DefaultRadiusMin     = 2.0
	DefaultRadiusMax     = 30.0
	DefaultSliderStep    = 1.0
	DefaultMaxFileRows   = 50
	DefaultMaxTableFiles = 20
)

// Profile defaults.
const (
	DefaultProfileRateLimit = 1.0
	DefaultProfileTimeout   = 10 * time.Second
)

// Extract defaults.
const (
	DefaultIndentWidth = 4
	DefaultMaxFileSize = 1 << 20
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)
