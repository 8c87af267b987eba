package gateflow

import "time"

// Config holds the configuration for a Hub instance.
type Config struct {
	// Concurrency is the maximum number of parallel outbound requests
	// during fan-out of a single published event.
	Concurrency int

	// RequestTimeout is the HTTP timeout per delivery attempt. Always finite.
	RequestTimeout time.Duration

	// AllowInsecureURLs permits plain-HTTP endpoint URLs. Intended for
	// development environments; absent this override, only HTTPS passes
	// URL validation.
	AllowInsecureURLs bool

	// FailureWindow is the default lookback used by the failure monitor.
	FailureWindow time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency:    10,
		RequestTimeout: 15 * time.Second,
		FailureWindow:  24 * time.Hour,
	}
}
