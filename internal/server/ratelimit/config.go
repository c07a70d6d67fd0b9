package ratelimit

import (
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Path pattern: "*" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// DefaultRate is the sustained number of requests per second for unmatched endpoints.
	DefaultRate     float64
	DefaultBurst    int
	CleanupInterval time.Duration
	// IdleTimeout is how long an unused client limiter is kept.
	IdleTimeout     time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// NewConfig builds a configuration with the given default rate and the endpoint tiers of
// DefaultEndpointConfigs. A non-positive rate disables limiting.
func NewConfig(ratePerSecond float64, burst int, whitelist []string) *Config {
	if ratePerSecond <= 0 {
		return &Config{Enabled: false}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Config{
		Enabled:         true,
		DefaultRate:     ratePerSecond,
		DefaultBurst:    burst,
		CleanupInterval: 5 * time.Minute,
		IdleTimeout:     time.Hour,
		Whitelist:       parseIPList(whitelist),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: model calls (strictest limits)
		{Path: "/sessions/*/tailor", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},
		{Path: "/sessions/*/regenerate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},
		{Path: "/import", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},
		{Path: "/rate", Method: "POST", Limit: 30, Window: time.Hour, Burst: 3},

		// Tier 2: exports start a browser
		{Path: "/sessions/*/export/pdf", Method: "GET", Limit: 60, Window: time.Hour, Burst: 5},

		// Tier 3: session creation and saves
		{Path: "/sessions", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/sessions/*/save", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},

		// Everything else uses the default rate; health checks are unlimited.
	}
}

// parseIPList turns a list of IP addresses into a set, skipping blanks.
func parseIPList(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range list {
		ip = strings.TrimSpace(ip)
		if ip != "" {
			result[ip] = true
		}
	}
	return result
}
