// Package ratelimit provides per-client rate limiting using token buckets from golang.org/x/time/rate.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type client struct {
	limiter    *rate.Limiter
	limit      int
	lastAccess time.Time
}

// Limiter manages rate limiting for multiple clients, one token bucket per
// client, endpoint and method.
type Limiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	config      *Config
	cleanupStop chan struct{}
	stopOnce    sync.Once
	now         func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = NewConfig(10, 20, nil)
	}

	limiter := &Limiter{
		clients: make(map[string]*client),
		config:  config,
		now:     time.Now,
	}

	// Start cleanup goroutine if enabled
	if config.Enabled && config.CleanupInterval > 0 {
		limiter.cleanupStop = make(chan struct{})
		go limiter.cleanup(config.CleanupInterval)
	}

	return limiter
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)

	var key string
	var limit rate.Limit
	var burst, shown int
	switch {
	case endpointConfig == nil:
		// Unmatched endpoints share one bucket per client.
		key = clientID
		limit = rate.Limit(l.config.DefaultRate)
		burst = l.config.DefaultBurst
		shown = burst
	case endpointConfig.Limit <= 0:
		return true, Info{Allowed: true}
	default:
		key = clientID + ":" + method + ":" + endpointConfig.Path
		limit = rate.Every(endpointConfig.Window / time.Duration(endpointConfig.Limit))
		burst = endpointConfig.Burst
		if burst <= 0 {
			burst = endpointConfig.Limit
		}
		shown = endpointConfig.Limit
	}

	now := l.now()
	c := l.getClient(key, limit, burst, shown, now)
	allowed := c.limiter.AllowN(now, 1)

	tokens := c.limiter.TokensAt(now)
	info := Info{
		Allowed:   allowed,
		Limit:     c.limit,
		Remaining: max(0, int(math.Floor(tokens))),
		ResetTime: now.Add(refillTime(float64(burst)-tokens, limit)),
	}
	if !allowed {
		info.RetryAfter = refillTime(1-tokens, limit)
	}
	return allowed, info
}

// refillTime is how long the bucket needs to gain the given number of tokens.
func refillTime(tokens float64, limit rate.Limit) time.Duration {
	if tokens <= 0 || limit <= 0 || limit == rate.Inf {
		return 0
	}
	return time.Duration(tokens / float64(limit) * float64(time.Second))
}

// getClient gets or creates the limiter for the given key.
func (l *Limiter) getClient(key string, limit rate.Limit, burst, shown int, now time.Time) *client {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(limit, burst), limit: shown}
		l.clients[key] = c
	}
	c.lastAccess = now
	return c
}

// cleanup removes idle limiters to prevent memory leaks.
func (l *Limiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupClients()
		case <-l.cleanupStop:
			return
		}
	}
}

// cleanupClients removes limiters that have not been used within IdleTimeout.
func (l *Limiter) cleanupClients() {
	idle := l.config.IdleTimeout
	if idle <= 0 {
		idle = time.Hour
	}
	cutoff := l.now().Add(-idle)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, c := range l.clients {
		if c.lastAccess.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// size returns the number of tracked limiters.
func (l *Limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.cleanupStop != nil {
			close(l.cleanupStop)
		}
	})
}
