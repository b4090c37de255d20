package config

import (
	"sync"
	"time"
)

// Live holds the ServerConfig currently in effect.
// The settings watcher replaces it while requests read it.
type Live struct {
	mu  sync.RWMutex
	cfg ServerConfig
}

// NewLive creates a Live holding cfg
func NewLive(cfg ServerConfig) *Live {
	return &Live{cfg: cfg}
}

// Get returns a copy of the current configuration
func (l *Live) Get() ServerConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cfg := l.cfg
	cfg.AllowedOrigins = append([]string(nil), l.cfg.AllowedOrigins...)
	return cfg
}

// Set replaces the current configuration
func (l *Live) Set(cfg ServerConfig) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
}

// AllowedOrigins returns the configured CORS origin patterns
func (l *Live) AllowedOrigins() []string {
	return l.Get().AllowedOrigins
}

// TestTimeout returns the capture-mode timeout
func (l *Live) TestTimeout() time.Duration {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cfg.TestTimeout
}
