package notify

import (
	"time"

	"github.com/okian/sgva/pkg/logger"
)

// Option applies a configuration option to the Center.
type Option func(*Center)

// WithTTL sets how long a toast stays visible.
func WithTTL(ttl time.Duration) Option {
	return func(c *Center) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCapacity bounds the number of visible toasts.
func WithCapacity(capacity int) Option {
	return func(c *Center) {
		if capacity > 0 {
			c.capacity = capacity
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Center) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Center) {
		if l != nil {
			c.logger = l
		}
	}
}
