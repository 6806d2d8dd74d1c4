package backend

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithNotifier sets where user-facing failures are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithOnUnauthorized sets the session-expiry hook.
func WithOnUnauthorized(fn func(ctx context.Context)) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// WithTimeout bounds each call. Zero keeps calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithOAuthBase sets the origin hosting /oauth/<provider>/.
func WithOAuthBase(base string) Option {
	return func(c *Client) {
		if b := strings.TrimRight(strings.TrimSpace(base), "/"); b != "" {
			c.oauthBase = b
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
