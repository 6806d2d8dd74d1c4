// Package config defines the dashboard client configuration and its loader.
//
// Conventions:
// - Defaults live in New; Load layers a YAML file and SGVA_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the dashboard HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// APIBase is the backend REST base URL every request path is joined to.
	APIBase string `koanf:"api_base"`

	// OAuthBase is the origin hosting the /oauth/<provider>/ entry points.
	OAuthBase string `koanf:"oauth_base"`

	// PublicOrigin is this dashboard's externally visible origin, used as
	// the OAuth callback target.
	PublicOrigin string `koanf:"public_origin"`

	// SessionFile persists the token and user profile across restarts.
	SessionFile string `koanf:"session_file"`

	// SessionKey optionally seals the session file (64 hex chars).
	SessionKey string `koanf:"session_key"`

	// ToastTTLMS is how long a notification stays visible.
	ToastTTLMS int `koanf:"toast_ttl_ms"`

	// ToastCapacity bounds the number of visible notifications.
	ToastCapacity int `koanf:"toast_capacity"`

	// RecentLimit caps the "recent postulaciones" panel on the dashboard.
	RecentLimit int `koanf:"recent_limit"`

	// RequestTimeoutMS bounds each backend call; 0 disables the timeout.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		APIBase:          "http://127.0.0.1:8000/api",
		OAuthBase:        "http://127.0.0.1:8000",
		PublicOrigin:     "http://localhost:9080",
		SessionFile:      "sgva-session.json",
		ToastTTLMS:       3000,
		ToastCapacity:    5,
		RecentLimit:      3,
		RequestTimeoutMS: 0,
	}
}

// ToastTTL returns the toast lifetime as a duration.
func (c *Config) ToastTTL() time.Duration {
	return time.Duration(c.ToastTTLMS) * time.Millisecond
}

// RequestTimeout returns the backend call timeout; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// SessionKeyBytes decodes SessionKey. It returns nil when no key is set.
func (c *Config) SessionKeyBytes() (*[32]byte, error) {
	if strings.TrimSpace(c.SessionKey) == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(strings.TrimSpace(c.SessionKey))
	if err != nil {
		return nil, fmt.Errorf("%w: session_key: %v", ErrInvalidConfig, err)
	}
	if len(raw) != 32 {
		return nil, fmt.Errorf("%w: session_key must be 32 bytes, got %d", ErrInvalidConfig, len(raw))
	}
	var key [32]byte
	copy(key[:], raw)
	return &key, nil
}

// Validate checks the fields the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	for name, raw := range map[string]string{
		"api_base":      c.APIBase,
		"oauth_base":    c.OAuthBase,
		"public_origin": c.PublicOrigin,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%w: %s must be an absolute URL", ErrInvalidConfig, name)
		}
	}
	if strings.TrimSpace(c.SessionFile) == "" {
		return fmt.Errorf("%w: session_file must not be empty", ErrInvalidConfig)
	}
	if c.ToastTTLMS <= 0 {
		return fmt.Errorf("%w: toast_ttl_ms must be positive", ErrInvalidConfig)
	}
	if c.ToastCapacity <= 0 {
		return fmt.Errorf("%w: toast_capacity must be positive", ErrInvalidConfig)
	}
	if c.RecentLimit <= 0 {
		return fmt.Errorf("%w: recent_limit must be positive", ErrInvalidConfig)
	}
	if c.RequestTimeoutMS < 0 {
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if _, err := c.SessionKeyBytes(); err != nil {
		return err
	}
	return nil
}
