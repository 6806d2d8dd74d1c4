// Package notify implements transient user-facing notifications (toasts).
//
// Toasts live in a bounded in-memory list and expire after a TTL; the view
// layer asks for the ones still active when it renders.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/sgva/pkg/logger"
	"github.com/okian/sgva/pkg/metrics"
)

const (
	defaultTTL      = 3 * time.Second
	defaultCapacity = 5
)

// Kind is the visual flavour of a toast.
type Kind string

// Toast kinds.
const (
	Success Kind = "success"
	Error   Kind = "error"
	Info    Kind = "info"
)

// Toast is one notification.
type Toast struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Notifier is what producers of user feedback depend on.
type Notifier interface {
	Notify(ctx context.Context, kind Kind, message string)
}

// Center stores toasts until they expire or are dismissed.
type Center struct {
	mu       sync.Mutex
	toasts   []Toast
	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   logger.Logger
}

// NewCenter creates a toast center with configuration options.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		ttl:      defaultTTL,
		capacity: defaultCapacity,
		now:      time.Now,
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notify implements Notifier. When the center is full the oldest toast is
// dropped.
func (c *Center) Notify(ctx context.Context, kind Kind, message string) {
	now := c.now()
	t := Toast{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.pruneLocked(now)
	if len(c.toasts) >= c.capacity {
		c.toasts = c.toasts[len(c.toasts)-c.capacity+1:]
	}
	c.toasts = append(c.toasts, t)
	active := len(c.toasts)
	c.mu.Unlock()

	metrics.RecordNotification(string(kind))
	metrics.UpdateActiveToasts(active)
	c.logger.Debug(ctx, "toast", logger.String("kind", string(kind)), logger.String("message", message))
}

// Active returns the unexpired toasts, oldest first.
func (c *Center) Active() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())
	metrics.UpdateActiveToasts(len(c.toasts))
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}

// Drain returns the unexpired toasts and removes them. The terminal client
// uses it to print each toast once.
func (c *Center) Drain() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pruneLocked(c.now())
	out := c.toasts
	c.toasts = nil
	metrics.UpdateActiveToasts(0)
	return out
}

// Dismiss removes the toast with id. It reports whether one was removed.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			metrics.UpdateActiveToasts(len(c.toasts))
			return true
		}
	}
	return false
}

func (c *Center) pruneLocked(now time.Time) {
	kept := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.ExpiresAt) {
			kept = append(kept, t)
		}
	}
	c.toasts = kept
}
