package service

import (
	"fmt"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/internal/adapters/session"
	"github.com/okian/sgva/internal/config"
	"github.com/okian/sgva/pkg/logger"
)

// Runtime is a fully wired dashboard: session store, toasts, backend
// client and the service driving them.
type Runtime struct {
	Config   *config.Config
	Sessions session.Store
	Toasts   *notify.Center
	Client   *backend.Client
	Service  *Service
}

// NewRuntime wires the components described by cfg. With ephemeral set the
// session lives in memory only.
func NewRuntime(cfg *config.Config, log logger.Logger, ephemeral bool) (*Runtime, error) {
	if log == nil {
		log = logger.Nop()
	}

	var store session.Store
	if ephemeral {
		store = session.NewMemoryStore()
	} else {
		key, err := cfg.SessionKeyBytes()
		if err != nil {
			return nil, err
		}
		fs, err := session.NewFileStore(cfg.SessionFile,
			session.WithKey(key),
			session.WithLogger(log.Named("session")),
		)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		store = fs
	}

	toasts := notify.NewCenter(
		notify.WithTTL(cfg.ToastTTL()),
		notify.WithCapacity(cfg.ToastCapacity),
		notify.WithLogger(log.Named("notify")),
	)
	client := backend.New(cfg.APIBase, store,
		backend.WithNotifier(toasts),
		backend.WithTimeout(cfg.RequestTimeout()),
		backend.WithOAuthBase(cfg.OAuthBase),
		backend.WithLogger(log.Named("backend")),
	)
	svc := New(client, store,
		WithNotifier(toasts),
		WithRecentLimit(cfg.RecentLimit),
		WithOrigin(cfg.PublicOrigin),
		WithLogger(log.Named("dashboard")),
	)
	client.SetUnauthorizedHandler(svc.HandleUnauthorized)

	return &Runtime{
		Config:   cfg,
		Sessions: store,
		Toasts:   toasts,
		Client:   client,
		Service:  svc,
	}, nil
}
