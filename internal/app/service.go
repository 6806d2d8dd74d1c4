// Package service holds the dashboard's view state and the flows that
// change it: navigation, login/logout and the per-page data loaders.
package service

import (
	"context"
	"sync"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/internal/adapters/session"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
)

const defaultRecentLimit = 3

// Backend is the subset of the API client the service drives. Every call
// reports its own failures; false means "already reported, stop".
type Backend interface {
	ObtainToken(ctx context.Context, creds backend.Credentials) (backend.TokenResponse, bool)
	ListPostulaciones(ctx context.Context, f backend.Filter) (backend.Page[model.Postulacion], bool)
	CambiarEstado(ctx context.Context, id int64, estado model.Estado) bool
	MiPromedio(ctx context.Context) (model.Rating, bool)
	Estadisticas(ctx context.Context) (model.AnalyticsSummary, bool)
	PostulacionesPorEstado(ctx context.Context) ([]model.EstadoCount, bool)
	OAuthURL(provider, origin string) (string, error)
}

// Service owns the view of one dashboard session.
//
// mu guards view and gens and is never held across a backend call.
type Service struct {
	mu   sync.Mutex
	view View
	gens map[loader]uint64

	api      Backend
	sessions session.Store
	notifier notify.Notifier

	recentLimit int
	origin      string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithNotifier sets where user feedback goes.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithRecentLimit sets how many records the dashboard lists as recent.
func WithRecentLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentLimit = n
		}
	}
}

// WithOrigin sets the public origin used to build the OAuth callback URL.
func WithOrigin(origin string) Option {
	return func(s *Service) {
		s.origin = origin
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over api and sessions. Pass the same store the
// API client reads its token from.
func New(api Backend, sessions session.Store, opts ...Option) *Service {
	s := &Service{
		view:        emptyView(),
		gens:        make(map[loader]uint64),
		api:         api,
		sessions:    sessions,
		notifier:    nopNotifier{},
		recentLimit: defaultRecentLimit,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.view.User = sessions.Get(context.Background()).User
	return s
}

// HandleUnauthorized is the API client's 401 hook: the session ends exactly
// as if the user had logged out.
func (s *Service) HandleUnauthorized(ctx context.Context) {
	s.logger.Warn(ctx, "backend rejected the session; logging out")
	s.Logout(ctx)
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, notify.Kind, string) {}
