// Package ui serves the dashboard as HTML over HTTP.
//
// Pages are rendered on the server from the service's view snapshot. Every
// mutating route answers 303 to "/" so a browser refresh never resubmits.
package ui

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/notify"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
)

// Dashboard is what the handlers drive.
type Dashboard interface {
	Snapshot() app.View
	GoTo(ctx context.Context, page app.Page) error
	Login(ctx context.Context, username, password string) bool
	Logout(ctx context.Context)
	OAuthURL(provider string) (string, error)
	OAuthCallback(ctx context.Context, access string) bool
	OpenPostulaciones(ctx context.Context, f backend.Filter)
	ChangeEstado(ctx context.Context, id int64, estado model.Estado) bool
	ShowDetails(ctx context.Context, id int64)
}

// Toasts is the notification area the pages display.
type Toasts interface {
	Active() []notify.Toast
	Dismiss(id string) bool
}

// Server wires HTTP routes for the dashboard.
type Server struct {
	dash      Dashboard
	toasts    Toasts
	providers []string
	logger    logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithProviders sets the OAuth providers offered on the login page.
func WithProviders(providers []string) Option {
	return func(s *Server) {
		s.providers = providers
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a dashboard server.
func NewServer(dash Dashboard, toasts Toasts, opts ...Option) *Server {
	s := &Server{
		dash:      dash,
		toasts:    toasts,
		providers: backend.OAuthProviders,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", MetricsMiddleware(HandleHealth, "healthz")).Methods(http.MethodGet)
	r.HandleFunc("/metrics", HandleHealth).Methods(http.MethodGet)

	r.HandleFunc("/", MetricsMiddleware(s.handleIndex, "index")).Methods(http.MethodGet)
	r.HandleFunc("/pages/{page}", MetricsMiddleware(s.handlePage, "page")).Methods(http.MethodGet)

	r.HandleFunc("/login", MetricsMiddleware(s.handleLogin, "login")).Methods(http.MethodPost)
	r.HandleFunc("/logout", MetricsMiddleware(s.handleLogout, "logout")).Methods(http.MethodPost)
	r.HandleFunc("/oauth/{provider}", MetricsMiddleware(s.handleOAuth, "oauth")).Methods(http.MethodGet)
	r.HandleFunc(backend.OAuthCallbackPath, MetricsMiddleware(s.handleOAuthCallback, "oauth_callback")).Methods(http.MethodGet)

	r.HandleFunc("/postulaciones", MetricsMiddleware(s.handlePostulaciones, "postulaciones")).Methods(http.MethodGet)
	r.HandleFunc("/postulaciones/{id:[0-9]+}", MetricsMiddleware(s.handleDetails, "postulacion")).Methods(http.MethodGet)
	r.HandleFunc("/postulaciones/{id:[0-9]+}/estado", MetricsMiddleware(s.handleEstado, "estado")).Methods(http.MethodPost)
	r.HandleFunc("/fragments/postulaciones", MetricsMiddleware(s.handlePostulacionesFragment, "fragment_postulaciones")).Methods(http.MethodGet)
	r.HandleFunc("/fragments/estados", MetricsMiddleware(s.handleEstadosFragment, "fragment_estados")).Methods(http.MethodGet)

	r.HandleFunc("/toasts/{id}/dismiss", MetricsMiddleware(s.handleDismiss, "toast_dismiss")).Methods(http.MethodPost)
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	s.Register(r)
	return r
}
