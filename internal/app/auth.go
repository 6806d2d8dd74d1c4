package service

import (
	"context"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
	"github.com/okian/sgva/pkg/metrics"
)

// User-facing messages.
const (
	msgLoggedIn      = "¡Sesión iniciada!"
	msgLoggedOut     = "Sesión cerrada"
	msgSessionSave   = "No se pudo guardar la sesión"
	msgOAuthNoToken  = "No se recibió el token de acceso"
	msgEstadoUpdated = "Postulación actualizada"
)

// Login exchanges credentials for a session. On failure the login page
// stays and the client has already told the user why.
func (s *Service) Login(ctx context.Context, username, password string) bool {
	tok, ok := s.api.ObtainToken(ctx, backend.Credentials{Username: username, Password: password})
	if !ok {
		return false
	}
	if !s.startSession(ctx, tok.Access, tok.User) {
		return false
	}
	s.logger.Info(ctx, "logged in", logger.String("username", username))
	return true
}

// OAuthURL returns where to send the browser for provider.
func (s *Service) OAuthURL(provider string) (string, error) {
	return s.api.OAuthURL(provider, s.origin)
}

// OAuthCallback finishes a provider login with the access token the
// backend handed back.
func (s *Service) OAuthCallback(ctx context.Context, access string) bool {
	if access == "" {
		s.notifier.Notify(ctx, notify.Error, msgOAuthNoToken)
		_ = s.GoTo(ctx, PageLogin)
		return false
	}
	if !s.startSession(ctx, access, model.User{}) {
		return false
	}
	s.logger.Info(ctx, "logged in via oauth")
	return true
}

func (s *Service) startSession(ctx context.Context, token string, user model.User) bool {
	if user == nil {
		user = model.User{}
	}
	if err := s.sessions.Set(ctx, token, user); err != nil {
		s.logger.Error(ctx, "failed to store session", logger.Error(err))
		s.notifier.Notify(ctx, notify.Error, msgSessionSave)
		return false
	}
	s.mu.Lock()
	s.view.User = cloneUser(user)
	s.mu.Unlock()

	metrics.RecordLogin()
	s.notifier.Notify(ctx, notify.Success, msgLoggedIn)
	_ = s.GoTo(ctx, PageDashboard)
	return true
}

// Logout ends the session unconditionally. Calling it again yields the same
// end state.
func (s *Service) Logout(ctx context.Context) {
	if err := s.sessions.Clear(ctx); err != nil {
		s.logger.Error(ctx, "failed to clear session", logger.Error(err))
	}

	s.mu.Lock()
	s.view = emptyView()
	s.bumpAllLocked()
	s.mu.Unlock()

	metrics.RecordLogout()
	metrics.RecordPageView(string(PageLogin))
	s.notifier.Notify(ctx, notify.Success, msgLoggedOut)
}
