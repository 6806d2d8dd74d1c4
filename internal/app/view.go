package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
	"github.com/okian/sgva/pkg/metrics"
)

// Page identifies one dashboard page. Exactly one is visible at a time.
type Page string

// Pages.
const (
	PageLogin         Page = "login"
	PageDashboard     Page = "dashboard"
	PagePostulaciones Page = "postulaciones"
	PageAnalytics     Page = "analytics"
)

// Pages lists every page in navigation order.
var Pages = []Page{PageLogin, PageDashboard, PagePostulaciones, PageAnalytics}

// ParsePage accepts "dashboard" as well as the markup id "dashboard-page".
func ParsePage(s string) (Page, error) {
	p := Page(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "-page"))
	for _, known := range Pages {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPage, s)
}

// DashboardPanel is the summary page state.
type DashboardPanel struct {
	Welcome    string
	Total      int
	Aceptadas  int
	Pendientes int
	Recent     []model.Postulacion
	Rating     string
}

// PostulacionesPanel is the list page state.
type PostulacionesPanel struct {
	Filter backend.Filter
	Items  []model.Postulacion
	Loaded bool
}

// AnalyticsPanel is the analytics page state.
type AnalyticsPanel struct {
	Conversion      string
	TotalAprendices int
	TotalEmpresas   int
	Breakdown       []model.EstadoCount
	Loaded          bool
}

// View is a snapshot of everything the dashboard shows.
type View struct {
	Page          Page
	NavVisible    bool
	User          model.User
	Dashboard     DashboardPanel
	Postulaciones PostulacionesPanel
	Analytics     AnalyticsPanel
}

func emptyView() View {
	return View{
		Page:      PageLogin,
		Dashboard: DashboardPanel{Welcome: welcomeText(nil), Rating: "-"},
		Analytics: AnalyticsPanel{Conversion: "0%"},
	}
}

func (v View) clone() View {
	out := v
	out.User = cloneUser(v.User)
	out.Dashboard.Recent = append([]model.Postulacion(nil), v.Dashboard.Recent...)
	out.Postulaciones.Items = append([]model.Postulacion(nil), v.Postulaciones.Items...)
	out.Analytics.Breakdown = append([]model.EstadoCount(nil), v.Analytics.Breakdown...)
	return out
}

func cloneUser(u model.User) model.User {
	out := make(model.User, len(u))
	for k, v := range u {
		out[k] = v
	}
	return out
}

// Snapshot returns a copy of the current view.
func (s *Service) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.clone()
}

// Start picks the first page: the dashboard when a session exists, else
// login.
func (s *Service) Start(ctx context.Context) {
	if s.sessions.Get(ctx).LoggedIn() {
		s.logger.Info(ctx, "session found, opening dashboard")
		_ = s.GoTo(ctx, PageDashboard)
		return
	}
	_ = s.GoTo(ctx, PageLogin)
}

// GoTo shows page and runs its loader. An unknown page leaves the view
// unchanged.
func (s *Service) GoTo(ctx context.Context, page Page) error {
	p, err := ParsePage(string(page))
	if err != nil {
		s.logger.Warn(ctx, "navigation to unknown page", logger.String("page", string(page)))
		return err
	}

	s.show(p)

	switch p {
	case PageDashboard:
		s.LoadDashboard(ctx)
	case PagePostulaciones:
		s.LoadPostulaciones(ctx)
	case PageAnalytics:
		s.LoadAnalytics(ctx)
	}
	return nil
}

// OpenPostulaciones shows the list page filtered by f.
func (s *Service) OpenPostulaciones(ctx context.Context, f backend.Filter) {
	s.show(PagePostulaciones)
	s.FilterPostulaciones(ctx, f)
}

func (s *Service) show(p Page) {
	s.mu.Lock()
	s.view.Page = p
	s.view.NavVisible = p != PageLogin
	s.mu.Unlock()
	metrics.RecordPageView(string(p))
}

func welcomeText(u model.User) string {
	if n := u.Nombre(); n != "" {
		return "Bienvenido, " + n + "!"
	}
	return "Bienvenido"
}
