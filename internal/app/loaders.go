package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/notify"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/logger"
	"github.com/okian/sgva/pkg/metrics"
)

type loader string

const (
	loaderDashboard     loader = "dashboard"
	loaderPostulaciones loader = "postulaciones"
	loaderAnalytics     loader = "analytics"
)

var loaders = []loader{loaderDashboard, loaderPostulaciones, loaderAnalytics}

// begin starts a new run of l. Responses from older runs are discarded.
func (s *Service) begin(l loader) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[l]++
	metrics.RecordLoaderRun(string(l))
	return s.gens[l]
}

func (s *Service) bumpAllLocked() {
	for _, l := range loaders {
		s.gens[l]++
	}
}

// current reports whether gen is still the latest run of l.
func (s *Service) current(l loader, gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[l] == gen
}

// apply runs fn on the view if gen is still current for l.
func (s *Service) apply(ctx context.Context, l loader, gen uint64, fn func(v *View)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[l] != gen {
		metrics.RecordStaleResponse(string(l))
		s.logger.Debug(ctx, "discarding stale response",
			logger.String("loader", string(l)),
			logger.Int64("generation", int64(gen)),
			logger.Int64("current", int64(s.gens[l])),
		)
		return false
	}
	fn(&s.view)
	return true
}

// LoadDashboard refreshes the welcome text, the counters with the most
// recent records, and the caller's own rating. Each fetch updates its own
// part; a failed fetch does not stop the next one.
func (s *Service) LoadDashboard(ctx context.Context) {
	gen := s.begin(loaderDashboard)

	user := s.sessions.Get(ctx).User
	s.apply(ctx, loaderDashboard, gen, func(v *View) {
		v.User = cloneUser(user)
		v.Dashboard.Welcome = welcomeText(user)
	})

	if page, ok := s.api.ListPostulaciones(ctx, backend.Filter{}); ok {
		recent := page.Items
		if len(recent) > s.recentLimit {
			recent = recent[:s.recentLimit]
		}
		s.apply(ctx, loaderDashboard, gen, func(v *View) {
			v.Dashboard.Total = page.Count
			v.Dashboard.Aceptadas = model.CountByEstado(page.Items, model.EstadoSeleccionado)
			v.Dashboard.Pendientes = model.CountByEstado(page.Items, model.EstadoPendiente)
			v.Dashboard.Recent = append([]model.Postulacion(nil), recent...)
		})
	}
	if !s.current(loaderDashboard, gen) {
		return
	}

	if rating, ok := s.api.MiPromedio(ctx); ok {
		s.apply(ctx, loaderDashboard, gen, func(v *View) {
			v.Dashboard.Rating = formatRating(rating.Promedio)
		})
	}
}

// LoadPostulaciones lists every record and clears any filter.
func (s *Service) LoadPostulaciones(ctx context.Context) {
	s.FilterPostulaciones(ctx, backend.Filter{})
}

// FilterPostulaciones lists the records matching f. A zero filter lists
// everything.
func (s *Service) FilterPostulaciones(ctx context.Context, f backend.Filter) {
	gen := s.begin(loaderPostulaciones)
	s.apply(ctx, loaderPostulaciones, gen, func(v *View) {
		v.Postulaciones.Filter = f
	})

	page, ok := s.api.ListPostulaciones(ctx, f)
	if !ok {
		return
	}
	s.apply(ctx, loaderPostulaciones, gen, func(v *View) {
		v.Postulaciones.Items = append([]model.Postulacion(nil), page.Items...)
		v.Postulaciones.Loaded = true
	})
}

// ChangeEstado moves record id to estado and reloads whichever page shows
// it: the dashboard's recent list, or the full list everywhere else.
func (s *Service) ChangeEstado(ctx context.Context, id int64, estado model.Estado) bool {
	if !s.api.CambiarEstado(ctx, id, estado) {
		return false
	}
	s.logger.Info(ctx, "postulacion updated", logger.Int64("id", id), logger.String("estado", string(estado)))
	s.notifier.Notify(ctx, notify.Success, msgEstadoUpdated)

	s.mu.Lock()
	page := s.view.Page
	s.mu.Unlock()
	if page == PageDashboard {
		s.LoadDashboard(ctx)
	} else {
		s.LoadPostulaciones(ctx)
	}
	return true
}

// ShowDetails tells the user which record they picked.
func (s *Service) ShowDetails(ctx context.Context, id int64) {
	s.notifier.Notify(ctx, notify.Info, fmt.Sprintf("Ver detalles de postulación %d", id))
}

// LoadAnalytics refreshes the summary cards then the breakdown chart.
func (s *Service) LoadAnalytics(ctx context.Context) {
	gen := s.begin(loaderAnalytics)

	if summary, ok := s.api.Estadisticas(ctx); ok {
		s.apply(ctx, loaderAnalytics, gen, func(v *View) {
			v.Analytics.Conversion = formatConversion(summary.TasaConversion)
			v.Analytics.TotalAprendices = summary.TotalAprendices
			v.Analytics.TotalEmpresas = summary.TotalEmpresas
		})
	}
	if !s.current(loaderAnalytics, gen) {
		return
	}

	if rows, ok := s.api.PostulacionesPorEstado(ctx); ok {
		s.apply(ctx, loaderAnalytics, gen, func(v *View) {
			v.Analytics.Breakdown = append([]model.EstadoCount(nil), rows...)
			v.Analytics.Loaded = true
		})
	}
}

// formatRating shows one decimal, or "-" when there is no rating yet.
func formatRating(promedio float64) string {
	if promedio == 0 {
		return "-"
	}
	return strconv.FormatFloat(promedio, 'f', 1, 64)
}

// formatConversion shows a percentage with one decimal, or "0%".
func formatConversion(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return strconv.FormatFloat(rate, 'f', 1, 64) + "%"
}
