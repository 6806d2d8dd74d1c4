package ui

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okian/sgva/internal/adapters/backend"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/internal/render"
	"github.com/okian/sgva/pkg/logger"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeHTML(w, r, func(buf *bytes.Buffer) error {
		return render.Page(buf, render.PageData{
			View:      s.dash.Snapshot(),
			Toasts:    s.toasts.Active(),
			Providers: s.providers,
		})
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page := mux.Vars(r)["page"]
	if err := s.dash.GoTo(r.Context(), app.Page(page)); err != nil {
		if errors.Is(err, app.ErrUnknownPage) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	seeOther(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.dash.Login(r.Context(), r.PostForm.Get("username"), r.PostForm.Get("password"))
	seeOther(w, r)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.dash.Logout(r.Context())
	seeOther(w, r)
}

func (s *Server) handleOAuth(w http.ResponseWriter, r *http.Request) {
	target, err := s.dash.OAuthURL(mux.Vars(r)["provider"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (s *Server) handleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	s.dash.OAuthCallback(r.Context(), r.URL.Query().Get("access"))
	seeOther(w, r)
}

func (s *Server) handlePostulaciones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.dash.OpenPostulaciones(r.Context(), backend.Filter{
		Search: strings.TrimSpace(q.Get("search")),
		Estado: model.Estado(strings.TrimSpace(q.Get("estado"))),
	})
	seeOther(w, r)
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.dash.ShowDetails(r.Context(), id)
	seeOther(w, r)
}

func (s *Server) handleEstado(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	s.dash.ChangeEstado(r.Context(), id, model.Estado(r.PostForm.Get("estado")))
	seeOther(w, r)
}

func (s *Server) handlePostulacionesFragment(w http.ResponseWriter, r *http.Request) {
	items := s.dash.Snapshot().Postulaciones.Items
	s.writeHTML(w, r, func(buf *bytes.Buffer) error {
		return render.Postulaciones(buf, items)
	})
}

func (s *Server) handleEstadosFragment(w http.ResponseWriter, r *http.Request) {
	rows := s.dash.Snapshot().Analytics.Breakdown
	s.writeHTML(w, r, func(buf *bytes.Buffer) error {
		return render.EstadosChart(buf, rows)
	})
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	s.toasts.Dismiss(mux.Vars(r)["id"])
	seeOther(w, r)
}

// writeHTML renders into a buffer; a render error yields a 500.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, fn func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.logger.Error(r.Context(), "render failed", logger.String("path", r.URL.Path), logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func seeOther(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
