// Package render turns dashboard records into HTML. Every renderer is a
// pure function of its input; record data is always escaped.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/okian/sgva/internal/adapters/notify"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
	"github.com/okian/sgva/pkg/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// dateLayout matches the es-ES short date (day/month/year, no padding).
const dateLayout = "2/1/2006"

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"fecha":     fecha,
	"orDefault": orDefault,
}).ParseFS(templateFS, "templates/*.html"))

// PageData is everything the full page needs.
type PageData struct {
	View      app.View
	Toasts    []notify.Toast
	Providers []string
	Estados   []model.Estado
}

// Page writes the full dashboard document.
func Page(w io.Writer, data PageData) error {
	if data.Estados == nil {
		data.Estados = model.Estados
	}
	metrics.RecordRenderedRecords("page", len(data.View.Dashboard.Recent)+len(data.View.Postulaciones.Items))
	return execute(w, "layout", data)
}

// Postulaciones writes the record list fragment. An empty list renders the
// empty-state message; only PENDIENTE records get accept/reject actions.
func Postulaciones(w io.Writer, items []model.Postulacion) error {
	metrics.RecordRenderedRecords("postulaciones", len(items))
	return execute(w, "postulaciones", items)
}

// EstadosChart writes the breakdown-by-state fragment.
func EstadosChart(w io.Writer, rows []model.EstadoCount) error {
	metrics.RecordRenderedRecords("estados", len(rows))
	return execute(w, "estados", rows)
}

// Toasts writes the notification area.
func Toasts(w io.Writer, toasts []notify.Toast) error {
	return execute(w, "toasts", toasts)
}

func execute(w io.Writer, name string, data any) error {
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

func fecha(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
