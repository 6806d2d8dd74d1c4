package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/sgva/internal/adapters/notify"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
)

const dateLayout = "2/1/2006"

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
	emptyStyle = lipgloss.NewStyle().Italic(true)

	toastStyles = map[notify.Kind]lipgloss.Style{
		notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	}

	estadoColors = map[model.Estado]lipgloss.Color{
		model.EstadoPendiente:    lipgloss.Color("3"),
		model.EstadoSeleccionado: lipgloss.Color("2"),
		model.EstadoContratado:   lipgloss.Color("2"),
		model.EstadoRechazado:    lipgloss.Color("1"),
	}
)

func printToasts(w io.Writer, toasts []notify.Toast) {
	for _, t := range toasts {
		style, ok := toastStyles[t.Kind]
		if !ok {
			style = lipgloss.NewStyle()
		}
		fmt.Fprintln(w, style.Render(t.Message))
	}
}

func printSession(w io.Writer, s model.Session) error {
	if !s.LoggedIn() {
		_, err := fmt.Fprintln(w, emptyStyle.Render("Sin sesión"))
		return err
	}
	lines := []string{titleStyle.Render("Sesión activa")}
	for _, kv := range [][2]string{
		{"Nombre", s.User.Nombre()},
		{"Usuario", s.User.Username()},
		{"Rol", s.User.Rol()},
	} {
		if kv[1] != "" {
			lines = append(lines, labelStyle.Render(kv[0]+":")+" "+kv[1])
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(lines, "\n"))
	return err
}

func printDashboard(w io.Writer, v app.View) error {
	d := v.Dashboard
	fmt.Fprintln(w, titleStyle.Render(d.Welcome))
	fmt.Fprintln(w, summaryTable(
		[]string{"Postulaciones", "Aceptadas", "Pendientes", "Calificación"},
		[]string{strconv.Itoa(d.Total), strconv.Itoa(d.Aceptadas), strconv.Itoa(d.Pendientes), d.Rating},
	))
	return printPostulaciones(w, d.Recent)
}

func printPostulaciones(w io.Writer, items []model.Postulacion) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("No hay postulaciones"))
		return err
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "Empresa", "Aprendiz", "Estado", "Fecha", "Días restantes").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle
			}
			if col == 3 && row >= 0 && row < len(items) {
				if c, ok := estadoColors[items[row].Estado]; ok {
					return lipgloss.NewStyle().Foreground(c)
				}
			}
			return lipgloss.NewStyle()
		})
	for _, p := range items {
		t.Row(
			strconv.FormatInt(p.ID, 10),
			orDefault(p.EmpresaNombre, "Empresa"),
			orDefault(p.AprendizNombre, "N/A"),
			string(p.Estado),
			fecha(p),
			strconv.Itoa(p.DiasRestantes),
		)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func printAnalytics(w io.Writer, a app.AnalyticsPanel) error {
	fmt.Fprintln(w, summaryTable(
		[]string{"Tasa de conversión", "Aprendices", "Empresas"},
		[]string{a.Conversion, strconv.Itoa(a.TotalAprendices), strconv.Itoa(a.TotalEmpresas)},
	))
	if len(a.Breakdown) == 0 {
		_, err := fmt.Fprintln(w, emptyStyle.Render("No hay datos"))
		return err
	}
	t := table.New().Border(lipgloss.NormalBorder()).Headers("Estado", "Postulaciones")
	for _, row := range a.Breakdown {
		t.Row(string(row.Estado), strconv.Itoa(row.Count)+" postulaciones")
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func summaryTable(headers, values []string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Row(values...).
		String()
}

func fecha(p model.Postulacion) string {
	if p.FechaPostulacion.IsZero() {
		return "-"
	}
	return p.FechaPostulacion.Format(dateLayout)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
