package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/okian/sgva/internal/adapters/notify"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPostulaciones(t *testing.T) {
	Convey("Given no records", t, func() {
		var buf bytes.Buffer
		So(Postulaciones(&buf, nil), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "No hay postulaciones")
	})

	Convey("Given a PENDIENTE record", t, func() {
		var buf bytes.Buffer
		So(Postulaciones(&buf, []model.Postulacion{{ID: 1, Estado: model.EstadoPendiente}}), ShouldBeNil)
		out := buf.String()

		Convey("Then it offers accept and reject", func() {
			So(out, ShouldContainSubstring, "Aceptar")
			So(out, ShouldContainSubstring, "Rechazar")
			So(out, ShouldContainSubstring, `action="/postulaciones/1/estado"`)
			So(out, ShouldContainSubstring, `value="SELECCIONADO"`)
			So(out, ShouldContainSubstring, `value="RECHAZADO"`)
			So(out, ShouldContainSubstring, "Ver detalles")
		})

		Convey("Then missing fields fall back to defaults", func() {
			So(out, ShouldContainSubstring, ">Empresa<")
			So(out, ShouldContainSubstring, "N/A")
			So(out, ShouldContainSubstring, "<strong>0</strong>")
			So(out, ShouldContainSubstring, "status-pendiente")
		})
	})

	Convey("Given records in every other state", t, func() {
		for _, e := range model.Estados {
			if e == model.EstadoPendiente {
				continue
			}
			var buf bytes.Buffer
			So(Postulaciones(&buf, []model.Postulacion{{ID: 2, Estado: e}}), ShouldBeNil)
			So(buf.String(), ShouldNotContainSubstring, "Aceptar")
			So(buf.String(), ShouldNotContainSubstring, "Rechazar")
			So(buf.String(), ShouldContainSubstring, "Ver detalles")
		}
	})

	Convey("Given record data with markup", t, func() {
		var buf bytes.Buffer
		p := model.Postulacion{
			ID:               3,
			Estado:           model.EstadoRechazado,
			EmpresaNombre:    `<script>alert("x")</script>`,
			AprendizNombre:   "Ana & Luis",
			FechaPostulacion: time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
			DiasRestantes:    12,
		}
		So(Postulaciones(&buf, []model.Postulacion{p}), ShouldBeNil)
		out := buf.String()

		Convey("Then it is escaped", func() {
			So(out, ShouldNotContainSubstring, "<script>")
			So(out, ShouldContainSubstring, "&lt;script&gt;")
			So(out, ShouldContainSubstring, "Ana &amp; Luis")
		})

		Convey("Then the date is day/month/year", func() {
			So(out, ShouldContainSubstring, "5/3/2024")
			So(out, ShouldContainSubstring, "<strong>12</strong>")
		})
	})
}

func TestEstadosChart(t *testing.T) {
	Convey("Given no rows", t, func() {
		var buf bytes.Buffer
		So(EstadosChart(&buf, []model.EstadoCount{}), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, "No hay datos")
	})

	Convey("Given rows", t, func() {
		var buf bytes.Buffer
		So(EstadosChart(&buf, []model.EstadoCount{
			{Estado: model.EstadoPendiente, Count: 3},
			{Estado: model.EstadoContratado, Count: 1},
		}), ShouldBeNil)
		out := buf.String()
		So(out, ShouldContainSubstring, "3 postulaciones")
		So(out, ShouldContainSubstring, "1 postulaciones")
		So(strings.Index(out, "PENDIENTE"), ShouldBeLessThan, strings.Index(out, "CONTRATADO"))
	})
}

func TestPage(t *testing.T) {
	Convey("Given the login view", t, func() {
		var buf bytes.Buffer
		err := Page(&buf, PageData{
			View:      app.View{Page: app.PageLogin},
			Providers: []string{"google", "microsoft-graph"},
		})
		So(err, ShouldBeNil)
		out := buf.String()

		Convey("Then the navbar is hidden and only login is active", func() {
			So(out, ShouldContainSubstring, `class="navbar hidden"`)
			So(out, ShouldContainSubstring, `id="login-page" class="page active"`)
			So(out, ShouldNotContainSubstring, `id="dashboard-page"`)
			So(out, ShouldContainSubstring, `href="/oauth/microsoft-graph"`)
		})
	})

	Convey("Given the dashboard view with a toast", t, func() {
		var buf bytes.Buffer
		err := Page(&buf, PageData{
			View: app.View{
				Page:       app.PageDashboard,
				NavVisible: true,
				Dashboard: app.DashboardPanel{
					Welcome:    "Bienvenido, Ana!",
					Total:      2,
					Aceptadas:  1,
					Pendientes: 1,
					Rating:     "4.3",
				},
			},
			Toasts: []notify.Toast{{ID: "t1", Kind: notify.Success, Message: "¡Sesión iniciada!"}},
		})
		So(err, ShouldBeNil)
		out := buf.String()

		So(out, ShouldContainSubstring, `class="navbar"`)
		So(out, ShouldContainSubstring, `id="login-page" class="page"`)
		So(out, ShouldContainSubstring, "Bienvenido, Ana!")
		So(out, ShouldContainSubstring, `<span id="stat-postulaciones">2</span>`)
		So(out, ShouldContainSubstring, `<span id="stat-rating">4.3</span>`)
		So(out, ShouldContainSubstring, "No hay postulaciones")
		So(out, ShouldContainSubstring, "toast show success")
		So(out, ShouldContainSubstring, "/toasts/t1/dismiss")
	})

	Convey("Given the postulaciones view with a state filter", t, func() {
		var buf bytes.Buffer
		v := app.View{Page: app.PagePostulaciones, NavVisible: true}
		v.Postulaciones.Filter.Estado = model.EstadoContratado
		So(Page(&buf, PageData{View: v}), ShouldBeNil)
		So(buf.String(), ShouldContainSubstring, `<option value="CONTRATADO" selected>`)
	})
}
