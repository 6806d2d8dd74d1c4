package ui_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/okian/sgva/internal/adapters/backend"
	"github.com/okian/sgva/internal/adapters/http/ui"
	"github.com/okian/sgva/internal/adapters/notify"
	app "github.com/okian/sgva/internal/app"
	"github.com/okian/sgva/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDashboard struct {
	view      app.View
	calls     []string
	lastLogin [2]string
	filter    backend.Filter
	estado    model.Estado
	id        int64
	access    string
}

func (m *mockDashboard) Snapshot() app.View { return m.view }

func (m *mockDashboard) GoTo(_ context.Context, page app.Page) error {
	p, err := app.ParsePage(string(page))
	if err != nil {
		return err
	}
	m.calls = append(m.calls, "goto:"+string(p))
	m.view.Page = p
	return nil
}

func (m *mockDashboard) Login(_ context.Context, username, password string) bool {
	m.calls = append(m.calls, "login")
	m.lastLogin = [2]string{username, password}
	return true
}

func (m *mockDashboard) Logout(context.Context) { m.calls = append(m.calls, "logout") }

func (m *mockDashboard) OAuthURL(provider string) (string, error) {
	return backend.New("http://127.0.0.1:8000/api", nil).OAuthURL(provider, "http://localhost:9080")
}

func (m *mockDashboard) OAuthCallback(_ context.Context, access string) bool {
	m.calls = append(m.calls, "oauth_callback")
	m.access = access
	return access != ""
}

func (m *mockDashboard) OpenPostulaciones(_ context.Context, f backend.Filter) {
	m.calls = append(m.calls, "postulaciones")
	m.filter = f
}

func (m *mockDashboard) ChangeEstado(_ context.Context, id int64, estado model.Estado) bool {
	m.calls = append(m.calls, "estado")
	m.id, m.estado = id, estado
	return true
}

func (m *mockDashboard) ShowDetails(_ context.Context, id int64) {
	m.calls = append(m.calls, "details")
	m.id = id
}

func serve(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer(t *testing.T) {
	Convey("Given a dashboard server", t, func() {
		dash := &mockDashboard{view: app.View{Page: app.PageLogin}}
		toasts := notify.NewCenter()
		h := ui.NewServer(dash, toasts).Handler()

		Convey("When the index is requested", func() {
			toasts.Notify(context.Background(), notify.Error, "<b>API Error</b>")
			rec := serve(h, http.MethodGet, "/", nil)

			Convey("Then the current page is rendered with escaped toasts", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				body := rec.Body.String()
				So(body, ShouldContainSubstring, `id="login-page" class="page active"`)
				So(body, ShouldContainSubstring, "&lt;b&gt;API Error&lt;/b&gt;")
				So(body, ShouldContainSubstring, `href="/oauth/google"`)
			})
		})

		Convey("When logging in", func() {
			rec := serve(h, http.MethodPost, "/login", url.Values{"username": {"ana"}, "password": {"x"}})

			Convey("Then the form is forwarded and the browser is redirected", func() {
				So(rec.Code, ShouldEqual, http.StatusSeeOther)
				So(rec.Header().Get("Location"), ShouldEqual, "/")
				So(dash.lastLogin, ShouldResemble, [2]string{"ana", "x"})
			})
		})

		Convey("When logging in with GET", func() {
			rec := serve(h, http.MethodGet, "/login", nil)
			So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("When logging out", func() {
			rec := serve(h, http.MethodPost, "/logout", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.calls, ShouldResemble, []string{"logout"})
		})

		Convey("When navigating", func() {
			rec := serve(h, http.MethodGet, "/pages/analytics", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.calls, ShouldResemble, []string{"goto:analytics"})

			rec = serve(h, http.MethodGet, "/pages/settings", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(dash.view.Page, ShouldEqual, app.PageAnalytics)
		})

		Convey("When starting an OAuth login", func() {
			rec := serve(h, http.MethodGet, "/oauth/microsoft-graph", nil)
			So(rec.Code, ShouldEqual, http.StatusFound)
			So(rec.Header().Get("Location"), ShouldStartWith, "http://127.0.0.1:8000/oauth/microsoft-graph/?redirect_uri=")

			rec = serve(h, http.MethodGet, "/oauth/myspace", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the provider calls back", func() {
			rec := serve(h, http.MethodGet, "/oauth-callback?access=tok9", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.access, ShouldEqual, "tok9")
		})

		Convey("When filtering the list", func() {
			rec := serve(h, http.MethodGet, "/postulaciones?search=ana+l%C3%B3pez&estado=PENDIENTE", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.filter, ShouldResemble, backend.Filter{Search: "ana lópez", Estado: model.EstadoPendiente})
		})

		Convey("When changing a state", func() {
			rec := serve(h, http.MethodPost, "/postulaciones/12/estado", url.Values{"estado": {"RECHAZADO"}})
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.id, ShouldEqual, int64(12))
			So(dash.estado, ShouldEqual, model.EstadoRechazado)
		})

		Convey("When asking for details of a non-numeric id", func() {
			rec := serve(h, http.MethodGet, "/postulaciones/abc", nil)
			So(rec.Code, ShouldEqual, http.StatusNotFound)
			So(dash.calls, ShouldBeEmpty)
		})

		Convey("When asking for details", func() {
			rec := serve(h, http.MethodGet, "/postulaciones/5", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(dash.calls, ShouldResemble, []string{"details"})
			So(dash.id, ShouldEqual, int64(5))
		})

		Convey("When the list fragment is requested", func() {
			dash.view.Postulaciones.Items = []model.Postulacion{{ID: 1, Estado: model.EstadoPendiente}}
			rec := serve(h, http.MethodGet, "/fragments/postulaciones", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "Aceptar")
			So(rec.Body.String(), ShouldNotContainSubstring, "<html")
		})

		Convey("When the chart fragment is requested with no data", func() {
			rec := serve(h, http.MethodGet, "/fragments/estados", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "No hay datos")
		})

		Convey("When a toast is dismissed", func() {
			toasts.Notify(context.Background(), notify.Info, "hola")
			id := toasts.Active()[0].ID
			rec := serve(h, http.MethodPost, "/toasts/"+id+"/dismiss", nil)
			So(rec.Code, ShouldEqual, http.StatusSeeOther)
			So(toasts.Active(), ShouldBeEmpty)
		})

		Convey("When metrics are scraped", func() {
			_ = serve(h, http.MethodGet, "/", nil)
			rec := serve(h, http.MethodGet, "/healthz", nil)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldContainSubstring, "sgva_dashboard_http_requests_total")
		})
	})
}
