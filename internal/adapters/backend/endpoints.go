package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/okian/sgva/internal/domain/model"
)

// Backend paths, relative to the API base.
const (
	PathToken                  = "/token/"
	PathPostulaciones          = "/postulaciones/"
	PathMiPromedio             = "/calificaciones/mi_promedio/"
	PathEstadisticas           = "/analytics/estadisticas/"
	PathPostulacionesPorEstado = "/analytics/postulaciones_por_estado/"
)

// OAuthCallbackPath is where the provider sends the browser back.
const OAuthCallbackPath = "/oauth-callback"

// OAuthProviders are the providers the backend has configured.
var OAuthProviders = []string{"google", "microsoft-graph"}

// Credentials is the token request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is the token endpoint answer.
type TokenResponse struct {
	Access  string     `json:"access"`
	Refresh string     `json:"refresh,omitempty"`
	User    model.User `json:"user"`
}

// Filter narrows the postulaciones list. The zero Filter lists everything.
type Filter struct {
	Search string
	Estado model.Estado
}

// IsZero reports whether no criterion is set.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.Estado == ""
}

// Query encodes the criteria as query parameters.
func (f Filter) Query() url.Values {
	q := url.Values{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q.Set("search", s)
	}
	if f.Estado != "" {
		q.Set("estado", string(f.Estado))
	}
	return q
}

// ObtainToken exchanges credentials for an access token and user profile.
func (c *Client) ObtainToken(ctx context.Context, creds Credentials) (TokenResponse, bool) {
	raw, ok := c.Request(ctx, PathToken, RequestOptions{Method: http.MethodPost, Body: creds})
	if !ok {
		return TokenResponse{}, false
	}
	tok, ok := decode[TokenResponse](ctx, c, PathToken, raw)
	if !ok {
		return TokenResponse{}, false
	}
	if tok.Access == "" {
		c.report(ctx, PathToken, fmt.Errorf("%w: missing access token", ErrShape))
		return TokenResponse{}, false
	}
	if tok.User == nil {
		tok.User = model.User{}
	}
	return tok, true
}

// ListPostulaciones fetches the list, filtered by f.
func (c *Client) ListPostulaciones(ctx context.Context, f Filter) (Page[model.Postulacion], bool) {
	path := PathPostulaciones
	if q := f.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	raw, ok := c.Request(ctx, path, RequestOptions{})
	if !ok {
		return Page[model.Postulacion]{}, false
	}
	return decodePage[model.Postulacion](ctx, c, path, raw)
}

// CambiarEstado asks the backend to move postulacion id to estado.
func (c *Client) CambiarEstado(ctx context.Context, id int64, estado model.Estado) bool {
	path := fmt.Sprintf("%s%d/cambiar_estado/", PathPostulaciones, id)
	_, ok := c.Request(ctx, path, RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"estado": string(estado)},
	})
	return ok
}

// MiPromedio fetches the caller's own average rating.
func (c *Client) MiPromedio(ctx context.Context) (model.Rating, bool) {
	raw, ok := c.Request(ctx, PathMiPromedio, RequestOptions{})
	if !ok {
		return model.Rating{}, false
	}
	return decode[model.Rating](ctx, c, PathMiPromedio, raw)
}

// Estadisticas fetches the aggregate counters.
func (c *Client) Estadisticas(ctx context.Context) (model.AnalyticsSummary, bool) {
	raw, ok := c.Request(ctx, PathEstadisticas, RequestOptions{})
	if !ok {
		return model.AnalyticsSummary{}, false
	}
	return decode[model.AnalyticsSummary](ctx, c, PathEstadisticas, raw)
}

// PostulacionesPorEstado fetches the breakdown-by-state list.
func (c *Client) PostulacionesPorEstado(ctx context.Context) ([]model.EstadoCount, bool) {
	raw, ok := c.Request(ctx, PathPostulacionesPorEstado, RequestOptions{})
	if !ok {
		return nil, false
	}
	p, ok := decodePage[model.EstadoCount](ctx, c, PathPostulacionesPorEstado, raw)
	if !ok {
		return nil, false
	}
	return p.Items, true
}

// OAuthURL builds the provider entry URL with origin's callback as the
// redirect target. The caller navigates there; no request is made.
func (c *Client) OAuthURL(provider, origin string) (string, error) {
	known := false
	for _, p := range OAuthProviders {
		if p == provider {
			known = true
			break
		}
	}
	if !known {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
	}
	q := url.Values{}
	q.Set("redirect_uri", strings.TrimRight(origin, "/")+OAuthCallbackPath)
	return fmt.Sprintf("%s/oauth/%s/?%s", c.oauthBase, url.PathEscape(provider), q.Encode()), nil
}
