// Package model contains the records the dashboard reads from the backend.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Estado is the lifecycle state of a Postulacion.
type Estado string

// Estados known to the backend.
const (
	EstadoPendiente            Estado = "PENDIENTE"
	EstadoProcesoSeleccion     Estado = "PROCESO_SELECCION_ABIERTO"
	EstadoSeleccionado         Estado = "SELECCIONADO"
	EstadoRechazado            Estado = "RECHAZADO"
	EstadoContratoNoRegistrado Estado = "CONTRATO_NO_REGISTRADO"
	EstadoContratado           Estado = "CONTRATADO"
	EstadoDisponible           Estado = "DISPONIBLE"
)

// Estados lists every state in the order the filter control offers them.
var Estados = []Estado{
	EstadoPendiente,
	EstadoProcesoSeleccion,
	EstadoSeleccionado,
	EstadoRechazado,
	EstadoContratoNoRegistrado,
	EstadoContratado,
	EstadoDisponible,
}

// Valid reports whether e is one of the backend states.
func (e Estado) Valid() bool {
	for _, s := range Estados {
		if s == e {
			return true
		}
	}
	return false
}

// Actionable reports whether accept/reject actions apply to the state.
func (e Estado) Actionable() bool { return e == EstadoPendiente }

// CSSClass returns the badge modifier, e.g. "status-pendiente".
func (e Estado) CSSClass() string {
	return "status-" + strings.ToLower(string(e))
}

// ParseEstado normalizes user input into an Estado.
func ParseEstado(s string) (Estado, bool) {
	e := Estado(strings.ToUpper(strings.TrimSpace(s)))
	return e, e.Valid()
}

// Postulacion links an apprentice to a company.
type Postulacion struct {
	ID               int64     `json:"id"`
	Estado           Estado    `json:"estado"`
	EmpresaNombre    string    `json:"empresa_nombre"`
	AprendizNombre   string    `json:"aprendiz_nombre"`
	FechaPostulacion time.Time `json:"fecha_postulacion"`
	DiasRestantes    int       `json:"dias_restantes"`
}

// UnmarshalJSON accepts RFC 3339 timestamps, bare dates and nulls for
// fecha_postulacion, and a null dias_restantes.
func (p *Postulacion) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               int64   `json:"id"`
		Estado           Estado  `json:"estado"`
		EmpresaNombre    *string `json:"empresa_nombre"`
		AprendizNombre   *string `json:"aprendiz_nombre"`
		FechaPostulacion *string `json:"fecha_postulacion"`
		DiasRestantes    *int    `json:"dias_restantes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Postulacion{ID: raw.ID, Estado: raw.Estado}
	if raw.EmpresaNombre != nil {
		p.EmpresaNombre = *raw.EmpresaNombre
	}
	if raw.AprendizNombre != nil {
		p.AprendizNombre = *raw.AprendizNombre
	}
	if raw.DiasRestantes != nil {
		p.DiasRestantes = *raw.DiasRestantes
	}
	if raw.FechaPostulacion != nil {
		p.FechaPostulacion = parseDate(*raw.FechaPostulacion)
	}
	return nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// CountByEstado counts the records in state e.
func CountByEstado(items []Postulacion, e Estado) int {
	n := 0
	for _, p := range items {
		if p.Estado == e {
			n++
		}
	}
	return n
}
