package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// AnalyticsSummary holds the aggregate counters of the analytics page.
type AnalyticsSummary struct {
	TasaConversion  float64 `json:"tasa_conversion"`
	TotalAprendices int     `json:"total_aprendices"`
	TotalEmpresas   int     `json:"total_empresas"`
}

// UnmarshalJSON accepts the flat shape and the nested "resumen" shape
// ({usuarios: {...}, postulaciones: {tasa_conversion}}).
func (a *AnalyticsSummary) UnmarshalJSON(data []byte) error {
	var raw struct {
		TasaConversion  *float64 `json:"tasa_conversion"`
		TotalAprendices *int     `json:"total_aprendices"`
		TotalEmpresas   *int     `json:"total_empresas"`
		Usuarios        *struct {
			TotalAprendices int `json:"total_aprendices"`
			TotalEmpresas   int `json:"total_empresas"`
		} `json:"usuarios"`
		Postulaciones *struct {
			TasaConversion float64 `json:"tasa_conversion"`
		} `json:"postulaciones"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = AnalyticsSummary{}
	if raw.Usuarios != nil {
		a.TotalAprendices = raw.Usuarios.TotalAprendices
		a.TotalEmpresas = raw.Usuarios.TotalEmpresas
	}
	if raw.Postulaciones != nil {
		a.TasaConversion = raw.Postulaciones.TasaConversion
	}
	if raw.TasaConversion != nil {
		a.TasaConversion = *raw.TasaConversion
	}
	if raw.TotalAprendices != nil {
		a.TotalAprendices = *raw.TotalAprendices
	}
	if raw.TotalEmpresas != nil {
		a.TotalEmpresas = *raw.TotalEmpresas
	}
	return nil
}

// EstadoCount is one row of the breakdown-by-state chart.
type EstadoCount struct {
	Estado     Estado   `json:"estado"`
	Count      int      `json:"count"`
	Porcentaje *float64 `json:"porcentaje,omitempty"`
}

// UnmarshalJSON accepts the count under "count" or "cantidad".
func (e *EstadoCount) UnmarshalJSON(data []byte) error {
	var raw struct {
		Estado     Estado   `json:"estado"`
		Count      *int     `json:"count"`
		Cantidad   *int     `json:"cantidad"`
		Porcentaje *float64 `json:"porcentaje"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = EstadoCount{Estado: raw.Estado, Porcentaje: raw.Porcentaje}
	switch {
	case raw.Count != nil:
		e.Count = *raw.Count
	case raw.Cantidad != nil:
		e.Count = *raw.Cantidad
	}
	return nil
}

// Rating is the caller's own average rating.
type Rating struct {
	Promedio            float64 `json:"promedio"`
	TotalCalificaciones int     `json:"total_calificaciones"`
}

// UnmarshalJSON accepts promedio as a number, a decimal string such as
// "4.25", or null.
func (r *Rating) UnmarshalJSON(data []byte) error {
	var raw struct {
		Promedio            json.RawMessage `json:"promedio"`
		TotalCalificaciones *int            `json:"total_calificaciones"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	promedio, err := decimal(raw.Promedio)
	if err != nil {
		return fmt.Errorf("promedio: %w", err)
	}
	*r = Rating{Promedio: promedio}
	if raw.TotalCalificaciones != nil {
		r.TotalCalificaciones = *raw.TotalCalificaciones
	}
	return nil
}

// decimal reads a JSON number or numeric string. Missing, null and ""
// read as zero.
func decimal(v json.RawMessage) (float64, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return 0, nil
	}
	if v[0] != '"' {
		var f float64
		err := json.Unmarshal(v, &f)
		return f, err
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
