package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for backend client errors.
var (
	// ErrUnauthorized marks an HTTP 401; the session is invalidated instead
	// of reporting an error.
	ErrUnauthorized    = errors.New("unauthorized")
	ErrTransport       = errors.New("backend unreachable")
	ErrDecode          = errors.New("invalid backend response")
	ErrShape           = errors.New("unexpected response shape")
	ErrUnknownProvider = errors.New("unknown oauth provider")
)

// genericAPIMessage is shown when an error body carries no usable message.
const genericAPIMessage = "API Error"

// APIError is a non-success, non-401 backend response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// newAPIError extracts a message from the error body: "detail" first, then
// "error", else a generic message.
func newAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Detail any `json:"detail"`
		Error  any `json:"error"`
	}
	msg := genericAPIMessage
	if err := json.Unmarshal(body, &parsed); err == nil {
		if s := messageText(parsed.Detail); s != "" {
			msg = s
		} else if s := messageText(parsed.Error); s != "" {
			msg = s
		}
	}
	return &APIError{Status: status, Message: msg}
}

func messageText(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			if s := messageText(p); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

// userMessage is the toast text for a failure caught at the client boundary.
func userMessage(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.Is(err, ErrDecode), errors.Is(err, ErrShape):
		return "Respuesta inválida del servidor"
	case errors.Is(err, ErrTransport):
		return "No se pudo conectar con el servidor"
	default:
		return genericAPIMessage
	}
}

// failureKind labels a failure for metrics.
func failureKind(err error) string {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return "api"
	case errors.Is(err, ErrDecode), errors.Is(err, ErrShape):
		return "decode"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "other"
	}
}
