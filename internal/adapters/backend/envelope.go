package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the canonical list shape every consumer sees. Count is the
// backend's total when the response was paginated, else len(Items).
type Page[T any] struct {
	Count    int
	Next     string
	Previous string
	Items    []T
}

// envelope covers the object-wrapped list shapes the backend emits:
// paginated {count, next, previous, results} and {estados: [...]}.
type envelope struct {
	Count    *int              `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []json.RawMessage `json:"results"`
	Estados  []json.RawMessage `json:"estados"`
}

// Normalize turns a bare JSON array or a list envelope into a Page of raw
// records, preserving order. JSON null is an empty page.
func Normalize(raw json.RawMessage) (Page[json.RawMessage], error) {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		return Page[json.RawMessage]{Items: []json.RawMessage{}}, nil

	case trimmed[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return Page[json.RawMessage]{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if items == nil {
			items = []json.RawMessage{}
		}
		return Page[json.RawMessage]{Count: len(items), Items: items}, nil

	case trimmed[0] == '{':
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return Page[json.RawMessage]{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		items := env.Results
		if items == nil {
			items = env.Estados
		}
		if items == nil {
			return Page[json.RawMessage]{}, fmt.Errorf("%w: object without results", ErrShape)
		}
		p := Page[json.RawMessage]{Count: len(items), Items: items}
		if env.Count != nil {
			p.Count = *env.Count
		}
		if env.Next != nil {
			p.Next = *env.Next
		}
		if env.Previous != nil {
			p.Previous = *env.Previous
		}
		return p, nil

	default:
		return Page[json.RawMessage]{}, fmt.Errorf("%w: expected a list", ErrShape)
	}
}

// DecodePage normalizes raw and decodes every record into T.
func DecodePage[T any](raw json.RawMessage) (Page[T], error) {
	p, err := Normalize(raw)
	if err != nil {
		return Page[T]{}, err
	}
	out := Page[T]{Count: p.Count, Next: p.Next, Previous: p.Previous, Items: make([]T, 0, len(p.Items))}
	for i, item := range p.Items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			return Page[T]{}, fmt.Errorf("%w: record %d: %v", ErrShape, i, err)
		}
		out.Items = append(out.Items, v)
	}
	return out, nil
}
