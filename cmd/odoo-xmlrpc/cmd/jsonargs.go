package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeJSON decodes s keeping integral numbers as int64, so they travel as
// XML-RPC <int> rather than <double>.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case []any:
		for i := range t {
			t[i] = normalizeNumbers(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeNumbers(t[k])
		}
		return t
	}
	return v
}

func decodeObject(flag, s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return map[string]any{}, nil
	}
	v, err := decodeJSON(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid --%s: expected a JSON object", flag)
	}
	return m, nil
}

func decodeList(flag, s string) ([]any, error) {
	if strings.TrimSpace(s) == "" {
		return []any{}, nil
	}
	v, err := decodeJSON(s)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	l, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("invalid --%s: expected a JSON array", flag)
	}
	return l, nil
}
