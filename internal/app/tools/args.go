package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// args is the untyped argument bag supplied by the model. It may miss
// required fields, carry wrong types or include extra keys.
type args map[string]any

type argError struct {
	field string
	want  string
}

func (e *argError) Error() string {
	return fmt.Sprintf("missing or invalid '%s' (expected %s)", e.field, e.want)
}

// str returns a trimmed string field. Required fields must be non-blank.
func (a args) str(field string, required bool) (string, error) {
	v, ok := a[field]
	if !ok || v == nil {
		if required {
			return "", &argError{field, "text"}
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &argError{field, "text"}
	}
	s = strings.TrimSpace(s)
	if required && s == "" {
		return "", &argError{field, "text"}
	}
	return s, nil
}

// strs returns a list of strings. An absent field is an empty list and a
// single string counts as a one-element list.
func (a args) strs(field string) ([]string, error) {
	v, ok := a[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch list := v.(type) {
	case []string:
		return list, nil
	case string:
		if strings.TrimSpace(list) == "" {
			return nil, nil
		}
		return []string{list}, nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, &argError{field, "a list of names"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &argError{field, "a list of names"}
	}
}

// num returns a numeric field. Numeric strings are accepted.
func (a args) num(field string, required bool) (float64, error) {
	v, ok := a[field]
	if !ok || v == nil {
		if required {
			return 0, &argError{field, "a number"}
		}
		return 0, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, &argError{field, "a number"}
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, &argError{field, "a number"}
		}
		return f, nil
	default:
		return 0, &argError{field, "a number"}
	}
}
