package interp

import (
	"fmt"
	"strconv"
	"strings"
)

// Params holds the values available to placeholder paths. Values may be
// strings, numbers, booleans, nested maps, or slices.
type Params map[string]any

const (
	openMarker  = "{{"
	closeMarker = "}}"
)

// Interpolate replaces {{path}} placeholders in the template with values
// resolved from params. The inner text of each placeholder is a dotted path
// (e.g. "user.name", "items.0"); purely numeric segments index into slices.
//
// If any segment of a path cannot be resolved, the whole placeholder is left
// verbatim in the output rather than deleted, so missing values stay visible
// in rendered text. Non-string values are rendered in their literal text form.
//
// Interpolate is a pure function of its inputs and is safe for concurrent use.
//
// Example:
//
//	Interpolate("Hello, {{name}}!", Params{"name": "World"})
//	// "Hello, World!"
//
//	Interpolate("Hello, {{name}}!", Params{})
//	// "Hello, {{name}}!"
func Interpolate(template string, params Params) string {
	if !strings.Contains(template, openMarker) {
		return template
	}

	var b strings.Builder
	b.Grow(len(template))

	rest := template
	for {
		start := strings.Index(rest, openMarker)
		if start < 0 {
			b.WriteString(rest)
			return b.String()
		}

		end := strings.Index(rest[start+len(openMarker):], closeMarker)
		if end < 0 {
			// Unterminated marker: emit the remainder untouched.
			b.WriteString(rest)
			return b.String()
		}
		end += start + len(openMarker)

		b.WriteString(rest[:start])

		token := rest[start : end+len(closeMarker)]
		path := strings.TrimSpace(rest[start+len(openMarker) : end])

		if v, ok := Resolve(params, path); ok {
			b.WriteString(stringify(v))
		} else {
			b.WriteString(token)
		}

		rest = rest[end+len(closeMarker):]
	}
}

// Resolve walks a dotted path through params segment by segment.
// Purely numeric segments act as indices into slices; for maps they are
// ordinary keys. It reports false for a missing key, a nil intermediate
// value, or an out-of-range index.
func Resolve(params Params, path string) (any, bool) {
	if path == "" || params == nil {
		return nil, false
	}

	current := any(map[string]any(params))
	for seg := range strings.SplitSeq(path, ".") {
		if seg == "" {
			return nil, false
		}

		switch c := current.(type) {
		case map[string]any:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		case Params:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		case map[string]string:
			v, ok := c[seg]
			if !ok {
				return nil, false
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			current = c[idx]
		case []string:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			current = c[idx]
		default:
			return nil, false
		}

		if current == nil {
			return nil, false
		}
	}

	return current, true
}

// stringify renders a resolved value using locale-agnostic default formatting.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", t)
	}
}
