package params

import "strings"

// Map is a loosely typed parameter dictionary.
type Map = map[string]any

// Param returns the value stored under key, or dflt when the key is
// absent or holds a value of an incompatible type.
func Param[T any](p Map, key string, dflt T) T {
	raw, ok := p[key]
	if !ok {
		return dflt
	}
	v, ok := raw.(T)
	if !ok {
		return dflt
	}
	return v
}

// Int returns an integer parameter, tolerating the numeric types YAML
// and JSON decoders produce.
func Int(p Map, key string, dflt int) int {
	raw, ok := p[key]
	if !ok {
		return dflt
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return dflt
	}
}

// Float returns a float parameter, tolerating integer-typed values.
func Float(p Map, key string, dflt float64) float64 {
	raw, ok := p[key]
	if !ok {
		return dflt
	}
	switch v := raw.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return dflt
	}
}

// Enabled reports whether key is present and truthy.
//
// An absent key is not enabled.
func Enabled(p Map, key string) bool {
	raw, ok := p[key]
	return ok && truthy(raw)
}

// Disabled reports whether key is present and explicitly falsy.
//
// An absent key is not disabled either: Enabled and Disabled both
// return false for a missing key.
func Disabled(p Map, key string) bool {
	raw, ok := p[key]
	return ok && !truthy(raw)
}

// truthy interprets the value kinds that appear in parameter maps.
// Strings follow the usual switch conventions: "", "0", "false",
// "off" and "no" are falsy regardless of case.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(x) {
		case "", "0", "false", "off", "no":
			return false
		}
		return true
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
