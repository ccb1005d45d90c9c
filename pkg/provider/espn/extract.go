package espn

import (
	"strconv"
)

// Tolerant accessors for ESPN's loosely-typed JSON documents. Missing
// or mistyped keys yield zero values, never panics.

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func extractInt(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case string:
		i, _ := strconv.Atoi(v)
		return i
	case int:
		return v
	}
	return 0
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mv, ok := v.(map[string]interface{}); ok {
			return mv
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if av, ok := v.([]interface{}); ok {
			return av
		}
	}
	return []interface{}{}
}

func extractStrings(m map[string]interface{}, key string) []string {
	raw := extractArray(m, key)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractNumberString returns the display form of a numeric field,
// falling back to formatting the raw value.
func extractNumberString(m map[string]interface{}, displayKey, valueKey string) string {
	if s := extractString(m, displayKey); s != "" {
		return s
	}
	if v, ok := m[valueKey].(float64); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
