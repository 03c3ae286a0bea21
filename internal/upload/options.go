package upload

import (
	"strconv"
	"strings"
)

// Helper functions to extract values from config map
func getStringValue(config map[string]any, key string) (string, bool) {
	if val, ok := config[key]; ok {
		// Values coming from key=value pairs and environment variables are
		// type-inferred, so numeric-looking secrets arrive as numbers.
		switch v := val.(type) {
		case string:
			if v != "" {
				return v, true
			}
		case int:
			return strconv.Itoa(v), true
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), true
		}
	}
	return "", false
}

func getStringValueWithDefault(config map[string]any, key, defaultValue string) string {
	if val, ok := getStringValue(config, key); ok {
		return val
	}
	return defaultValue
}

func getBoolValue(config map[string]any, key string, defaultValue bool) bool {
	if val, ok := config[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b
			}
		}
	}
	return defaultValue
}

// firstStringValue returns the first non-empty value among keys
func firstStringValue(config map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		if val, ok := getStringValue(config, key); ok {
			return val, true
		}
	}
	return "", false
}

// splitScheme strips an http:// or https:// scheme from endpoint. secure
// reports the scheme found, explicit is false when there was none.
func splitScheme(endpoint string) (host string, secure, explicit bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), true, true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), false, true
	default:
		return endpoint, false, false
	}
}
