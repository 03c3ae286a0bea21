// Package config assembles provider and webhook settings from layered
// sources. Each source yields a map; later sources override earlier ones:
//
//	environment < file < JSON string < key=value pairs
package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseKV parses a key=value pair, attempting type inference for the value
func ParseKV(kvPair string) (string, any, error) {
	parts := strings.SplitN(kvPair, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("invalid format, expected key=value: %s", kvPair)
	}

	key := strings.TrimSpace(parts[0])
	if key == "" {
		return "", nil, fmt.Errorf("empty key in key=value pair")
	}

	valueStr := strings.TrimSpace(parts[1])

	// Try to parse as integer first (to avoid "1" being parsed as boolean true)
	if intVal, err := strconv.Atoi(valueStr); err == nil {
		return key, intVal, nil
	}

	if floatVal, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return key, floatVal, nil
	}

	// Only explicit "true"/"false" strings become booleans
	if valueStr == "true" || valueStr == "false" {
		boolVal, _ := strconv.ParseBool(valueStr)
		return key, boolVal, nil
	}

	return key, valueStr, nil
}

// ParseJSON parses a JSON string into a map or other structure
func ParseJSON(jsonStr string) (any, error) {
	var result any
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return result, nil
}

// ParseFile reads a config file. Files ending in .yaml or .yml are decoded
// as YAML, everything else as JSON.
func ParseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var result any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid YAML in file: %w", err)
		}
		if result == nil {
			return nil, fmt.Errorf("invalid YAML in file: empty document")
		}
	default:
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("invalid JSON in file: %w", err)
		}
	}
	return result, nil
}

// ParseEnvWithPrefix parses environment variables with a custom prefix. The
// variable named exactly prefix holds a JSON object; PREFIX_KEY=value
// variables contribute a single lower-cased key each.
func ParseEnvWithPrefix(prefix string) map[string]any {
	config := make(map[string]any)

	if jsonStr := os.Getenv(prefix); jsonStr != "" {
		if parsed, err := ParseJSON(jsonStr); err == nil {
			if m, ok := parsed.(map[string]any); ok {
				maps.Copy(config, m)
			}
		}
	}

	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 || parts[1] == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(parts[0], envPrefix))
		// Apply type inference to env var values
		_, value, _ := ParseKV(key + "=" + parts[1])
		config[key] = value
	}

	if len(config) == 0 {
		return nil
	}
	return config
}

// Merge merges config maps with proper precedence. Later sources override
// earlier ones; nil maps are skipped.
func Merge(sources ...map[string]any) map[string]any {
	result := make(map[string]any)
	for _, src := range sources {
		maps.Copy(result, src)
	}
	return result
}

// Build builds the final config map from all sources
func Build(envPrefix, jsonStr string, kvPairs []string, filePath string) (map[string]any, error) {
	var sources []map[string]any

	// 1. Environment variables (lowest priority)
	if envCfg := ParseEnvWithPrefix(envPrefix); envCfg != nil {
		sources = append(sources, envCfg)
	}

	// 2. Config file
	if filePath != "" {
		fileCfg, err := ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		m, err := asMap(fileCfg, "config file")
		if err != nil {
			return nil, err
		}
		sources = append(sources, m)
	}

	// 3. JSON string
	if jsonStr != "" {
		jsonCfg, err := ParseJSON(jsonStr)
		if err != nil {
			return nil, err
		}
		m, err := asMap(jsonCfg, "config JSON")
		if err != nil {
			return nil, err
		}
		sources = append(sources, m)
	}

	// 4. Key-value pairs (highest priority)
	if len(kvPairs) > 0 {
		kvCfg := make(map[string]any)
		for _, kv := range kvPairs {
			key, value, err := ParseKV(kv)
			if err != nil {
				return nil, err
			}
			kvCfg[key] = value
		}
		sources = append(sources, kvCfg)
	}

	return Merge(sources...), nil
}

func asMap(v any, source string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object/map, got %T", source, v)
	}
	return m, nil
}
