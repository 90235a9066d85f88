package config

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ListValues returns all config values as a flat dot-keyed map. Secrets are
// replaced with "***" when mask is true (empty secrets stay empty).
func ListValues(cfg *Config, mask bool) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	values := Flatten(nested)
	if mask {
		for k, v := range values {
			if IsSecretKey(k) {
				if s, ok := v.(string); ok && s != "" {
					values[k] = "***"
				}
			}
		}
	}
	return values, nil
}

// GetValue loads the config at path and returns the value for the given
// dot-separated key. Secrets are returned unmasked; the CLI decides how to
// display them.
func GetValue(path, key string) (any, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	values, err := ListValues(cfg, false)
	if err != nil {
		return nil, err
	}
	val, ok := values[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key: %s", key)
	}
	return val, nil
}

// SetValue updates a single dot-separated key in the config file, coercing
// the string value to bool or number when it parses as one.
func SetValue(path, key, value string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var nested map[string]any
	if err := json.Unmarshal(data, &nested); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	segments := splitKey(key)
	m := nested
	for _, seg := range segments[:len(segments)-1] {
		child, ok := m[seg].(map[string]any)
		if !ok {
			return fmt.Errorf("unknown config key: %s", key)
		}
		m = child
	}
	leaf := segments[len(segments)-1]
	if _, ok := m[leaf]; !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	m[leaf] = coerce(value)

	merged, err := json.Marshal(nested)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := json.Unmarshal(merged, cfg); err != nil {
		return fmt.Errorf("apply config value: %w", err)
	}
	return Save(path, cfg)
}

// coerce converts a CLI string into the JSON type it looks like.
func coerce(value string) any {
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
