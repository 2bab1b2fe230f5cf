package config

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/intray-live/internal/colors"
)

// Validator validates and normalizes a configuration value.
// Returns the normalized value and an error if validation fails.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator ensures a value is a positive integer.
func PositiveIntValidator() Validator {
	return intValidator(1)
}

// NonNegativeIntValidator ensures a value is zero or a positive integer.
func NonNegativeIntValidator() Validator {
	return intValidator(0)
}

func intValidator(min int) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < min {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an integer >= %d, using default: %s", key, value, min, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// EnumValidator ensures a value is one of the allowed enum values.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		valueLower := strings.ToLower(value)
		if !allowed[valueLower] {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be one of: %s; using default: %s", key, value, allowedValues(allowed), defaultValue))
			return defaultValue, nil
		}
		return valueLower, nil
	}
}

// BoolValidator normalizes and validates boolean values.
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		normalized := normalizeBool(value)
		if normalized != "true" && normalized != "false" {
			colors.Warning(fmt.Sprintf("invalid boolean value for %s: '%s', must be one of: 1, true, yes, on, 0, false, no, off; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return normalized, nil
	}
}

// DurationValidator validates Go-style duration strings (e.g. 3s, 1m).
// Zero and negative durations fall back to the default.
func DurationValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			colors.Warning(fmt.Sprintf("invalid duration for %s: '%s', must be a Go-style duration (e.g. 3s, 500ms); using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return d.String(), nil
	}
}

// URLValidator ensures a value is an absolute http(s) URL.
func URLValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			colors.Warning(fmt.Sprintf("invalid %s value '%s': must be an http(s) URL; using default: %s", key, value, defaultValue))
			return defaultValue, nil
		}
		return value, nil
	}
}

// PathValidator ensures a value is an absolute URL path.
func PathValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		if !strings.HasPrefix(value, "/") {
			return "/" + value, nil
		}
		return value, nil
	}
}

// initValidators registers all configuration validators.
func initValidators() {
	RegisterValidator("base_url", URLValidator())
	RegisterValidator("ws_path", PathValidator())
	RegisterValidator("csrf_page_path", PathValidator())

	RegisterValidator("reconnect_max_attempts", NonNegativeIntValidator())
	RegisterValidator("dropdown_limit", PositiveIntValidator())
	RegisterValidator("list_limit", NonNegativeIntValidator())
	RegisterValidator("logging_max_files", PositiveIntValidator())

	durationValidator := DurationValidator()
	RegisterValidator("reconnect_delay", durationValidator)
	RegisterValidator("handshake_timeout", durationValidator)
	RegisterValidator("request_timeout", durationValidator)
	RegisterValidator("toast_duration", durationValidator)
	RegisterValidator("toast_dedup_window", durationValidator)
	RegisterValidator("toast_dedup_criteria", EnumValidator(map[string]bool{
		"title": true, "title_message": true, "exact": true, "none": true,
	}))
	RegisterValidator("hooks_timeout", durationValidator)
	RegisterValidator("hooks_max_concurrent", PositiveIntValidator())
	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{"warn": true, "ignore": true}))

	RegisterValidator("default_filter", EnumValidator(map[string]bool{"all": true, "read": true, "unread": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}))

	boolValidator := BoolValidator()
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)
	RegisterValidator("hooks_enabled", boolValidator)
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

// allowedValues returns a sorted, comma-separated string of allowed values.
func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
