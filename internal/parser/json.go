package parser

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	inapperrors "github.com/alexisbeaulieu97/inapp/pkg/errors"
)

// object gives typed access to a decoded JSON object.
// Required getters fail on absent or null keys; optional getters fall back on anything unusable.
type object map[string]any

func failf(format string, args ...any) error {
	return inapperrors.PayloadParsingErrorf(format, args...)
}

// at prefixes the reason of a parsing error with the location it happened at.
func at(path string, err error) error {
	if err == nil {
		return nil
	}
	if parsing, ok := err.(*inapperrors.PayloadParsingError); ok {
		return &inapperrors.PayloadParsingError{Reason: path + ": " + parsing.Reason, Err: parsing.Err}
	}
	return inapperrors.NewPayloadParsingError(path, err)
}

func (o object) value(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (o object) has(key string) bool {
	_, ok := o[key]
	return ok
}

// scalarString renders strings, numbers and booleans as text.
func scalarString(v any) (string, bool) {
	switch typed := v.(type) {
	case string:
		return typed, true
	case json.Number:
		return typed.String(), true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}

func toFloat(v any) (float64, bool) {
	switch typed := v.(type) {
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toInt(v any) (int, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func (o object) requireString(key string) (string, error) {
	v, ok := o.value(key)
	if !ok {
		return "", failf("%s: required", key)
	}
	s, ok := scalarString(v)
	if !ok {
		return "", failf("%s: expected a string, got %T", key, v)
	}
	return s, nil
}

func (o object) optString(key, fallback string) string {
	v, ok := o.value(key)
	if !ok {
		return fallback
	}
	if s, ok := scalarString(v); ok {
		return s
	}
	return fallback
}

func (o object) requireInt(key string) (int, error) {
	v, ok := o.value(key)
	if !ok {
		return 0, failf("%s: required", key)
	}
	n, ok := toInt(v)
	if !ok {
		return 0, failf("%s: expected an integer, got %v", key, v)
	}
	return n, nil
}

func (o object) optInt(key string, fallback int) int {
	v, ok := o.value(key)
	if !ok {
		return fallback
	}
	if n, ok := toInt(v); ok {
		return n
	}
	return fallback
}

// optIntPtr is optInt that can tell absence apart from any value.
func (o object) optIntPtr(key string) *int {
	v, ok := o.value(key)
	if !ok {
		return nil
	}
	n, ok := toInt(v)
	if !ok {
		return nil
	}
	return &n
}

func (o object) optBool(key string, fallback bool) bool {
	v, ok := o.value(key)
	if !ok {
		return fallback
	}
	switch typed := v.(type) {
	case bool:
		return typed
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return fallback
}

func (o object) optArray(key string) []any {
	v, ok := o.value(key)
	if !ok {
		return nil
	}
	arr, _ := v.([]any)
	return arr
}

func (o object) requireArray(key string) ([]any, error) {
	v, ok := o.value(key)
	if !ok {
		return nil, failf("%s: required", key)
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, failf("%s: expected an array, got %T", key, v)
	}
	return arr, nil
}

func (o object) optObject(key string) map[string]any {
	v, ok := o.value(key)
	if !ok {
		return nil
	}
	obj, _ := v.(map[string]any)
	return obj
}

func (o object) requireObject(key string) (map[string]any, error) {
	v, ok := o.value(key)
	if !ok {
		return nil, failf("%s: required", key)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, failf("%s: expected an object, got %T", key, v)
	}
	return obj, nil
}

func index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
