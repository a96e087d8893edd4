package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/internal/normalize"
)

// mergedEntry is one key after all sources were merged.
type mergedEntry struct {
	value      any
	sourceName string
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// determineKeyPath returns the flat key a field is read from.
// name: is an absolute path; otherwise the snake_case field name is nested under prefix.
func determineKeyPath(fieldName string, tags tagConfig, prefix string) string {
	if tags.name != "" {
		return strings.ToLower(tags.name)
	}
	return normalize.ApplyPrefix(prefix, normalize.FieldKey(fieldName))
}

// isLeafStruct reports whether a struct type is bound as a single value.
func isLeafStruct(t reflect.Type) bool {
	return t.PkgPath() == "time"
}

// bindStruct populates cfg from merged data and records where each value came from.
// Missing keys fall back to default: directives. Required checks happen in validation.
func bindStruct(cfg reflect.Value, data map[string]mergedEntry, provenance *[]FieldProvenance, fieldPrefix, keyPrefix string) []formguard.FieldError {
	var errs []formguard.FieldError

	if cfg.Kind() == reflect.Ptr {
		if cfg.IsNil() {
			return errs
		}
		cfg = cfg.Elem()
	}
	if cfg.Kind() != reflect.Struct {
		return errs
	}

	cfgType := cfg.Type()
	for i := 0; i < cfg.NumField(); i++ {
		field := cfgType.Field(i)
		if !field.IsExported() {
			continue
		}

		tags := parseTag(field.Tag.Get("conf"))
		fieldPath := joinPath(fieldPrefix, field.Name)
		keyPath := determineKeyPath(field.Name, tags, keyPrefix)
		fieldValue := cfg.Field(i)

		if field.Type.Kind() == reflect.Struct && !isLeafStruct(field.Type) {
			nestedPrefix := keyPath
			if tags.prefix != "" {
				nestedPrefix = strings.ToLower(tags.prefix)
			}
			errs = append(errs, bindStruct(fieldValue, data, provenance, fieldPath, nestedPrefix)...)
			continue
		}

		var raw any
		var sourceName string
		if entry, ok := data[keyPath]; ok {
			raw, sourceName = entry.value, entry.sourceName
		} else if tags.hasDefault {
			raw, sourceName = tags.defValue, "default"
		} else {
			continue
		}

		converted, err := convertValue(raw, field.Type)
		if err != nil {
			errs = append(errs, formguard.FieldError{
				Field:   fieldPath,
				Message: fmt.Sprintf("invalid value for %s: %v", keyPath, err),
			})
			continue
		}
		fieldValue.Set(reflect.ValueOf(converted))

		if provenance != nil {
			*provenance = append(*provenance, FieldProvenance{
				FieldPath:  fieldPath,
				KeyPath:    keyPath,
				SourceName: sourceName,
				Secret:     tags.secret,
			})
		}
	}

	return errs
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// convertValue converts a decoded source value to target.
// Strings from env vars are parsed; native YAML/JSON/TOML values are converted when lossless.
func convertValue(value any, target reflect.Type) (any, error) {
	switch target {
	case durationType:
		return convertDuration(value)
	case timeType:
		return convertTime(value)
	}

	out := reflect.New(target).Elem()

	switch target.Kind() {
	case reflect.String:
		s, err := scalarString(value)
		if err != nil {
			return nil, err
		}
		out.SetString(s)

	case reflect.Bool:
		switch v := value.(type) {
		case bool:
			out.SetBool(v)
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as bool", v)
			}
			out.SetBool(b)
		default:
			return nil, fmt.Errorf("cannot convert %T to bool", value)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(value)
		if err != nil {
			return nil, err
		}
		if out.OverflowInt(n) {
			return nil, fmt.Errorf("value %d overflows %s", n, target)
		}
		out.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := toInt64(value)
		if err != nil {
			return nil, err
		}
		if n < 0 || out.OverflowUint(uint64(n)) {
			return nil, fmt.Errorf("value %d out of range for %s", n, target)
		}
		out.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(value)
		if err != nil {
			return nil, err
		}
		out.SetFloat(f)

	case reflect.Slice:
		if target.Elem().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported slice type %s", target)
		}
		items, err := toStrings(value)
		if err != nil {
			return nil, err
		}
		out.Set(reflect.ValueOf(items).Convert(target))

	default:
		return nil, fmt.Errorf("unsupported type %s", target)
	}

	return out.Interface(), nil
}

func convertDuration(value any) (any, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case string:
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as duration", v)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("duration must be a string such as \"1s\", got %T", value)
	}
}

func convertTime(value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("cannot parse %q as time", v)
	default:
		return nil, fmt.Errorf("cannot convert %T to time", value)
	}
}

func scalarString(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool, int, int64, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("cannot convert %T to string", value)
	}
}

func toInt64(value any) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != float64(int64(v)) {
			return 0, fmt.Errorf("value %g is not a whole number", v)
		}
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as integer", v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to integer", value)
	}
}

func toFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", v)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %T to number", value)
	}
}

// toStrings accepts a decoded list or a comma-separated string.
func toStrings(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			s, err := scalarString(item)
			if err != nil {
				return nil, err
			}
			items = append(items, s)
		}
		return items, nil
	case string:
		var items []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		return items, nil
	default:
		return nil, fmt.Errorf("cannot convert %T to list", value)
	}
}
