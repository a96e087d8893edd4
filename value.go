package formguard

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Accepted layouts for date values supplied as strings.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"02/01/2006",
}

// isEmpty reports whether a value counts as "not provided".
// nil, blank strings, zero times, nil pointers and empty collections are empty.
// Numbers and booleans are never empty: 0 and false are real answers.
func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.IsZero()
	case *time.Time:
		return v == nil || v.IsZero()
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return isEmpty(rv.Elem().Interface())
	case reflect.Array, reflect.Map, reflect.Slice:
		return rv.Len() == 0
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	default:
		return false
	}
}

// asString renders a value for pattern and length checks.
func asString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return asString(rv.Elem().Interface())
	}
	return fmt.Sprint(value)
}

// asNumber converts numeric values and numeric strings to float64.
func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case bool:
		return 0, false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Ptr:
		if rv.IsNil() {
			return 0, false
		}
		return asNumber(rv.Elem().Interface())
	default:
		return 0, false
	}
}

// asTime converts time values and date strings to time.Time.
// Strings without an offset are read in loc.
func asTime(value any, loc *time.Location) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, s, loc); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// isNumeric reports whether the value is a Go number (not a numeric string).
func isNumeric(value any) bool {
	if _, ok := value.(string); ok {
		return false
	}
	_, ok := asNumber(value)
	return ok
}

// wholeYears returns the number of full calendar years between from and to.
// Each date is read as a calendar day in its own location.
func wholeYears(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}

// formatNumber drops a trailing ".0" so messages read "45" instead of "45.0".
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
