package config

import (
	"reflect"
	"strings"
)

// setting is one bindable leaf of a configuration struct.
type setting struct {
	index []int // for reflect.Value.FieldByIndex
	tags  tagConfig
	path  string // Go field path, "Retry.MaxRetries"
	key   string // key path, "retry.max_retries"
}

// settingsOf flattens struct type t into its leaves in declaration order.
// Nested structs are descended into; leaf structs such as time.Time are not.
func settingsOf(t reflect.Type) []setting {
	var out []setting
	appendSettings(t, nil, "", "", &out)
	return out
}

func appendSettings(t reflect.Type, index []int, fieldPrefix, keyPrefix string, out *[]setting) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		tags := parseTag(sf.Tag.Get("conf"))
		path := joinPath(fieldPrefix, sf.Name)
		key := determineKeyPath(sf.Name, tags, keyPrefix)
		idx := append(append([]int(nil), index...), i)

		if sf.Type.Kind() == reflect.Struct && !isLeafStruct(sf.Type) {
			nested := key
			if tags.prefix != "" {
				nested = strings.ToLower(tags.prefix)
			}
			appendSettings(sf.Type, idx, path, nested, out)
			continue
		}

		*out = append(*out, setting{index: idx, tags: tags, path: path, key: key})
	}
}

// indirectStruct dereferences pointers down to a struct value. ok is false for nil or non-structs.
func indirectStruct(v reflect.Value) (reflect.Value, bool) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	return v, v.Kind() == reflect.Struct
}
