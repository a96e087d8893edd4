package config

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"
)

const redacted = "***redacted***"

// DumpOption configures Dump.
type DumpOption func(*dumpConfig)

type dumpConfig struct {
	withSources bool
	asJSON      bool
}

// WithSources appends the source of each value in text output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON writes a nested JSON document instead of key: value lines.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// dumpEntry is one setting as it will be printed.
type dumpEntry struct {
	key    string
	value  reflect.Value
	secret bool
	source string
}

// Dump writes the effective configuration. Secret fields are redacted.
func Dump[T any](w io.Writer, cfg *T, opts ...DumpOption) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	options := dumpConfig{}
	for _, opt := range opts {
		opt(&options)
	}

	v := reflect.ValueOf(cfg).Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("config must be a struct, got %s", v.Kind())
	}
	prov, _ := GetProvenance(cfg)
	entries := dumpEntries(v, prov)

	if options.asJSON {
		data, err := json.MarshalIndent(nestEntries(entries), "", "  ")
		if err != nil {
			return fmt.Errorf("json marshal error: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
		return nil
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.key)
		b.WriteString(": ")
		if e.secret {
			b.WriteString(redacted)
		} else {
			b.WriteString(formatValue(e.value))
		}
		if options.withSources && e.source != "" {
			b.WriteString(" (source: " + e.source + ")")
		}
		b.WriteByte('\n')
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

func dumpEntries(v reflect.Value, prov *Provenance) []dumpEntry {
	settings := settingsOf(v.Type())
	entries := make([]dumpEntry, 0, len(settings))
	for _, s := range settings {
		fp, _ := prov.Lookup(s.path)
		entries = append(entries, dumpEntry{
			key:    s.key,
			value:  v.FieldByIndex(s.index),
			secret: s.tags.secret || fp.Secret,
			source: fp.SourceName,
		})
	}
	return entries
}

// nestEntries rebuilds the section structure from dotted keys.
func nestEntries(entries []dumpEntry) map[string]any {
	root := make(map[string]any)
	for _, e := range entries {
		parts := strings.Split(e.key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}

		leaf := parts[len(parts)-1]
		if e.secret {
			node[leaf] = redacted
		} else {
			node[leaf] = jsonValue(e.value)
		}
	}
	return root
}

func jsonValue(v reflect.Value) any {
	switch x := v.Interface().(type) {
	case time.Duration:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return x
	}
}

func formatValue(v reflect.Value) string {
	switch x := v.Interface().(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case time.Duration:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339)
	case []string:
		return "[" + strings.Join(x, ", ") + "]"
	default:
		return fmt.Sprintf("%v", x)
	}
}
