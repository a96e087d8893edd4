package config

import (
	"strings"
)

// tagConfig holds parsed directives from a struct field's `conf` tag.
type tagConfig struct {
	name       string   // Custom key path (name:custom.path)
	prefix     string   // Prefix for nested structs (prefix:foo)
	defValue   string   // Default value (default:value)
	min        string   // Minimum value or string length (min:N)
	max        string   // Maximum value or string length (max:M)
	oneof      []string // Allowed values (oneof:a,b,c)
	required   bool
	secret     bool
	hasDefault bool
}

var tagDirectives = []string{"name:", "prefix:", "default:", "min:", "max:", "oneof:", "required", "secret"}

// parseTag parses a `conf` struct tag.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "required" == "required:true").
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}
	if tag == "" {
		return cfg
	}

	for _, directive := range splitTag(tag) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		name, value, _ := strings.Cut(directive, ":")
		switch strings.TrimSpace(name) {
		case "name":
			cfg.name = value
		case "prefix":
			cfg.prefix = value
		case "default":
			cfg.defValue = value
			cfg.hasDefault = true
		case "min":
			cfg.min = value
		case "max":
			cfg.max = value
		case "oneof":
			for _, opt := range strings.Split(value, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					cfg.oneof = append(cfg.oneof, opt)
				}
			}
		case "required":
			cfg.required = value != "false"
		case "secret":
			cfg.secret = value != "false"
		}
	}

	return cfg
}

// splitTag splits a tag into directives, keeping commas that belong to oneof values.
func splitTag(tag string) []string {
	var directives []string
	var current strings.Builder
	inOneof := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if ch != ',' {
			current.WriteByte(ch)
			if !inOneof && strings.TrimSpace(current.String()) == "oneof:" {
				inOneof = true
			}
			continue
		}

		if inOneof && !startsWithDirective(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}

		inOneof = false
		directives = append(directives, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}
	return directives
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range tagDirectives {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}
