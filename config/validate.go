package config

import (
	"reflect"
	"strconv"

	"github.com/Azhovan/formguard"
)

// tagValidator reports configuration problems in English regardless of the form locale.
var tagValidator = formguard.New(formguard.WithCatalog(formguard.English()))

// validateStruct checks every setting of cfg against its conf constraints.
// Zero values count as "not provided": required fails on them, other rules pass.
func validateStruct(cfg reflect.Value) []formguard.FieldError {
	cfg, ok := indirectStruct(cfg)
	if !ok {
		return nil
	}

	var fieldErrors []formguard.FieldError
	for _, s := range settingsOf(cfg.Type()) {
		fv := cfg.FieldByIndex(s.index)
		rules := tagRules(fv.Kind(), s.tags)
		if len(rules) == 0 {
			continue
		}

		var value any
		if !fv.IsZero() {
			value = fv.Interface()
		}
		if msg := tagValidator.ValidateField(s.path, value, rules); msg != "" {
			fieldErrors = append(fieldErrors, formguard.FieldError{Field: s.path, Message: msg})
		}
	}
	return fieldErrors
}

// tagRules translates conf directives into formguard rules.
// On strings min and max bound the length; on numbers they bound the value.
func tagRules(kind reflect.Kind, tags tagConfig) []formguard.Rule {
	var rules []formguard.Rule
	if tags.required {
		rules = append(rules, formguard.Required())
	}

	switch kind {
	case reflect.String:
		if n, err := strconv.Atoi(tags.min); err == nil {
			rules = append(rules, formguard.MinLength(n))
		}
		if n, err := strconv.Atoi(tags.max); err == nil {
			rules = append(rules, formguard.MaxLength(n))
		}
	default:
		if f, err := strconv.ParseFloat(tags.min, 64); err == nil {
			rules = append(rules, formguard.Min(f))
		}
		if f, err := strconv.ParseFloat(tags.max, 64); err == nil {
			rules = append(rules, formguard.Max(f))
		}
	}

	if len(tags.oneof) > 0 {
		rules = append(rules, formguard.OneOf(tags.oneof...))
	}
	return rules
}
