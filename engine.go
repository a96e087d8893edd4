package formguard

import (
	"sort"
	"sync"
	"time"
)

// Result maps field name to error message. Only failing fields are present.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Fields returns the failing field names in sorted order.
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r))
	for f := range r {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil for a valid result, otherwise a *ValidationError sorted by field.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	fieldErrors := make([]FieldError, 0, len(r))
	for _, f := range r.Fields() {
		fieldErrors = append(fieldErrors, FieldError{Field: f, Message: r[f]})
	}
	return &ValidationError{FieldErrors: fieldErrors}
}

// IsValid reports whether result has no entries.
func IsValid(result Result) bool {
	return result.Valid()
}

// Option configures a Validator.
type Option func(*Validator)

// WithCatalog sets the message catalog. Default: Vietnamese().
func WithCatalog(c *Catalog) Option {
	return func(v *Validator) {
		if c != nil {
			v.messages = c
		}
	}
}

// WithClock sets the time source used by age and date rules. Default: time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// Validator evaluates rules and schemas against submitted values.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	messages *Catalog
	now      func() time.Time
}

// New creates a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{
		messages: Vietnamese(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var (
	defaultValidator *Validator
	defaultOnce      sync.Once
)

// Default returns the shared Validator using the Vietnamese catalog and the wall clock.
func Default() *Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// Catalog returns the validator's message catalog.
func (v *Validator) Catalog() *Catalog {
	return v.messages
}

// Now returns the validator's current time.
func (v *Validator) Now() time.Time {
	return v.now()
}

// ValidateField applies rules in order and returns the first failure message.
// It returns "" when all rules pass or rules is empty. Nil rules are skipped.
func (v *Validator) ValidateField(field string, value any, rules []Rule) string {
	rc := &Context{Field: field, Now: v.now(), Messages: v.messages}
	return validateField(value, rules, rc)
}

// ValidateForm checks every field of schema against values.
// Fields missing from values are treated as empty; keys not in the schema are ignored.
// A nil schema yields an empty result.
func (v *Validator) ValidateForm(values map[string]any, schema *Schema) Result {
	result := make(Result)
	if schema == nil {
		return result
	}

	now := v.now()
	for _, f := range schema.fields {
		rc := &Context{Field: f.Name, Values: values, Now: now, Messages: v.messages}
		if msg := validateField(values[f.Name], f.Rules, rc); msg != "" {
			result[f.Name] = msg
		}
	}
	return result
}

func validateField(value any, rules []Rule, rc *Context) string {
	for _, rule := range rules {
		if rule == nil {
			continue
		}
		if msg := rule(value, rc); msg != "" {
			return msg
		}
	}
	return ""
}

// ValidateField checks value with the default validator, without field-specific messages.
func ValidateField(value any, rules ...Rule) string {
	return Default().ValidateField("", value, rules)
}

// ValidateForm checks values against schema with the default validator.
func ValidateForm(values map[string]any, schema *Schema) Result {
	return Default().ValidateForm(values, schema)
}
