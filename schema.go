package formguard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Azhovan/formguard/sourcefile"
)

// FieldRules binds one field name to its ordered rules.
type FieldRules struct {
	Name  string
	Rules []Rule
}

// Field is shorthand for FieldRules{Name: name, Rules: rules}.
func Field(name string, rules ...Rule) FieldRules {
	return FieldRules{Name: name, Rules: rules}
}

// Schema is the fixed, ordered set of fields and rules for one form type.
// It is immutable once built.
type Schema struct {
	fields []FieldRules
	index  map[string]int
}

// NewSchema builds a schema. Nil rules, empty names and duplicate fields are rejected.
func NewSchema(fields ...FieldRules) (*Schema, error) {
	s := &Schema{
		fields: make([]FieldRules, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("formguard: field name is empty")
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		for i, r := range f.Rules {
			if r == nil {
				return nil, fmt.Errorf("%w: field %s, rule %d", ErrNilRule, f.Name, i)
			}
		}
		rules := make([]Rule, len(f.Rules))
		copy(rules, f.Rules)
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, FieldRules{Name: f.Name, Rules: rules})
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error. Intended for package-level schemas.
func MustSchema(fields ...FieldRules) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Rules returns a copy of the rules bound to field, or nil if the field is unknown.
func (s *Schema) Rules(field string) []Rule {
	i, ok := s.index[field]
	if !ok {
		return nil
	}
	rules := make([]Rule, len(s.fields[i].Rules))
	copy(rules, s.fields[i].Rules)
	return rules
}

// ParseRules turns a directive string into rules.
// Format: "directive1,directive2:arg,...", e.g. "required,email" or "required,min_age:18,max_age:65".
// oneof options may contain commas: "oneof:male,female,other,required".
func ParseRules(directives string) ([]Rule, error) {
	var rules []Rule
	for _, directive := range splitDirectives(directives) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		name, arg, _ := strings.Cut(directive, ":")
		name = strings.TrimSpace(name)

		build, ok := directiveBuilders[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDirective, name)
		}
		rule, err := build(arg)
		if err != nil {
			return nil, fmt.Errorf("directive %q: %w", directive, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// SchemaFromTable builds a schema from (field, directives) pairs.
func SchemaFromTable(table [][2]string) (*Schema, error) {
	fields := make([]FieldRules, 0, len(table))
	for _, row := range table {
		rules, err := ParseRules(row[1])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", row[0], err)
		}
		fields = append(fields, Field(row[0], rules...))
	}
	return NewSchema(fields...)
}

// LoadSchema reads a schema file (YAML, JSON or TOML) of the form:
//
//	fields:
//	  - name: email
//	    rules: "required,email"
func LoadSchema(ctx context.Context, path string) (*Schema, error) {
	raw, err := sourcefile.New(path, sourcefile.Options{Required: true}).LoadRaw(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	list, ok := raw["fields"].([]any)
	if !ok {
		return nil, fmt.Errorf("load schema %s: missing fields list", path)
	}

	table := make([][2]string, 0, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("load schema %s: field %d is not a mapping", path, i)
		}
		name, _ := entry["name"].(string)
		directives, _ := entry["rules"].(string)
		table = append(table, [2]string{name, directives})
	}
	return SchemaFromTable(table)
}

type directiveBuilder func(arg string) (Rule, error)

var directiveBuilders = builtinDirectives()

func builtinDirectives() map[string]directiveBuilder {
	noArg := func(r Rule) directiveBuilder {
		return func(string) (Rule, error) { return r, nil }
	}
	intArg := func(ctor func(int) Rule) directiveBuilder {
		return func(arg string) (Rule, error) {
			n, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil {
				return nil, fmt.Errorf("expected integer argument, got %q", arg)
			}
			return ctor(n), nil
		}
	}
	floatArg := func(ctor func(float64) Rule) directiveBuilder {
		return func(arg string) (Rule, error) {
			f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
			if err != nil {
				return nil, fmt.Errorf("expected numeric argument, got %q", arg)
			}
			return ctor(f), nil
		}
	}
	fieldArg := func(ctor func(string) Rule) directiveBuilder {
		return func(arg string) (Rule, error) {
			arg = strings.TrimSpace(arg)
			if arg == "" {
				return nil, fmt.Errorf("expected field name argument")
			}
			return ctor(arg), nil
		}
	}

	return map[string]directiveBuilder{
		CodeRequired:     noArg(Required()),
		CodeEmail:        noArg(Email()),
		CodePhone:        noArg(Phone()),
		CodeNationalID:   noArg(NationalID()),
		CodePassport:     noArg(Passport()),
		CodeBloodGroup:   noArg(BloodGroup()),
		CodePassword:     noArg(Password()),
		CodeFutureDate:   noArg(FutureDate()),
		CodePastDate:     noArg(PastDate()),
		CodeMinLength:    intArg(MinLength),
		CodeMaxLength:    intArg(MaxLength),
		CodeMinAge:       intArg(MinAge),
		CodeMaxAge:       intArg(MaxAge),
		CodeMinDaysSince: intArg(MinDaysSince),
		CodeMin:          floatArg(Min),
		CodeMax:          floatArg(Max),
		"same_as":        fieldArg(SameAs),
		CodeDateRange:    fieldArg(DateRangeWith),
		"tag": func(arg string) (Rule, error) {
			arg = strings.TrimSpace(arg)
			if arg == "" || !knownTag(arg) {
				return nil, fmt.Errorf("%w: tag %q", ErrUnknownDirective, arg)
			}
			return Tag(arg), nil
		},
		CodeOneOf: func(arg string) (Rule, error) {
			var options []string
			for _, opt := range strings.Split(arg, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					options = append(options, opt)
				}
			}
			if len(options) == 0 {
				return nil, fmt.Errorf("oneof needs at least one option")
			}
			return OneOf(options...), nil
		},
	}
}

// splitDirectives splits a directive string on commas,
// keeping commas that belong to oneof options.
func splitDirectives(s string) []string {
	var directives []string
	var current strings.Builder
	inOneof := false

	for i := 0; i < len(s); i++ {
		ch := s[i]

		if ch != ',' {
			current.WriteByte(ch)
			if !inOneof && strings.TrimSpace(current.String()) == CodeOneOf+":" {
				inOneof = true
			}
			continue
		}

		// A comma inside oneof ends it only when a known directive follows.
		if inOneof && !startsWithDirective(s[i+1:]) {
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

// startsWithDirective reports whether s begins with a registered directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	name, _, _ := strings.Cut(s, ":")
	name, _, _ = strings.Cut(name, ",")
	_, ok := directiveBuilders[strings.TrimSpace(name)]
	return ok
}
