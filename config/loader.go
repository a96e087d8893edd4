package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/Azhovan/formguard"
)

// Source yields settings as a flat map keyed by lowercase dotted paths
// ("retry.max_retries"). An optional source that finds nothing returns an empty map.
type Source interface {
	Load(ctx context.Context) (map[string]any, error)
	Name() string
}

// Validator checks cross-field constraints after the conf tags have been applied.
// Returning a *formguard.ValidationError merges its field errors into the load result.
type Validator[T any] interface {
	Validate(ctx context.Context, cfg *T) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc[T any] func(ctx context.Context, cfg *T) error

func (f ValidatorFunc[T]) Validate(ctx context.Context, cfg *T) error {
	return f(ctx, cfg)
}

// Loader builds a T from layered sources. Later sources win.
type Loader[T any] struct {
	sources    []Source
	validators []Validator[T]
	strict     bool
}

// NewLoader returns an empty loader that rejects unknown keys.
func NewLoader[T any]() *Loader[T] {
	return &Loader[T]{strict: true}
}

// WithSource appends src; it overrides every source added before it.
func (l *Loader[T]) WithSource(src Source) *Loader[T] {
	l.sources = append(l.sources, src)
	return l
}

// WithValidator appends a check run after binding and tag validation.
func (l *Loader[T]) WithValidator(v Validator[T]) *Loader[T] {
	l.validators = append(l.validators, v)
	return l
}

// Strict toggles unknown-key rejection.
func (l *Loader[T]) Strict(strict bool) *Loader[T] {
	l.strict = strict
	return l
}

// Load runs the pipeline: merge sources, reject unknown keys (strict mode),
// bind with defaults, apply conf constraints, then the custom validators.
// All field problems of the last three stages come back in one *formguard.ValidationError.
func (l *Loader[T]) Load(ctx context.Context) (*T, error) {
	merged, err := l.merge(ctx)
	if err != nil {
		return nil, err
	}

	if l.strict {
		if unknown := unknownKeys[T](merged); len(unknown) > 0 {
			return nil, &formguard.ValidationError{FieldErrors: unknown}
		}
	}

	cfg := new(T)
	target := reflect.ValueOf(cfg).Elem()

	var trail []FieldProvenance
	problems := bindStruct(target, merged, &trail, "", "")
	problems = append(problems, validateStruct(target)...)

	custom, err := l.runValidators(ctx, cfg)
	if err != nil {
		return nil, err
	}
	problems = append(problems, custom...)

	if len(problems) > 0 {
		return nil, &formguard.ValidationError{FieldErrors: problems}
	}

	storeProvenance(cfg, &Provenance{Fields: trail})
	return cfg, nil
}

func (l *Loader[T]) merge(ctx context.Context) (map[string]mergedEntry, error) {
	merged := make(map[string]mergedEntry)
	for _, src := range l.sources {
		data, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", src.Name(), err)
		}
		for key, value := range data {
			merged[strings.ToLower(key)] = mergedEntry{value: value, sourceName: src.Name()}
		}
	}
	return merged, nil
}

// runValidators collects field errors from every validator. Any other error aborts the load.
func (l *Loader[T]) runValidators(ctx context.Context, cfg *T) ([]formguard.FieldError, error) {
	var fieldErrors []formguard.FieldError
	for i, v := range l.validators {
		err := v.Validate(ctx, cfg)
		if err == nil {
			continue
		}
		var verr *formguard.ValidationError
		if !errors.As(err, &verr) {
			return nil, fmt.Errorf("validator %d failed: %w", i, err)
		}
		fieldErrors = append(fieldErrors, verr.FieldErrors...)
	}
	return fieldErrors, nil
}

// unknownKeys reports merged keys that no field of T binds, sorted by key.
func unknownKeys[T any](merged map[string]mergedEntry) []formguard.FieldError {
	known := make(map[string]bool)
	addKnownKeys(reflect.TypeOf((*T)(nil)).Elem(), known)

	var unknown []formguard.FieldError
	for key, entry := range merged {
		if known[key] {
			continue
		}
		unknown = append(unknown, formguard.FieldError{
			Field:   key,
			Message: "unknown configuration key (from " + entry.sourceName + ")",
		})
	}
	sort.Slice(unknown, func(i, j int) bool { return unknown[i].Field < unknown[j].Field })
	return unknown
}

// addKnownKeys records every key path struct type t can be bound from.
func addKnownKeys(t reflect.Type, known map[string]bool) {
	for _, s := range settingsOf(t) {
		known[s.key] = true
	}
}
