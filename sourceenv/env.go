package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/formguard/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars. Matching is case-insensitive unless CaseSensitive is set.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool
}

// Source reads process environment variables.
type Source struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) *Source {
	return &Source{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func (e *Source) Load(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key, ok = normalize.StripPrefix(key, e.opts.Prefix, e.opts.CaseSensitive)
		if !ok || key == "" {
			continue
		}

		// FORMGUARD_LOG__LEVEL -> log.level
		result[normalize.ToLowerDotPath(key)] = value
	}

	return result, nil
}

// Name returns a human-readable identifier for this source.
func (e *Source) Name() string {
	if e.opts.Prefix == "" {
		return "env"
	}
	return "env:" + e.opts.Prefix + "*"
}
