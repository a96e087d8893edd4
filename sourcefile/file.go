package sourcefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned for file formats other than yaml, json and toml.
var ErrUnsupportedFormat = errors.New("sourcefile: unsupported format")

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool
}

// Source reads one YAML, JSON or TOML file.
type Source struct {
	path string
	opts Options
}

// New creates a file-based source.
func New(path string, opts Options) *Source {
	return &Source{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning flattened dot-separated keys.
func (f *Source) Load(ctx context.Context) (map[string]any, error) {
	data, err := f.read()
	if err != nil || data == nil {
		return map[string]any{}, err
	}
	return Parse(data, f.format())
}

// LoadRaw reads and parses the file without flattening nested maps.
func (f *Source) LoadRaw(ctx context.Context) (map[string]any, error) {
	data, err := f.read()
	if err != nil || data == nil {
		return map[string]any{}, err
	}
	return Decode(data, f.format())
}

// Name returns a human-readable identifier for this source.
func (f *Source) Name() string {
	return "file:" + filepath.Base(f.path)
}

func (f *Source) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, fmt.Errorf("required file not found: %s: %w", f.path, err)
			}
			return nil, nil
		}
		return nil, fmt.Errorf("read file %s: %w", f.path, err)
	}
	return data, nil
}

func (f *Source) format() string {
	if f.opts.Format != "" {
		return f.opts.Format
	}
	return FormatOf(f.path)
}

// Decode parses data in the given format into a nested map.
func Decode(data []byte, format string) (map[string]any, error) {
	var raw map[string]any
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q (supported: yaml, json, toml)", ErrUnsupportedFormat, format)
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// Parse parses data in the given format and flattens nested maps to dot-separated keys.
// Lists are kept as values.
func Parse(data []byte, format string) (map[string]any, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	flattened := make(map[string]any)
	flatten("", raw, flattened)
	return flattened, nil
}

func flatten(prefix string, value any, result map[string]any) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flatten(join(prefix, key), val, result)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flatten(join(prefix, keyStr), val, result)
		}
	default:
		if prefix != "" {
			result[prefix] = value
		}
	}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// FormatOf infers the format from a file extension. Returns "" when unknown.
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
