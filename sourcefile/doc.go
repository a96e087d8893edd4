// Package sourcefile loads YAML, JSON, or TOML files as flat dot-keyed maps.
//
// Format is auto-detected from extension (.yaml, .json, .toml).
// It backs message catalogs, schema files and the config loader.
//
// Example:
//
//	src := sourcefile.New("messages.vi.yaml", sourcefile.Options{Required: true})
//	flat, err := src.Load(ctx) // {"rules.required": "...", ...}
package sourcefile
