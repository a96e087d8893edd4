// Package config loads formguard's application settings from files and environment variables.
//
// Quick Start:
//
//	cfg, err := config.Load(ctx, "formguard.yaml")
//
// or, for any struct:
//
//	loader := config.NewLoader[Settings]().
//	    WithSource(sourcefile.New("settings.yaml", sourcefile.Options{})).
//	    WithSource(sourceenv.New(sourceenv.Options{Prefix: "APP_"}))
//
//	settings, err := loader.Load(ctx)
//
// Tag directives: default:val, required, min:N, max:N, oneof:a,b,c, secret, prefix:path, name:path
//
// Constraints are checked with the formguard rule engine; failures are
// returned as a *formguard.ValidationError listing every field.
package config
