// Package sourceenv loads settings from environment variables.
//
// Key normalization: FOO__BAR → foo.bar, FOO_BAR → foo_bar
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "FORMGUARD_"})
//	cfg, err := config.NewLoader().WithSource(source).Load(ctx)
package sourceenv
