package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Azhovan/formguard"
	"github.com/Azhovan/formguard/sourceenv"
	"github.com/Azhovan/formguard/sourcefile"
	"golang.org/x/text/language"
)

// EnvPrefix is stripped from environment variables; "__" separates levels.
// Example: FORMGUARD_RETRY__MAX_RETRIES=5 sets retry.max_retries.
const EnvPrefix = "FORMGUARD_"

// Config holds formguard's application settings.
type Config struct {
	Locale     string     `conf:"default:vi,oneof:vi,en"`
	LocaleFile string     `conf:"name:locale_file"`
	Log        Log        `conf:"prefix:log"`
	Classifier Classifier `conf:"prefix:classifier"`
	Retry      Retry      `conf:"prefix:retry"`
	Server     Server     `conf:"prefix:server"`
}

// Log configures the zap logger.
type Log struct {
	Level      string `conf:"default:info,oneof:debug,info,warn,error"`
	Format     string `conf:"default:console,oneof:console,json"`
	File       string // Empty logs to stderr.
	MaxSizeMB  int    `conf:"default:100,min:1,max:10240"`
	MaxBackups int    `conf:"default:3,max:100"`
	MaxAgeDays int    `conf:"default:28,max:3650"`
}

// Classifier configures error classification side effects.
type Classifier struct {
	RedirectDelay time.Duration `conf:"default:2s"`
	LoginURL      string        `conf:"default:/login,required"`
}

// Retry configures the default retry policy.
type Retry struct {
	MaxRetries int           `conf:"default:3,required,min:1,max:10"`
	Delay      time.Duration `conf:"default:1s"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string `conf:"default::8080,required"`
	MetricsToken string `conf:"secret"` // Bearer token for /metrics; empty leaves it open.
}

// Load reads path (optional when empty or missing) and FORMGUARD_* variables, env winning.
func Load(ctx context.Context, path string) (*Config, error) {
	loader := NewLoader[Config]()
	if path != "" {
		loader.WithSource(sourcefile.New(path, sourcefile.Options{}))
	}
	return loader.
		WithSource(sourceenv.New(sourceenv.Options{Prefix: EnvPrefix})).
		WithValidator(ValidatorFunc[Config](checkSettings)).
		Load(ctx)
}

// checkSettings covers constraints tags cannot express.
func checkSettings(_ context.Context, cfg *Config) error {
	var fieldErrors []formguard.FieldError

	if cfg.LocaleFile != "" {
		if _, err := os.Stat(cfg.LocaleFile); err != nil {
			fieldErrors = append(fieldErrors, formguard.FieldError{
				Field:   "LocaleFile",
				Message: fmt.Sprintf("locale file not readable: %v", err),
			})
		}
	}
	if cfg.Retry.Delay < 0 {
		fieldErrors = append(fieldErrors, formguard.FieldError{Field: "Retry.Delay", Message: "delay must not be negative"})
	}
	if cfg.Classifier.RedirectDelay < 0 {
		fieldErrors = append(fieldErrors, formguard.FieldError{Field: "Classifier.RedirectDelay", Message: "delay must not be negative"})
	}

	if len(fieldErrors) > 0 {
		return &formguard.ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}

// Language returns the configured locale as a language tag.
func (c *Config) Language() language.Tag {
	if c.Locale == "en" {
		return language.English
	}
	return language.Vietnamese
}

// Catalog returns the built-in catalog for Locale with LocaleFile layered on top.
func (c *Config) Catalog(ctx context.Context) (*formguard.Catalog, error) {
	base := formguard.Vietnamese()
	if c.Language() == language.English {
		base = formguard.English()
	}
	if c.LocaleFile == "" {
		return base, nil
	}

	override, err := formguard.LoadCatalog(ctx, c.LocaleFile, base.Language())
	if err != nil {
		return nil, err
	}
	return base.Merge(override), nil
}

// Bundle returns the language bundle with the configured catalog as fallback.
func (c *Config) Bundle(ctx context.Context) (*formguard.Bundle, error) {
	primary, err := c.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	if primary.Language() == language.English {
		return formguard.NewBundle(primary, formguard.Vietnamese()), nil
	}
	return formguard.NewBundle(primary, formguard.English()), nil
}
