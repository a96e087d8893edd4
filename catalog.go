package formguard

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/Azhovan/formguard/sourcefile"
	"golang.org/x/text/language"
)

//go:embed locales/*.yaml
var locales embed.FS

// Catalog key prefixes.
const (
	rulesPrefix  = "rules."
	fieldsPrefix = "fields."
)

// Params fills {name} placeholders in catalog messages.
type Params map[string]string

// Catalog is a read-only message table for one language.
//
// Keys are dot paths: "fields.<field>.<code>" overrides "rules.<code>".
// Other sections ("eligibility.*", "classify.*") are looked up with Text.
type Catalog struct {
	lang     language.Tag
	messages map[string]string
}

// NewCatalog creates a catalog from flat dot-keyed messages.
func NewCatalog(lang language.Tag, messages map[string]string) *Catalog {
	copied := make(map[string]string, len(messages))
	for k, v := range messages {
		copied[k] = v
	}
	return &Catalog{lang: lang, messages: copied}
}

// ParseCatalog parses YAML, JSON or TOML data into a catalog.
func ParseCatalog(data []byte, format string, lang language.Tag) (*Catalog, error) {
	flat, err := sourcefile.Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return catalogFromFlat(lang, flat)
}

// LoadCatalog reads a catalog file. Format is inferred from the extension.
func LoadCatalog(ctx context.Context, path string, lang language.Tag) (*Catalog, error) {
	flat, err := sourcefile.New(path, sourcefile.Options{Required: true}).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalogFromFlat(lang, flat)
}

func catalogFromFlat(lang language.Tag, flat map[string]any) (*Catalog, error) {
	messages := make(map[string]string, len(flat))
	for key, value := range flat {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("catalog key %q: message must be a string, got %T", key, value)
		}
		messages[key] = s
	}
	return &Catalog{lang: lang, messages: messages}, nil
}

// Language returns the catalog language.
func (c *Catalog) Language() language.Tag {
	return c.lang
}

// Lookup returns the raw message stored under key.
func (c *Catalog) Lookup(key string) (string, bool) {
	if c == nil {
		return "", false
	}
	msg, ok := c.messages[key]
	return msg, ok
}

// Text returns the message under key with placeholders filled, or key itself when missing.
func (c *Catalog) Text(key string, params Params) string {
	msg, ok := c.Lookup(key)
	if !ok {
		return key
	}
	return expand(msg, params)
}

// Message resolves the message for a failed rule on a field.
// Lookup order: fields.<field>.<code>, rules.<code>, then the code itself.
func (c *Catalog) Message(field, code string, params Params) string {
	if field != "" {
		if msg, ok := c.Lookup(fieldsPrefix + field + "." + code); ok {
			return expand(msg, params)
		}
	}
	if msg, ok := c.Lookup(rulesPrefix + code); ok {
		return expand(msg, params)
	}
	return code
}

// Merge returns a new catalog with other's messages layered over c's.
// The result keeps c's language.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := NewCatalog(c.lang, c.messages)
	if other != nil {
		for k, v := range other.messages {
			merged.messages[k] = v
		}
	}
	return merged
}

func expand(msg string, params Params) string {
	if len(params) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(params)*2)
	for name, value := range params {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	builtinOnce sync.Once
	builtinVI   *Catalog
	builtinEN   *Catalog
)

func loadBuiltins() {
	builtinOnce.Do(func() {
		builtinVI = mustEmbedded("locales/vi.yaml", language.Vietnamese)
		builtinEN = mustEmbedded("locales/en.yaml", language.English)
	})
}

func mustEmbedded(path string, lang language.Tag) *Catalog {
	data, err := locales.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("formguard: embedded catalog %s: %v", path, err))
	}
	c, err := ParseCatalog(data, "yaml", lang)
	if err != nil {
		panic(fmt.Sprintf("formguard: embedded catalog %s: %v", path, err))
	}
	return c
}

// Vietnamese returns the built-in Vietnamese catalog (the default).
func Vietnamese() *Catalog {
	loadBuiltins()
	return builtinVI
}

// English returns the built-in English catalog.
func English() *Catalog {
	loadBuiltins()
	return builtinEN
}

// Bundle selects a catalog by language preference.
type Bundle struct {
	catalogs []*Catalog
	matcher  language.Matcher
}

// NewBundle creates a bundle. The first catalog is the fallback.
func NewBundle(first *Catalog, rest ...*Catalog) *Bundle {
	catalogs := append([]*Catalog{first}, rest...)
	tags := make([]language.Tag, len(catalogs))
	for i, c := range catalogs {
		tags[i] = c.lang
	}
	return &Bundle{catalogs: catalogs, matcher: language.NewMatcher(tags)}
}

// DefaultBundle holds the built-in catalogs with Vietnamese as fallback.
func DefaultBundle() *Bundle {
	return NewBundle(Vietnamese(), English())
}

// Match picks the best catalog for an Accept-Language header value or a plain tag like "en".
// Unparseable or unsupported preferences fall back to the first catalog.
func (b *Bundle) Match(accept string) *Catalog {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return b.catalogs[0]
	}
	_, index, confidence := b.matcher.Match(tags...)
	if confidence == language.No {
		return b.catalogs[0]
	}
	return b.catalogs[index]
}

// Languages lists the bundle languages in registration order.
func (b *Bundle) Languages() []language.Tag {
	tags := make([]language.Tag, len(b.catalogs))
	for i, c := range b.catalogs {
		tags[i] = c.lang
	}
	return tags
}
