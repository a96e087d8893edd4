package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes a key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "LOG__LEVEL" → "log.level"
//   - "RETRY__MAX_RETRIES" → "retry.max_retries"
//   - "LOCALE_FILE" → "locale_file"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// StripPrefix removes prefix from key. It reports false when key does not carry the prefix.
// An empty prefix matches every key.
func StripPrefix(key, prefix string, caseSensitive bool) (string, bool) {
	if prefix == "" {
		return key, true
	}
	if len(key) < len(prefix) {
		return "", false
	}
	head := key[:len(prefix)]
	if caseSensitive {
		if head != prefix {
			return "", false
		}
	} else if !strings.EqualFold(head, prefix) {
		return "", false
	}
	return key[len(prefix):], true
}

// FieldKey derives a key from a struct field name: "MaxRetries" → "max_retries".
// Runs of capitals stay together: "LoginURL" → "login_url".
func FieldKey(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ApplyPrefix combines a prefix with a key to create a nested path.
// Examples:
//   - ApplyPrefix("log", "level") → "log.level"
//   - ApplyPrefix("", "locale") → "locale"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}
