package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "double underscore to dot", input: "LOG__LEVEL", expected: "log.level"},
		{name: "single underscore preserved", input: "LOCALE_FILE", expected: "locale_file"},
		{name: "mixed double and single underscores", input: "RETRY__MAX_RETRIES", expected: "retry.max_retries"},
		{name: "multiple levels", input: "A__B__C", expected: "a.b.c"},
		{name: "already lowercase", input: "simple", expected: "simple"},
		{name: "empty string", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToLowerDotPath(tt.input)
			if result != tt.expected {
				t.Errorf("ToLowerDotPath(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripPrefix(t *testing.T) {
	tests := []struct {
		name          string
		key           string
		prefix        string
		caseSensitive bool
		want          string
		wantOK        bool
	}{
		{name: "empty prefix matches", key: "HOST", prefix: "", want: "HOST", wantOK: true},
		{name: "exact prefix", key: "FORMGUARD_LOCALE", prefix: "FORMGUARD_", want: "LOCALE", wantOK: true},
		{name: "case insensitive", key: "formguard_LOCALE", prefix: "FORMGUARD_", want: "LOCALE", wantOK: true},
		{name: "case sensitive mismatch", key: "formguard_LOCALE", prefix: "FORMGUARD_", caseSensitive: true, wantOK: false},
		{name: "different prefix", key: "OTHER_VAR", prefix: "FORMGUARD_", wantOK: false},
		{name: "key shorter than prefix", key: "FG", prefix: "FORMGUARD_", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := StripPrefix(tt.key, tt.prefix, tt.caseSensitive)
			if ok != tt.wantOK {
				t.Fatalf("StripPrefix(%q, %q) ok = %v, want %v", tt.key, tt.prefix, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("StripPrefix(%q, %q) = %q, want %q", tt.key, tt.prefix, got, tt.want)
			}
		})
	}
}

func TestFieldKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Locale", "locale"},
		{"MaxRetries", "max_retries"},
		{"LoginURL", "login_url"},
		{"MaxSizeMB", "max_size_mb"},
		{"HTTPAddr", "http_addr"},
		{"RedirectDelay", "redirect_delay"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := FieldKey(tt.input); got != tt.expected {
				t.Errorf("FieldKey(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	tests := []struct {
		prefix, key, expected string
	}{
		{"log", "level", "log.level"},
		{"", "locale", "locale"},
		{"server", "", "server"},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := ApplyPrefix(tt.prefix, tt.key); got != tt.expected {
			t.Errorf("ApplyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.expected)
		}
	}
}
