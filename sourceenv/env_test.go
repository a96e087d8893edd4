package sourceenv

import (
	"context"
	"testing"
)

func TestSource_Load(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		envVars  map[string]string
		expected map[string]any
		absent   []string
	}{
		{
			name: "double underscore as level separator",
			opts: Options{Prefix: "FGTEST_"},
			envVars: map[string]string{
				"FGTEST_LOG__LEVEL":  "debug",
				"FGTEST_LOG__FORMAT": "console",
			},
			expected: map[string]any{
				"log.level":  "debug",
				"log.format": "console",
			},
		},
		{
			name: "single underscore preserved",
			opts: Options{Prefix: "FGTEST_"},
			envVars: map[string]string{
				"FGTEST_LOCALE_FILE":        "/etc/vi.yaml",
				"FGTEST_RETRY__MAX_RETRIES": "5",
			},
			expected: map[string]any{
				"locale_file":       "/etc/vi.yaml",
				"retry.max_retries": "5",
			},
		},
		{
			name: "prefix filtering drops other variables",
			opts: Options{Prefix: "FGTEST_"},
			envVars: map[string]string{
				"FGTEST_LOCALE": "en",
				"FGOTHER_VAR":   "ignored",
			},
			expected: map[string]any{"locale": "en"},
			absent:   []string{"fgother_var", "var"},
		},
		{
			name: "prefix case insensitive matching",
			opts: Options{Prefix: "fgtest_"},
			envVars: map[string]string{
				"FGTEST_LOCALE":       "vi",
				"Fgtest_SERVER__ADDR": ":9090",
			},
			expected: map[string]any{
				"locale":      "vi",
				"server.addr": ":9090",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			result, err := New(tt.opts).Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			for key, expectedValue := range tt.expected {
				actualValue, ok := result[key]
				if !ok {
					t.Errorf("expected key %q not found in result", key)
					continue
				}
				if actualValue != expectedValue {
					t.Errorf("key %q: got %v, want %v", key, actualValue, expectedValue)
				}
			}
			for _, key := range tt.absent {
				if _, ok := result[key]; ok {
					t.Errorf("key %q should not be present", key)
				}
			}
		})
	}
}

func TestSource_EmptyValues(t *testing.T) {
	t.Setenv("FGEMPTY_LOCALE", "")

	result, err := New(Options{Prefix: "FGEMPTY_"}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if val, ok := result["locale"]; !ok {
		t.Error("expected locale to be present")
	} else if val != "" {
		t.Errorf("locale = %v, want empty string", val)
	}
}

func TestSource_Name(t *testing.T) {
	if got := New(Options{}).Name(); got != "env" {
		t.Errorf("Name() = %q, want %q", got, "env")
	}
	if got := New(Options{Prefix: "FORMGUARD_"}).Name(); got != "env:FORMGUARD_*" {
		t.Errorf("Name() = %q, want %q", got, "env:FORMGUARD_*")
	}
}
