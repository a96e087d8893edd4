package config

import (
	"reflect"
	"testing"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want tagConfig
	}{
		{"", tagConfig{}},
		{"required", tagConfig{required: true}},
		{"required:false", tagConfig{}},
		{"default:vi,oneof:vi,en", tagConfig{defValue: "vi", hasDefault: true, oneof: []string{"vi", "en"}}},
		{"oneof:debug, info ,warn,required", tagConfig{oneof: []string{"debug", "info", "warn"}, required: true}},
		{"default::8080,required", tagConfig{defValue: ":8080", hasDefault: true, required: true}},
		{"default:,min:1", tagConfig{defValue: "", hasDefault: true, min: "1"}},
		{"name:locale_file", tagConfig{name: "locale_file"}},
		{"prefix:log", tagConfig{prefix: "log"}},
		{"secret", tagConfig{secret: true}},
		{"min:1,max:10", tagConfig{min: "1", max: "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			got := parseTag(tt.tag)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}
