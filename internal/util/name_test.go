package util

import "testing"

func TestNormalizeTagName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"writing", "writing"},
		{"  writing  ", "writing"},
		{"slow    burn", "slow burn"},
		{"slow\tburn", "slow burn"},
		{"Slow Burn", "Slow Burn"},
		{"   ", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeTagName(tt.input); got != tt.want {
			t.Errorf("NormalizeTagName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
