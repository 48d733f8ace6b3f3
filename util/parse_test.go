package util

import "testing"

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		in      string
		visible int
		want    string
	}{
		{"Bearer abcdef123456", 7, "Bearer ***"},
		{"short", 7, "***"},
		{"", 0, "***"},
	}
	for _, tt := range tests {
		if got := MaskSecret(tt.in, tt.visible); got != tt.want {
			t.Errorf("MaskSecret(%q, %d) = %q, want %q", tt.in, tt.visible, got, tt.want)
		}
	}
}
