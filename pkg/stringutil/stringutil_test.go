package stringutil

import (
	"strings"
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"shorter than max", "hello", 10, "hello"},
		{"exactly max", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 5, "hello..."},
		{"tiny max no ellipsis", "hello", 2, "he"},
		{"empty string", "", 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestTruncateLongLine(t *testing.T) {
	long := strings.Repeat("x", 250)
	got := Truncate(long, 100)
	if len(got) != 103 {
		t.Errorf("expected 103 chars (100 + ellipsis), got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-5:])
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trailing spaces stripped", "line one   \nline two\t\n", "line one\nline two\n"},
		{"multiple trailing newlines collapse", "content\n\n\n", "content\n"},
		{"empty input stays empty", "", ""},
		{"adds trailing newline", "no newline", "no newline\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWhitespace(tt.input); got != tt.want {
				t.Errorf("NormalizeWhitespace(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCountNonBlank(t *testing.T) {
	lines := []string{"one", "", "   ", "\t", "two", "three"}
	if got := CountNonBlank(lines); got != 3 {
		t.Errorf("CountNonBlank = %d, want 3", got)
	}
	if got := CountNonBlank(nil); got != 0 {
		t.Errorf("CountNonBlank(nil) = %d, want 0", got)
	}
}
