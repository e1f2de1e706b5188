package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "basic trim", input: "  hello  ", want: "hello"},
		{name: "multiple spaces", input: "hello    world", want: "hello world"},
		{name: "tabs and newlines", input: "hello\t\nworld", want: "hello world"},
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "accents preserved", input: " Club de Golf  La Moraleja ", want: "Club de Golf La Moraleja"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeCourse(t *testing.T) {
	if got := NormalizeCourse("  18   hoyos "); got != "18 hoyos" {
		t.Errorf("NormalizeCourse() = %q", got)
	}
	if got := NormalizeCourse(NormalizeCourse(" front 9 ")); got != "front 9" {
		t.Errorf("NormalizeCourse should be idempotent, got %q", got)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Jose.Garcia@Example.COM ", "jose.garcia@example.com"},
		{"", ""},
		{"already@lower.es", "already@lower.es"},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNameForComparison(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "convert to lowercase", input: "Álvaro Ruiz", want: "álvaro ruiz"},
		{name: "collapse multiple spaces", input: "Ana   Pérez", want: "ana pérez"},
		{name: "empty string", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeNameForComparison(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeNameForComparison(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
