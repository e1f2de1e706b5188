package sanitizer

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeStringSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		fn    func(string) string
		want  []string
	}{
		{name: "nil input", input: nil, fn: TrimAndNormalize, want: []string{}},
		{name: "dedupe after normalizing", input: []string{"a", " a ", "b"}, fn: TrimAndNormalize, want: []string{"a", "b"}},
		{name: "drop empties", input: []string{"", "  ", "x"}, fn: TrimAndNormalize, want: []string{"x"}},
		{name: "custom normalizer", input: []string{"A", "a"}, fn: strings.ToLower, want: []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeStringSlice(tt.input, tt.fn)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeStringSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIDs(t *testing.T) {
	got := NormalizeIDs([]string{" A ", "B", "A", "", "b"})
	want := []string{"A", "B", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeIDs() = %v, want %v", got, want)
	}
}

func TestNormalizeIDs_KeepsFirstOccurrenceOrder(t *testing.T) {
	got := NormalizeIDs([]string{"C", " A", "C ", "B", "A"})
	want := []string{"C", "A", "B"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeIDs() = %v, want %v", got, want)
	}
}
