package text

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"simple", "Moong Dal nutrition", []string{"moong", "dal", "nutrition"}},
		{"punctuation separates", "protein: 24g, fats!", []string{"protein", "g", "fats"}},
		{"devanagari", "मूंग दाल nutrition", []string{"मूंग", "दाल", "nutrition"}},
		{"digits dropped", "2000 kcal plan", []string{"kcal", "plan"}},
		{"empty", "", nil},
		{"only separators", "123 !? 456", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestHasDevanagari(t *testing.T) {
	if HasDevanagari("moong dal") {
		t.Error("latin-only text reported as devanagari")
	}
	if !HasDevanagari("मूंग dal") {
		t.Error("devanagari text not detected")
	}
}

func TestTokenSet(t *testing.T) {
	set := TokenSet("dal dal rice")
	if len(set) != 2 {
		t.Fatalf("expected 2 distinct tokens, got %d", len(set))
	}
	if _, ok := set["dal"]; !ok {
		t.Error("missing token dal")
	}
}
