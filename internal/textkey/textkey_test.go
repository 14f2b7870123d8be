package textkey

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "TACO", "taco"},
		{"strips accents", "Jalapeño Ácido", "jalapeno acido"},
		{"collapses whitespace", "  carne   asada ", "carne asada"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.input); got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	if !Contains("Café de Olla", "cafe") {
		t.Fatal("expected accent-insensitive match")
	}
	if Contains("Horchata", "jamaica") {
		t.Fatal("unexpected match")
	}
	if !Contains("Horchata", "") {
		t.Fatal("expected empty query to match")
	}
}
