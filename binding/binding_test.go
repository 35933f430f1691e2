package binding

import (
	"reflect"
	"testing"
)

func TestExpand(t *testing.T) {
	vars := map[string]any{"name": "deck", "page": 7}
	cases := map[string]string{
		"${name}-${page}.svg":     "deck-7.svg",
		"${name}-${page%03d}.svg": "deck-007.svg",
		"${missing}-${page}":      "${missing}-7",
		"plain.svg":               "plain.svg",
	}
	for in, want := range cases {
		if got := Expand(in, vars); got != want {
			t.Fatalf("Expand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("${name}/${page%02d}-${name}.svg")
	if !reflect.DeepEqual(got, []string{"name", "page"}) {
		t.Fatalf("Placeholders = %v", got)
	}
	if got := Placeholders("out.svg"); len(got) != 0 {
		t.Fatalf("expected no placeholders, got %v", got)
	}
}
