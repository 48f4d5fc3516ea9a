package theme

import (
	"errors"
	"testing"
)

func TestLoad_Known(t *testing.T) {
	palette, err := Load("dracula")
	if err != nil {
		t.Fatalf("expected dracula theme to load: %v", err)
	}
	if palette.Ident == "" || palette.Text == "" || palette.Highlight == "" || palette.Opcode == "" {
		t.Fatalf("theme palette has empty core colors: %+v", palette)
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("this-theme-does-not-exist")
	if !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

func TestLoad_Alias(t *testing.T) {
	palette, err := Load("Solarized")
	if err != nil {
		t.Fatalf("expected solarized alias to load: %v", err)
	}
	if palette.Name != "solarized-dark" {
		t.Fatalf("name = %q, want solarized-dark", palette.Name)
	}
}

func TestHighlightContrastsWithBackground(t *testing.T) {
	if got := autoHighlight("#000000"); got != "#5E5A36" {
		t.Fatalf("dark background highlight = %q", got)
	}
	if got := autoHighlight("#FFFFFF"); got != "#FFF3A3" {
		t.Fatalf("light background highlight = %q", got)
	}
}

func TestMix(t *testing.T) {
	if got := mix("#000000", "#FFFFFF", 0); got != "#000000" {
		t.Fatalf("mix at 0 = %q", got)
	}
	if got := mix("#000000", "#FFFFFF", 1); got != "#FFFFFF" {
		t.Fatalf("mix at 1 = %q", got)
	}
	if got := mix("#202020", "#202020", 0.5); got != "#202020" {
		t.Fatalf("mix of equal colours = %q", got)
	}
	if got := mix("red", "#000000", 0.5); got != "red" {
		t.Fatalf("mix keeps non-hex input: %q", got)
	}
}

func TestIsDark(t *testing.T) {
	if !isDark("#2E3440") || isDark("#FDF6E3") {
		t.Fatalf("nord should be dark and solarized-light should not")
	}
	if !isDark("not-a-colour") {
		t.Fatalf("unparseable colours count as dark")
	}
}

func TestPanelColoursSitBetweenTextAndBackground(t *testing.T) {
	palette, err := Load("nord")
	if err != nil {
		t.Fatalf("load nord: %v", err)
	}
	for name, c := range map[string]string{"panel": palette.PanelBG, "selection": palette.SelectionBG, "muted": palette.Muted} {
		if !IsHexColor(c) {
			t.Fatalf("%s colour %q is not #RRGGBB", name, c)
		}
	}
	if palette.PanelBG == palette.Background {
		t.Fatalf("panel background should differ from the background")
	}
}

func TestSuggestions(t *testing.T) {
	got := suggestions([]string{"zenburn", "monokai", "nord"})
	if len(got) != 2 || got[0] != "nord" || got[1] != "monokai" {
		t.Fatalf("suggestions = %v", got)
	}
	if got := suggestions([]string{"a", "b"}); len(got) != 2 {
		t.Fatalf("fallback suggestions = %v", got)
	}
}

func TestIsHexColor(t *testing.T) {
	if !IsHexColor("#ffee00") {
		t.Fatalf("expected #ffee00 to be a hex color")
	}
	if IsHexColor("ffee00") || IsHexColor("#fff") || IsHexColor("yellow") {
		t.Fatalf("expected malformed colors to be rejected")
	}
}
