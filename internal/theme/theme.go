// Package theme derives the colours of the code view and the host panels from a
// chroma style.
package theme

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/lucasb-eyer/go-colorful"
)

var ErrUnknownTheme = errors.New("unknown theme")

type Palette struct {
	Name        string
	Text        string
	Background  string
	PanelBG     string
	SelectionBG string
	Highlight   string
	Muted       string
	Dim         string
	Header      string
	Accent      string
	Ident       string
	Type        string
	Number      string
	Opcode      string
	Keyword     string
	String      string
	Comment     string
	Operator    string
	Error       string
}

// Names lists the available chroma styles, sorted.
func Names() []string {
	names := styles.Names()
	slices.Sort(names)
	return names
}

func Load(name string) (Palette, error) {
	requested := strings.TrimSpace(name)
	if requested == "" {
		requested = "nord"
	}

	lookup := normalizeName(requested)
	style, ok := styles.Registry[lookup]
	if !ok || style == nil {
		return Palette{}, fmt.Errorf("%w %q. try one of: %s", ErrUnknownTheme, requested, strings.Join(suggestions(Names()), ", "))
	}

	bg := pickBackground(style, "#2E3440", chroma.Background, chroma.LineHighlight)
	fg := pickForeground(style, "#D8DEE9", chroma.Text, chroma.Background)
	comment := pickForeground(style, mix(fg, bg, 0.5), chroma.Comment)

	return Palette{
		Name:        lookup,
		Text:        fg,
		Background:  bg,
		PanelBG:     mix(bg, fg, 0.06),
		SelectionBG: pickBackground(style, mix(bg, fg, 0.12), chroma.LineHighlight),
		Highlight:   autoHighlight(bg),
		Muted:       pickForeground(style, mix(fg, bg, 0.4), chroma.LineNumbers, chroma.Comment),
		Dim:         pickForeground(style, mix(comment, bg, 0.2), chroma.Comment),
		Header:      pickForeground(style, mix(fg, bg, 0.15), chroma.NameClass, chroma.Keyword),
		Accent:      pickForeground(style, fg, chroma.NameFunction, chroma.Keyword),
		Ident:       pickForeground(style, fg, chroma.NameFunction, chroma.Name),
		Type:        pickForeground(style, fg, chroma.KeywordType, chroma.NameClass),
		Number:      pickForeground(style, fg, chroma.LiteralNumber),
		Opcode:      pickForeground(style, fg, chroma.NameBuiltin, chroma.Keyword),
		Keyword:     pickForeground(style, fg, chroma.Keyword),
		String:      pickForeground(style, fg, chroma.LiteralString),
		Comment:     comment,
		Operator:    pickForeground(style, fg, chroma.Operator),
		Error:       pickForeground(style, "#BF616A", chroma.Error),
	}, nil
}

// Default is nord, or a built-in copy of it if chroma does not ship nord.
func Default() Palette {
	p, err := Load("nord")
	if err == nil {
		return p
	}
	return Palette{
		Name:        "fallback",
		Text:        "#D8DEE9",
		Background:  "#2E3440",
		PanelBG:     "#3B4252",
		SelectionBG: "#434C5E",
		Highlight:   "#5E5A36",
		Muted:       "#4C566A",
		Dim:         "#4C566A",
		Header:      "#8FBCBB",
		Accent:      "#88C0D0",
		Ident:       "#88C0D0",
		Type:        "#8FBCBB",
		Number:      "#B48EAD",
		Opcode:      "#81A1C1",
		Keyword:     "#81A1C1",
		String:      "#A3BE8C",
		Comment:     "#4C566A",
		Operator:    "#D8DEE9",
		Error:       "#BF616A",
	}
}

// IsHexColor accepts #RRGGBB.
func IsHexColor(s string) bool {
	_, ok := parseHex(s)
	return ok
}

func normalizeName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "solarized":
		return "solarized-dark"
	case "one-dark":
		return "onedark"
	default:
		return n
	}
}

func pickForeground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		if c := style.Get(tt).Colour; c.IsSet() {
			return c.String()
		}
	}
	return fallback
}

func pickBackground(style *chroma.Style, fallback string, types ...chroma.TokenType) string {
	for _, tt := range types {
		if c := style.Get(tt).Background; c.IsSet() {
			return c.String()
		}
	}
	return fallback
}

var suggested = []string{"nord", "dracula", "monokai", "github", "github-dark", "solarized-dark", "solarized-light", "gruvbox", "onedark"}

// suggestions picks well-known styles out of all, or the first few when none ship.
func suggestions(all []string) []string {
	out := slices.DeleteFunc(slices.Clone(suggested), func(n string) bool {
		return !slices.Contains(all, n)
	})
	if len(out) == 0 {
		return all[:min(8, len(all))]
	}
	return out
}

// autoHighlight is a muted yellow that stays readable on bg.
func autoHighlight(bg string) string {
	if isDark(bg) {
		return "#5E5A36"
	}
	return "#FFF3A3"
}

// isDark reports whether bg has a Lab lightness under one half. Colours that do not
// parse count as dark.
func isDark(bg string) bool {
	c, ok := parseHex(bg)
	if !ok {
		return true
	}
	l, _, _ := c.Lab()
	return l < 0.5
}

// mix blends from toward to by t in Lab space. from comes back unchanged when either
// colour is not #RRGGBB.
func mix(from string, to string, t float64) string {
	a, ok := parseHex(from)
	if !ok {
		return from
	}
	b, ok := parseHex(to)
	if !ok {
		return from
	}
	return strings.ToUpper(a.BlendLab(b, t).Clamped().Hex())
}

func parseHex(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) != len("#RRGGBB") {
		return colorful.Color{}, false
	}
	c, err := colorful.Hex(s)
	return c, err == nil
}
