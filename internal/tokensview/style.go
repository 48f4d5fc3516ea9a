package tokensview

import (
	"codeview/internal/theme"
	"codeview/internal/token"
)

// Style holds the colours a view paints with. Colours are lipgloss colour strings.
type Style struct {
	Default   string
	Highlight string
	Caret     string
	Ident     string
	Type      string
	Number    string
	Opcode    string
	Keyword   string
	String    string
	Comment   string
	Operator  string
	Error     string
}

func StyleFromPalette(p theme.Palette) Style {
	return Style{
		Default:   p.Text,
		Highlight: p.Highlight,
		Caret:     p.Accent,
		Ident:     p.Ident,
		Type:      p.Type,
		Number:    p.Number,
		Opcode:    p.Opcode,
		Keyword:   p.Keyword,
		String:    p.String,
		Comment:   p.Comment,
		Operator:  p.Operator,
		Error:     p.Error,
	}
}

// CategoryColor maps a token category to its colour, falling back to Default.
func (s Style) CategoryColor(cat token.Category) string {
	var c string
	switch cat {
	case token.Ident:
		c = s.Ident
	case token.Type:
		c = s.Type
	case token.Number:
		c = s.Number
	case token.Opcode:
		c = s.Opcode
	case token.Keyword:
		c = s.Keyword
	case token.String:
		c = s.String
	case token.Comment:
		c = s.Comment
	case token.Operator:
		c = s.Operator
	case token.Error:
		c = s.Error
	}
	if c == "" {
		return s.Default
	}
	return c
}
