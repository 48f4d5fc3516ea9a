// Package tokensview is a read-only view over lines of tokens. It maps character
// positions back to the items tokens refer to, highlights the word under the caret and,
// as a CodeView, keeps itself in sync with a domain function.
package tokensview

import (
	"sort"

	"codeview/internal/event"
	"codeview/internal/highlight"
	"codeview/internal/log"
	"codeview/internal/spanindex"
	"codeview/internal/token"
)

type State int

const (
	Empty State = iota
	Rendered
)

// TokensView positions are rune offsets into Text: token texts concatenated with a
// newline after every line.
type TokensView struct {
	state   State
	content token.Content
	text    []rune
	// rune offset of the first rune of every line
	lineStarts []int
	items      *spanindex.Index[token.Item]
	tokens     *spanindex.Index[token.Token]

	caret int
	hl    *highlight.WordHighlighter

	style Style
	color func(Style, token.Token) string

	width  int
	height int
	scroll int

	warnings event.Event[string]
}

func New(style Style) *TokensView {
	return &TokensView{
		hl:    highlight.New(),
		style: style,
		color: func(s Style, _ token.Token) string { return s.Default },
	}
}

func (v *TokensView) State() State {
	return v.state
}

// SetContent replaces the content and rebuilds everything derived from it. The caret
// keeps its offset when it still falls inside the new text, otherwise it goes back to 0.
func (v *TokensView) SetContent(content token.Content) {
	old := v.caret
	v.content = content
	v.rebuild()
	v.state = Rendered

	v.hl.SetText(v.text)
	if old < len(v.text) {
		v.caret = old
	} else {
		v.caret = 0
	}
	v.cursorMoved()
}

// Clear drops the content and returns to the Empty state.
func (v *TokensView) Clear() {
	v.content = nil
	v.rebuild()
	v.state = Empty
	v.hl.SetText(nil)
	v.caret = 0
	v.scroll = 0
	v.cursorMoved()
}

func (v *TokensView) rebuild() {
	n := 0
	for _, line := range v.content {
		n += len(line)
	}

	text := make([]rune, 0, n*4)
	lineStarts := make([]int, 0, len(v.content))
	items := spanindex.NewBuilder[token.Item](n)
	tokens := spanindex.NewBuilder[token.Token](n)

	for _, line := range v.content {
		lineStarts = append(lineStarts, len(text))
		for _, tok := range line {
			start := len(text)
			for _, r := range tok.Text() {
				text = append(text, r)
				if r == '\n' {
					lineStarts = append(lineStarts, len(text))
				}
			}
			end := len(text)
			tokens.Add(start, end, tok)
			if item, ok := tok.Item(); ok {
				items.Add(start, end, item)
			}
		}
		text = append(text, '\n')
	}

	v.text = text
	v.lineStarts = lineStarts
	v.items = items.Build()
	v.tokens = tokens.Build()
}

func (v *TokensView) Content() token.Content {
	return v.content
}

func (v *TokensView) Text() string {
	return string(v.text)
}

// Len is the length of Text in runes.
func (v *TokensView) Len() int {
	return len(v.text)
}

// Index exposes the item spans, mostly for tests and tooling.
func (v *TokensView) Index() *spanindex.Index[token.Item] {
	return v.items
}

// TokenAt returns the item referenced by the token covering pos.
func (v *TokensView) TokenAt(pos int) (token.Item, bool) {
	return v.items.Query(pos)
}

func (v *TokensView) CurrentToken() (token.Item, bool) {
	return v.TokenAt(v.caret)
}

func (v *TokensView) Caret() int {
	return v.caret
}

// SetCaret moves the caret, clamped to the text, and recomputes the active word.
func (v *TokensView) SetCaret(pos int) {
	v.caret = v.clampCaret(pos)
	v.cursorMoved()
}

func (v *TokensView) MoveCaret(delta int) {
	v.SetCaret(v.caret + delta)
}

// MoveLine moves the caret delta lines keeping the column where the line allows.
func (v *TokensView) MoveLine(delta int) {
	line, col := v.CaretLineCol()
	v.SetCaret(v.PositionAt(line+delta, col))
}

func (v *TokensView) LineStart() {
	line, _ := v.CaretLineCol()
	v.SetCaret(v.PositionAt(line, 0))
}

func (v *TokensView) LineEnd() {
	line, _ := v.CaretLineCol()
	v.SetCaret(v.lineEnd(line))
}

// NextToken moves the caret to the start of the next token that refers to an item.
func (v *TokensView) NextToken() bool {
	span, ok := v.items.After(v.caret)
	if !ok {
		return false
	}
	v.SetCaret(span.Start)
	return true
}

// PrevToken moves the caret to the start of the previous token that refers to an item.
func (v *TokensView) PrevToken() bool {
	from := v.caret
	if cur, ok := v.items.SpanAt(v.caret); ok {
		from = cur.Start
	}
	span, ok := v.items.Before(from)
	if !ok {
		return false
	}
	v.SetCaret(span.Start)
	return true
}

func (v *TokensView) LineCount() int {
	return len(v.lineStarts)
}

// CaretLineCol returns the zero-based line and column of the caret.
func (v *TokensView) CaretLineCol() (int, int) {
	return v.LineCol(v.caret)
}

func (v *TokensView) LineCol(pos int) (int, int) {
	if len(v.lineStarts) == 0 {
		return 0, 0
	}
	line := sort.Search(len(v.lineStarts), func(i int) bool {
		return v.lineStarts[i] > pos
	}) - 1
	line = max(line, 0)
	return line, pos - v.lineStarts[line]
}

// PositionAt converts a line and column into an offset, clamping both.
func (v *TokensView) PositionAt(line int, col int) int {
	if len(v.lineStarts) == 0 {
		return 0
	}
	line = min(max(line, 0), len(v.lineStarts)-1)
	start := v.lineStarts[line]
	return min(start+max(col, 0), v.lineEnd(line))
}

// lineEnd is the offset of the newline that terminates line.
func (v *TokensView) lineEnd(line int) int {
	if line+1 < len(v.lineStarts) {
		return v.lineStarts[line+1] - 1
	}
	return max(len(v.text)-1, 0)
}

// LineRunes returns line without its newline.
func (v *TokensView) LineRunes(line int) []rune {
	if line < 0 || line >= len(v.lineStarts) {
		return nil
	}
	return v.text[v.lineStarts[line]:v.lineEnd(line)]
}

// ActiveWord is the word under the caret, "" when there is none.
func (v *TokensView) ActiveWord() string {
	return v.hl.Word()
}

func (v *TokensView) Highlights() []highlight.Match {
	return v.hl.Matches()
}

func (v *TokensView) Style() Style {
	return v.style
}

// SetStyle applies new colours, e.g. after a theme change. The highlight colour is
// part of the style, so the next Render repaints matches with it.
func (v *TokensView) SetStyle(style Style) {
	v.style = style
	log.Debug(log.CatView, "style changed", "highlight", style.Highlight)
}

// Warnings fires user-facing messages such as a rejected rename.
func (v *TokensView) Warnings() *event.Event[string] {
	return &v.warnings
}

func (v *TokensView) clampCaret(pos int) int {
	if len(v.text) == 0 {
		return 0
	}
	return min(max(pos, 0), len(v.text)-1)
}

func (v *TokensView) cursorMoved() {
	v.hl.SetActiveWord(highlight.WordAt(v.text, v.caret))
	v.ensureVisible()

	if item, ok := v.CurrentToken(); ok {
		log.Debug(log.CatView, "token under caret", "item", item.Name(), "pos", v.caret)
	}
}
