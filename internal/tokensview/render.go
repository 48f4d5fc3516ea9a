package tokensview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"codeview/internal/token"
)

// SetSize sets the viewport used by Render and by caret scrolling.
func (v *TokensView) SetSize(width int, height int) {
	v.width = max(width, 0)
	v.height = max(height, 0)
	v.ensureVisible()
}

// Scroll is the index of the first visible line.
func (v *TokensView) Scroll() int {
	return v.scroll
}

// ScrollBy moves the viewport without moving the caret.
func (v *TokensView) ScrollBy(delta int) {
	v.scroll = clamp(v.scroll+delta, 0, max(len(v.lineStarts)-v.height, 0))
}

// PositionAtCell maps a cell of the viewport (e.g. a mouse click) to a text offset.
func (v *TokensView) PositionAtCell(x int, y int) int {
	line := v.scroll + max(y, 0)
	runes := v.LineRunes(min(line, max(len(v.lineStarts)-1, 0)))
	col, w := 0, 0
	for col < len(runes) {
		rw := runewidth.RuneWidth(runes[col])
		if w+rw > x {
			break
		}
		w += rw
		col++
	}
	return v.PositionAt(line, col)
}

func (v *TokensView) ensureVisible() {
	if v.height <= 0 {
		return
	}
	line, _ := v.CaretLineCol()
	if line < v.scroll {
		v.scroll = line
	}
	if line >= v.scroll+v.height {
		v.scroll = line - v.height + 1
	}
	v.scroll = clamp(v.scroll, 0, max(len(v.lineStarts)-v.height, 0))
}

// Render paints the visible lines. Highlighted word matches get the highlight
// background and the caret cell is reversed when showCaret is set.
func (v *TokensView) Render(showCaret bool) string {
	if v.height <= 0 || v.width <= 0 {
		return ""
	}

	lines := make([]string, 0, v.height)
	for i := v.scroll; i < len(v.lineStarts) && len(lines) < v.height; i++ {
		lines = append(lines, v.renderLine(i, showCaret))
	}
	for len(lines) < v.height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

type cellStyle struct {
	color       string
	highlighted bool
	caret       bool
}

func (v *TokensView) cellAt(pos int, showCaret bool) cellStyle {
	c := cellStyle{color: v.style.Default}
	if tok, ok := v.tokens.Query(pos); ok {
		c.color = v.color(v.style, tok)
	}
	c.highlighted = v.hl.Highlighted(pos)
	c.caret = showCaret && pos == v.caret
	return c
}

func (v *TokensView) renderLine(line int, showCaret bool) string {
	start := v.lineStarts[line]
	runes := v.LineRunes(line)

	// the caret may sit on the newline
	caretAtEnd := showCaret && v.caret == start+len(runes)

	var b strings.Builder
	width := 0
	for i := 0; i < len(runes); {
		cell := v.cellAt(start+i, showCaret)
		j := i
		w := width
		for j < len(runes) && v.cellAt(start+j, showCaret) == cell {
			rw := runewidth.RuneWidth(runes[j])
			if w+rw > v.width {
				break
			}
			w += rw
			j++
		}
		if j == i {
			break
		}
		b.WriteString(v.cellRenderStyle(cell).Render(string(runes[i:j])))
		width = w
		i = j
	}

	if caretAtEnd && width < v.width {
		b.WriteString(v.cellRenderStyle(cellStyle{color: v.style.Default, caret: true}).Render(" "))
	}
	return b.String()
}

func (v *TokensView) cellRenderStyle(cell cellStyle) lipgloss.Style {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(cell.color))
	if cell.highlighted && v.style.Highlight != "" {
		style = style.Background(lipgloss.Color(v.style.Highlight))
	}
	if cell.caret {
		style = style.Reverse(true)
	}
	return style
}

func categoryColor(s Style, tok token.Token) string {
	return s.CategoryColor(tok.Category())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
