package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 2
)

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	listW, codeW, bodyH, consoleH := m.layout()

	body := m.renderCode(codeW, bodyH)
	if listW > 0 {
		sep := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Dim)).Render(strings.TrimSuffix(strings.Repeat("│\n", bodyH), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.renderFunctions(listW, bodyH), sep, body)
	}

	parts := []string{m.renderHeader(), body}
	if consoleH > 0 {
		parts = append(parts, m.renderConsole(m.width, consoleH))
	}
	parts = append(parts, m.renderStatus(), m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Background)).Background(lipgloss.Color(m.palette.Accent)).Bold(true)
	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Header))

	src := "demo analysis"
	if m.file != nil {
		src = m.file.Path()
	}
	fn := "-"
	if f := m.code.Function(); f != nil {
		fn = f.Name()
	}

	title := titleStyle.Render(" codeview ")
	info := fmt.Sprintf(" %s  %s  [%s]", src, fn, m.code.Mode())
	return padRightANSI(title+infoStyle.Render(truncateText(info, m.width-lipgloss.Width(title))), m.width)
}

func (m *Model) renderFunctions(width int, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}

	if len(m.functions) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Muted))
		return padLines([]string{emptyStyle.Render(truncateText("no functions", width))}, width, height)
	}

	normal := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Text))
	bound := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Accent)).Bold(true)
	selected := lipgloss.NewStyle().Background(lipgloss.Color(m.palette.SelectionBG))

	cur := m.code.Function()
	lines := make([]string, 0, height)
	for i := m.offset; i < len(m.functions) && len(lines) < height; i++ {
		fn := m.functions[i]
		marker, style := "  ", normal
		if fn == cur {
			marker, style = "▸ ", bound
		}
		row := padRightANSI(truncateText(marker+fn.Name(), width), width)
		if i == m.cursor && m.focus == focusFunctions {
			row = selected.Inherit(style).Render(row)
		} else {
			row = style.Render(row)
		}
		lines = append(lines, row)
	}
	return padLines(lines, width, height)
}

func (m *Model) renderCode(width int, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if m.code.Function() == nil {
		emptyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Muted))
		return padLines([]string{emptyStyle.Render(truncateText("nothing to show", width))}, width, height)
	}
	return padLines(strings.Split(m.code.Render(m.focus == focusCode && !m.renaming), "\n"), width, height)
}

func (m *Model) renderConsole(width int, height int) string {
	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Header)).Bold(true)
	lineStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Muted))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Error))

	lines := []string{headerStyle.Render(truncateText("console", width))}
	for _, entry := range m.console.tail(height - 1) {
		style := lineStyle
		if strings.Contains(entry, "[WARN]") || strings.Contains(entry, "[ERROR]") {
			style = errStyle
		}
		lines = append(lines, style.Render(truncateText(entry, width)))
	}
	return padLines(lines, width, height)
}

func (m *Model) renderStatus() string {
	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Muted))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Error))

	line, col := m.code.CaretLineCol()
	pos := fmt.Sprintf("Ln %d, Col %d", line+1, col+1)
	if word := m.code.ActiveWord(); word != "" {
		pos += fmt.Sprintf("  %s x%d", word, len(m.code.Highlights()))
	}

	left := statusStyle.Render(m.status)
	if m.errMsg != "" {
		left = errStyle.Render(m.errMsg)
	}
	right := statusStyle.Render(pos)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return truncateText(left, m.width)
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderFooter() string {
	if m.renaming {
		return padRightANSI(m.input.View(), m.width)
	}

	footerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.palette.Muted))
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return footerStyle.Render(truncateText(strings.Join(parts, "  "), m.width))
}

// layout splits the screen: the function list on the left of the code view, the
// console under both.
func (m *Model) layout() (listWidth int, codeWidth int, bodyHeight int, consoleHeight int) {
	avail := max(m.height-headerHeight-footerHeight, 1)
	if m.showConsole && avail >= 12 {
		consoleHeight = min(8, avail/3)
	}
	bodyHeight = avail - consoleHeight

	if m.width >= 60 {
		listWidth = min(28, m.width/4)
	}
	codeWidth = max(m.width-m.codeX(listWidth), 0)
	return listWidth, codeWidth, bodyHeight, consoleHeight
}

// codeX is the first column of the code view.
func (m *Model) codeX(listWidth int) int {
	if listWidth > 0 {
		return listWidth + 1
	}
	return 0
}
