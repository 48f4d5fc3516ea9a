// Package app is the terminal host of the code view: a function list, the code
// view itself, a console mirroring the log, and a rename prompt.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"codeview/internal/analysis"
	"codeview/internal/config"
	"codeview/internal/domain"
	"codeview/internal/event"
	"codeview/internal/log"
	"codeview/internal/source"
	"codeview/internal/theme"
	"codeview/internal/tokensview"
)

type focus int

const (
	focusCode focus = iota
	focusFunctions
)

// Options wires a Model. File and Changes are nil when browsing the demo analysis.
type Options struct {
	Config     config.Config
	ConfigPath string
	Analysis   *analysis.Analysis
	File       *source.File
	Changes    <-chan struct{}
}

type Model struct {
	cfg        config.Config
	configPath string
	keys       KeyMap
	palette    theme.Palette

	width  int
	height int

	analysis *analysis.Analysis
	file     *source.File
	changes  <-chan struct{}

	code      *tokensview.CodeView
	functions []domain.Function
	cursor    int
	offset    int
	focus     focus

	console     *console
	showConsole bool
	launcher    launcher

	logSub     *event.Subscription
	warnSub    *event.Subscription
	changedSub *event.Subscription

	renaming   bool
	renameFrom string
	input      textinput.Model

	status string
	errMsg string
}

// fileChangedMsg is posted when the watcher reports a change of the source file.
type fileChangedMsg struct{}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return fileChangedMsg{}
	}
}

func New(opts Options) (*Model, error) {
	palette, err := opts.Config.Palette()
	if err != nil {
		return nil, err
	}
	mode, err := tokensview.ParseMode(opts.Config.Mode)
	if err != nil {
		return nil, err
	}

	input := textinput.New()
	input.CharLimit = 128
	input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))

	m := &Model{
		cfg:         opts.Config,
		configPath:  opts.ConfigPath,
		keys:        DefaultKeyMap(),
		palette:     palette,
		analysis:    opts.Analysis,
		file:        opts.File,
		changes:     opts.Changes,
		console:     newConsole(consoleLimit),
		showConsole: true,
		launcher:    systemLauncher(),
		input:       input,
	}

	m.logSub = log.Entries().Watch(m.console.append)

	m.code = tokensview.NewCode(tokensview.StyleFromPalette(palette))
	m.code.SetMode(mode)
	m.warnSub = m.code.Warnings().Watch(func(msg string) { m.errMsg = msg })

	if m.analysis != nil {
		m.changedSub = m.analysis.Changed().Watch(func(*analysis.Analysis) { m.syncFunctions() })
		m.code.SetAnalysis(m.analysis)
	}
	m.syncFunctions()

	log.Info(log.CatUI, "started", "functions", len(m.functions), "mode", mode, "theme", palette.Name)
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// Close drops every subscription the model holds.
func (m *Model) Close() error {
	log.Entries().Unwatch(m.logSub)
	m.code.Warnings().Unwatch(m.warnSub)
	if m.analysis != nil && m.changedSub != nil {
		m.analysis.Changed().Unwatch(m.changedSub)
	}
	m.code.Close()
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case fileChangedMsg:
		m.reload()
		return m, waitForChange(m.changes)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.renaming {
			return m.updateRename(msg)
		}
		return m.handleKey(msg)
	}

	if m.renaming {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errMsg = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusCode {
			m.focus = focusFunctions
		} else {
			m.focus = focusCode
		}
		return m, nil
	case key.Matches(msg, m.keys.Console):
		m.showConsole = !m.showConsole
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Mode):
		m.toggleMode()
		return m, nil
	case key.Matches(msg, m.keys.Theme):
		m.cycleTheme()
		return m, nil
	case key.Matches(msg, m.keys.Rename):
		return m, m.startRename()
	case key.Matches(msg, m.keys.Yank):
		m.yank()
		return m, nil
	case key.Matches(msg, m.keys.Open):
		m.openInEditor()
		return m, nil
	}

	if m.focus == focusFunctions {
		m.handleListKey(msg)
	} else {
		m.handleCodeKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) {
	_, _, bodyH, _ := m.layout()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-bodyH)
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(bodyH)
	case key.Matches(msg, m.keys.Select):
		if m.cursor < len(m.functions) {
			m.bind(m.functions[m.cursor])
			m.focus = focusCode
		}
	}
}

func (m *Model) handleCodeKey(msg tea.KeyMsg) {
	_, _, bodyH, _ := m.layout()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.code.MoveLine(-1)
	case key.Matches(msg, m.keys.Down):
		m.code.MoveLine(1)
	case key.Matches(msg, m.keys.Left):
		m.code.MoveCaret(-1)
	case key.Matches(msg, m.keys.Right):
		m.code.MoveCaret(1)
	case key.Matches(msg, m.keys.LineStart):
		m.code.LineStart()
	case key.Matches(msg, m.keys.LineEnd):
		m.code.LineEnd()
	case key.Matches(msg, m.keys.PageUp):
		m.code.MoveLine(-max(bodyH, 1))
	case key.Matches(msg, m.keys.PageDown):
		m.code.MoveLine(max(bodyH, 1))
	case key.Matches(msg, m.keys.NextToken):
		m.code.NextToken()
	case key.Matches(msg, m.keys.PrevToken):
		m.code.PrevToken()
	case key.Matches(msg, m.keys.Select):
		m.follow()
	}
}

// follow binds the function referenced under the caret.
func (m *Model) follow() {
	item, ok := m.code.CurrentToken()
	if !ok {
		return
	}
	fn, ok := item.(domain.Function)
	if !ok || !slices.Contains(m.functions, fn) {
		return
	}
	m.bind(fn)
}

func (m *Model) bind(fn domain.Function) {
	if fn == m.code.Function() {
		return
	}
	m.code.SetFunction(fn)
	if i := slices.Index(m.functions, fn); i >= 0 {
		m.cursor = i
		m.ensureCursor()
	}
	m.status = "showing " + fn.Name()
}

func (m *Model) startRename() tea.Cmd {
	target, ok := m.code.RenameTarget()
	if !ok {
		m.status = "nothing to rename under the caret"
		return nil
	}
	m.renaming = true
	m.renameFrom = target.Name()
	m.input.Prompt = "rename " + m.renameFrom + " to: "
	m.input.SetValue(m.renameFrom)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) updateRename(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.endRename()
		m.status = "rename cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		name := strings.TrimSpace(m.input.Value())
		from := m.renameFrom
		m.endRename()
		m.errMsg = ""
		if err := m.code.RequestRename(name); err != nil {
			var renameErr *tokensview.RenameError
			if m.errMsg == "" && errors.As(err, &renameErr) {
				m.errMsg = renameErr.Error()
			}
			return m, nil
		}
		if name != from {
			m.status = fmt.Sprintf("renamed %s to %s", from, name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) endRename() {
	m.renaming = false
	m.renameFrom = ""
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) toggleMode() {
	next := tokensview.Disassembly
	if m.code.Mode() == tokensview.Disassembly {
		next = tokensview.Decompiled
	}
	m.code.SetMode(next)
	m.status = "mode " + next.String()
}

// cycleTheme switches to the next chroma style and remembers it in the config file.
func (m *Model) cycleTheme() {
	names := theme.Names()
	if len(names) == 0 {
		return
	}
	next := names[(slices.Index(names, m.palette.Name)+1)%len(names)]

	cfg := m.cfg
	cfg.Theme = next
	palette, err := cfg.Palette()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.cfg = cfg
	m.palette = palette
	m.code.SetStyle(tokensview.StyleFromPalette(palette))
	m.input.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Accent))
	m.status = "theme " + next

	if m.configPath == "" {
		return
	}
	if err := config.SaveTheme(m.configPath, next); err != nil {
		log.ErrorErr(log.CatConfig, "saving theme failed", err, "path", m.configPath)
		m.errMsg = "saving theme: " + err.Error()
	}
}

func (m *Model) yank() {
	name := m.code.ActiveWord()
	if item, ok := m.code.CurrentToken(); ok {
		name = item.Name()
	}
	if name == "" {
		m.status = "nothing to copy"
		return
	}
	if _, err := m.launcher.copy(name); err != nil {
		m.errMsg = "copy failed: " + err.Error()
		return
	}
	m.status = "copied " + name
}

func (m *Model) openInEditor() {
	if m.file == nil {
		m.status = "the demo analysis has no file to open"
		return
	}

	loc := caretLocation(m.file, m.code)
	cmd, err := m.launcher.open(m.cfg.Editor, loc)
	if err != nil {
		m.errMsg = "open failed: " + err.Error()
		return
	}
	log.Info(log.CatUI, "opened editor", "command", cmd[0], "target", loc.target())
	m.status = fmt.Sprintf("opened %s:%d in %s", filepath.Base(loc.path), loc.line, filepath.Base(cmd[0]))
}

func (m *Model) reload() {
	if m.file == nil {
		return
	}
	if err := m.file.Reload(context.Background()); err != nil {
		log.ErrorErr(log.CatSource, "reload failed", err, "path", m.file.Path())
		m.errMsg = "reload failed: " + err.Error()
		return
	}
	m.status = "reloaded " + filepath.Base(m.file.Path())
}

// syncFunctions refreshes the list and rebinds the view when its function is gone.
func (m *Model) syncFunctions() {
	if m.analysis == nil {
		m.functions = nil
	} else {
		m.functions = m.analysis.Functions()
	}

	cur := m.code.Function()
	if cur == nil || !slices.Contains(m.functions, cur) {
		if len(m.functions) > 0 {
			m.code.SetFunction(m.functions[0])
		} else if cur != nil {
			m.code.SetFunction(nil)
		}
	}
	if i := slices.Index(m.functions, m.code.Function()); i >= 0 {
		m.cursor = i
	}
	m.ensureCursor()
}

func (m *Model) moveCursor(delta int) {
	if len(m.functions) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = clamp(m.cursor+delta, 0, len(m.functions)-1)
	m.ensureCursor()
}

func (m *Model) ensureCursor() {
	if len(m.functions) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	m.cursor = clamp(m.cursor, 0, len(m.functions)-1)

	_, _, page, _ := m.layout()
	page = max(page, 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	m.offset = clamp(m.offset, 0, max(0, len(m.functions)-page))
}

func (m *Model) resize() {
	_, codeW, bodyH, _ := m.layout()
	m.code.SetSize(codeW, bodyH)
	m.input.Width = max(16, m.width-len(m.input.Prompt)-2)
	m.ensureCursor()
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	listW, codeW, bodyH, _ := m.layout()
	codeX := m.codeX(listW)

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.code.ScrollBy(-3)
		return
	case tea.MouseButtonWheelDown:
		m.code.ScrollBy(3)
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	y := msg.Y - headerHeight
	if y < 0 || y >= bodyH {
		return
	}
	switch {
	case msg.X >= codeX && msg.X < codeX+codeW:
		m.focus = focusCode
		m.code.SetCaret(m.code.PositionAtCell(msg.X-codeX, y))
	case msg.X < listW:
		row := m.offset + y
		if row < len(m.functions) {
			m.focus = focusFunctions
			m.cursor = row
			m.bind(m.functions[row])
		}
	}
}
