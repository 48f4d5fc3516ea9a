package app

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"codeview/internal/source"
	"codeview/internal/tokensview"
)

// location is a place in the analysed file an editor can jump to. Line and col are
// 1-based.
type location struct {
	path   string
	line   int
	col    int
	symbol string
}

func (l location) target() string {
	return fmt.Sprintf("%s:%d:%d", l.path, l.line, l.col)
}

// caretLocation maps the caret of code back into file. The decompiled rendition is the
// function's source, so its caret line counts from the line the function starts on.
// The disassembly has no source positions and points at the function itself.
func caretLocation(file *source.File, code *tokensview.CodeView) location {
	loc := location{path: file.Path(), line: 1, col: 1}
	if abs, err := filepath.Abs(loc.path); err == nil {
		loc.path = abs
	}

	fn := code.Function()
	if fn == nil {
		return loc
	}
	loc.symbol = fn.Name()
	start, ok := file.Line(fn)
	if !ok {
		return loc
	}
	loc.line = start
	if code.Mode() == tokensview.Decompiled {
		l, c := code.CaretLineCol()
		loc.line += l
		loc.col = c + 1
	}
	if item, ok := code.CurrentToken(); ok {
		loc.symbol = item.Name()
	}
	return loc
}

// command is a program and its arguments.
type command []string

// editorCommands lists the commands tried, in order, to open loc. A configured template
// is the only candidate; without one zed is tried, then the platform opener.
func editorCommands(template string, goos string, loc location) ([]command, error) {
	if strings.TrimSpace(template) != "" {
		cmd, err := expandEditorTemplate(template, loc)
		if err != nil {
			return nil, err
		}
		return []command{cmd}, nil
	}
	return append([]command{{"zed", loc.target()}}, platformOpeners(goos, loc.path)...), nil
}

// expandEditorTemplate splits template like a shell would and fills in {file}, {line},
// {col}, {target} and {symbol}.
func expandEditorTemplate(template string, loc location) (command, error) {
	parts, err := splitCommandLine(strings.TrimSpace(template))
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	repl := strings.NewReplacer(
		"{file}", loc.path,
		"{line}", strconv.Itoa(loc.line),
		"{col}", strconv.Itoa(loc.col),
		"{target}", loc.target(),
		"{symbol}", loc.symbol,
	)
	for i := range parts {
		parts[i] = repl.Replace(parts[i])
	}
	return parts, nil
}

// splitCommandLine splits on blanks outside quotes. Backslashes are literal so
// Windows paths survive.
func splitCommandLine(input string) ([]string, error) {
	var parts []string
	var current strings.Builder
	open := false
	var quote rune

	for _, r := range input {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote, open = r, true
		case strings.ContainsRune(" \t\r\n", r):
			if open {
				parts = append(parts, current.String())
				current.Reset()
				open = false
			}
		default:
			current.WriteRune(r)
			open = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("editor command has unclosed quote")
	}
	if open {
		parts = append(parts, current.String())
	}
	return parts, nil
}

func platformOpeners(goos string, path string) []command {
	switch goos {
	case "darwin":
		return []command{{"open", path}}
	case "linux":
		return []command{{"xdg-open", path}}
	case "windows":
		return []command{{"explorer.exe", path}, {"cmd", "/C", "start", "", path}}
	}
	return nil
}

func clipboardCommands(goos string) []command {
	switch goos {
	case "darwin":
		return []command{{"pbcopy"}}
	case "linux":
		return []command{{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}}
	case "windows":
		return []command{{"clip"}}
	}
	return nil
}

// launcher runs the first installed command of a candidate list.
type launcher struct {
	goos     string
	lookPath func(file string) (string, error)
	// exec starts cmd; with stdin it also waits for cmd to finish.
	exec func(cmd command, stdin io.Reader) error
}

func systemLauncher() launcher {
	return launcher{goos: runtime.GOOS, lookPath: exec.LookPath, exec: execCommand}
}

func execCommand(cmd command, stdin io.Reader) error {
	c := exec.Command(cmd[0], cmd[1:]...)
	if stdin == nil {
		return c.Start()
	}
	c.Stdin = stdin
	return c.Run()
}

// open starts an editor at loc and returns the command it ran.
func (l launcher) open(template string, loc location) (command, error) {
	candidates, err := editorCommands(template, l.goos, loc)
	if err != nil {
		return nil, err
	}
	cmd, err := l.first(candidates, "editor")
	if err != nil {
		return nil, err
	}
	return cmd, l.exec(cmd, nil)
}

// copy hands text to the platform clipboard utility.
func (l launcher) copy(text string) (command, error) {
	cmd, err := l.first(clipboardCommands(l.goos), "clipboard utility")
	if err != nil {
		return nil, err
	}
	return cmd, l.exec(cmd, strings.NewReader(text))
}

func (l launcher) first(candidates []command, what string) (command, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no %s for platform %s", what, l.goos)
	}
	var tried []string
	for _, cmd := range candidates {
		if len(cmd) == 0 {
			continue
		}
		if _, err := l.lookPath(cmd[0]); err == nil {
			return cmd, nil
		}
		tried = append(tried, cmd[0])
	}
	return nil, fmt.Errorf("no %s found (tried %s)", what, strings.Join(tried, ", "))
}
