// Package log provides structured logging for codeview.
// Entries go to a file (stdout belongs to the terminal UI) and are also fired on an
// event so the console panel can mirror them.
package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"codeview/internal/event"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warn and error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Category groups related log messages.
type Category string

const (
	CatView    Category = "view"    // view rendering, caret, hit-testing
	CatRename  Category = "rename"  // rename requests and validation
	CatEvent   Category = "event"   // domain change events
	CatConfig  Category = "config"  // configuration loading/saving
	CatSource  Category = "source"  // source file analysis
	CatWatcher Category = "watcher" // file watcher events
	CatUI      Category = "ui"      // host shell
	CatCache   Category = "cache"   // content cache
)

type Logger struct {
	mu       sync.Mutex
	closer   io.Closer
	writer   io.Writer
	enabled  bool
	minLevel Level
	entries  event.Event[string]
}

var (
	defaultLogger = &Logger{enabled: true, minLevel: LevelInfo}
)

// Init opens path through tea.LogToFile and enables logging.
// Returns a cleanup function to close the log file.
func Init(path string) (func(), error) {
	f, err := tea.LogToFile(path, "codeview")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	defaultLogger.mu.Lock()
	defaultLogger.closer = f
	defaultLogger.writer = f
	defaultLogger.enabled = true
	defaultLogger.mu.Unlock()

	return func() {
		defaultLogger.mu.Lock()
		defer defaultLogger.mu.Unlock()
		if defaultLogger.closer != nil {
			_ = defaultLogger.closer.Close()
			defaultLogger.closer = nil
			defaultLogger.writer = nil
		}
	}, nil
}

// SetOutput writes entries to w; nil keeps only subscribers.
func SetOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defaultLogger.writer = w
	defaultLogger.mu.Unlock()
}

// SetEnabled toggles logging on/off.
func SetEnabled(enabled bool) {
	defaultLogger.mu.Lock()
	defaultLogger.enabled = enabled
	defaultLogger.mu.Unlock()
}

// SetMinLevel sets the minimum log level.
func SetMinLevel(level Level) {
	defaultLogger.mu.Lock()
	defaultLogger.minLevel = level
	defaultLogger.mu.Unlock()
}

// Entries fires every written entry, without the trailing newline.
func Entries() *event.Event[string] {
	return &defaultLogger.entries
}

// Debug logs at debug level.
func Debug(cat Category, msg string, fields ...any) {
	log(LevelDebug, cat, msg, fields...)
}

// Info logs at info level.
func Info(cat Category, msg string, fields ...any) {
	log(LevelInfo, cat, msg, fields...)
}

// Warn logs at warning level.
func Warn(cat Category, msg string, fields ...any) {
	log(LevelWarn, cat, msg, fields...)
}

// Error logs at error level.
func Error(cat Category, msg string, fields ...any) {
	log(LevelError, cat, msg, fields...)
}

// ErrorErr logs an error with the error value.
func ErrorErr(cat Category, msg string, err error, fields ...any) {
	if err != nil {
		fields = append(fields, "error", err.Error())
	} else {
		fields = append(fields, "error", "<nil>")
	}
	log(LevelError, cat, msg, fields...)
}

func log(level Level, cat Category, msg string, fields ...any) {
	l := defaultLogger
	l.mu.Lock()
	if !l.enabled || level < l.minLevel {
		l.mu.Unlock()
		return
	}

	// Format: 2025-12-06T10:45:00 [WARN] [rename] message key=value key2=value2
	var b strings.Builder
	b.WriteString(time.Now().Format("2006-01-02T15:04:05"))
	fmt.Fprintf(&b, " [%s] [%s] %s", level, cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=<missing>", fields[len(fields)-1])
	}
	entry := b.String()

	if l.writer != nil {
		_, _ = io.WriteString(l.writer, entry+"\n")
	}
	l.mu.Unlock()

	// outside the lock: subscribers may log themselves
	l.entries.Fire(entry)
}

// Enabled reports whether a message at level would be written.
func Enabled(level Level) bool {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.enabled && level >= defaultLogger.minLevel
}

