package app

import "sync"

const consoleLimit = 500

// console keeps the latest log entries. Entries arrive from any goroutine that
// logs, the watcher included.
type console struct {
	mu    sync.Mutex
	lines []string
	limit int
}

func newConsole(limit int) *console {
	return &console{limit: max(limit, 1)}
}

func (c *console) append(entry string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, entry)
	if over := len(c.lines) - c.limit; over > 0 {
		c.lines = append(c.lines[:0:0], c.lines[over:]...)
	}
}

// tail returns up to n of the newest entries, oldest first.
func (c *console) tail(n int) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 {
		return nil
	}
	start := max(len(c.lines)-n, 0)
	return append([]string(nil), c.lines[start:]...)
}

func (c *console) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}
