package source

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// readSource returns the file with CRLF line endings normalized to LF.
func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return "", fmt.Errorf("%s looks binary: %w", path, ErrUnsupported)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}
