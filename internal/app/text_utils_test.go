package app

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "", truncateText("abc", 0))
	assert.Equal(t, "abc", truncateText("abc", 3))
	assert.Equal(t, "a b", truncateText("a\nb", 10))
	assert.Equal(t, "ab", truncateText("abcdef", 2))
	assert.Equal(t, "abc...", truncateText("abcdefghij", 6))
	assert.LessOrEqual(t, lipgloss.Width(truncateText("漢字漢字漢字", 5)), 5)
}

func TestPadRightANSI(t *testing.T) {
	assert.Equal(t, "", padRightANSI("x", 0))
	assert.Equal(t, "ab  ", padRightANSI("ab", 4))
	assert.Equal(t, "abcdef", padRightANSI("abcdef", 3))
}

func TestPadLines(t *testing.T) {
	out := padLines([]string{"a", "bb", "ccc"}, 2, 2)
	assert.Equal(t, "a \nbb", out)

	out = padLines(nil, 3, 2)
	assert.Equal(t, strings.Repeat(" ", 3)+"\n"+strings.Repeat(" ", 3), out)

	assert.Equal(t, "", padLines([]string{"a"}, 3, 0))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-1, 0, 5))
	assert.Equal(t, 5, clamp(9, 0, 5))
	assert.Equal(t, 3, clamp(3, 0, 5))
}
