// Package highlight finds every whole-word occurrence of the word under the caret.
package highlight

import (
	"sort"
	"unicode"

	"github.com/dlclark/regexp2"
)

// wordClass must agree with IsWordRune.
const wordClass = `[\p{L}\p{Nd}_]`

// IsWordRune classifies the runes that make up a word.
func IsWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// WordAt returns the run of word runes covering pos, or "" when pos is outside text or
// on a non-word rune.
func WordAt(text []rune, pos int) string {
	if pos < 0 || pos >= len(text) || !IsWordRune(text[pos]) {
		return ""
	}
	start := pos
	for start > 0 && IsWordRune(text[start-1]) {
		start--
	}
	end := pos + 1
	for end < len(text) && IsWordRune(text[end]) {
		end++
	}
	return string(text[start:end])
}

// Match is a half-open rune range.
type Match struct {
	Start int
	End   int
}

// WordHighlighter keeps the matches of the active word over the current text. Every
// change of text or word rescans the whole text, which is fine for the size of a
// single function listing.
type WordHighlighter struct {
	text    []rune
	word    string
	re      *regexp2.Regexp
	matches []Match
}

func New() *WordHighlighter {
	return &WordHighlighter{}
}

func (h *WordHighlighter) SetText(text []rune) {
	h.text = text
	h.rescan()
}

// SetActiveWord replaces the active word; "" clears highlighting.
func (h *WordHighlighter) SetActiveWord(word string) {
	if word == h.word && (word == "" || h.re != nil) {
		return
	}
	h.word = word
	h.re = nil
	if word != "" {
		pattern := `(?<!` + wordClass + `)` + regexp2.Escape(word) + `(?!` + wordClass + `)`
		h.re = regexp2.MustCompile(pattern, regexp2.None)
	}
	h.rescan()
}

func (h *WordHighlighter) Word() string {
	return h.word
}

func (h *WordHighlighter) Matches() []Match {
	return append([]Match(nil), h.matches...)
}

// Highlighted reports whether pos falls inside a match.
func (h *WordHighlighter) Highlighted(pos int) bool {
	i := sort.Search(len(h.matches), func(i int) bool {
		return h.matches[i].End > pos
	})
	return i < len(h.matches) && pos >= h.matches[i].Start
}

func (h *WordHighlighter) rescan() {
	h.matches = h.matches[:0]
	if h.re == nil || len(h.text) == 0 {
		return
	}

	m, err := h.re.FindRunesMatch(h.text)
	for err == nil && m != nil {
		h.matches = append(h.matches, Match{Start: m.Index, End: m.Index + m.Length})
		m, err = h.re.FindNextMatch(m)
	}
}
