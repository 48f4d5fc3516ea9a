package source

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"codeview/internal/token"
)

// lexFile tokenizes a whole file with chroma. The result is a single pseudo-function
// named after the file, with no item references besides itself.
func lexFile(path string, text string) (funcDecl, error) {
	lexer := lexers.Match(filepath.Base(path))
	if lexer == nil {
		lexer = lexers.Analyse(text)
	}
	if lexer == nil {
		return funcDecl{}, fmt.Errorf("no lexer for %s: %w", path, ErrUnsupported)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return funcDecl{}, fmt.Errorf("tokenising %s: %w", path, err)
	}

	name := fileFunctionName(path)
	d := funcDecl{name: name, key: name, display: name, line: 1}
	d.lines = [][]piece{nil}
	for _, tok := range it.Tokens() {
		cat := chromaCategory(tok.Type)
		parts := strings.Split(strings.ReplaceAll(tok.Value, "\t", strings.Repeat(" ", tabWidth)), "\n")
		for i, part := range parts {
			if i > 0 {
				d.lines = append(d.lines, nil)
			}
			if part != "" {
				d.lines[len(d.lines)-1] = append(d.lines[len(d.lines)-1], piece{text: part, cat: cat})
			}
		}
	}
	// chroma ends the stream with a newline
	if n := len(d.lines); n > 1 && len(d.lines[n-1]) == 0 {
		d.lines = d.lines[:n-1]
	}
	return d, nil
}

func chromaCategory(tt chroma.TokenType) token.Category {
	switch {
	case tt == chroma.Error:
		return token.Error
	case tt == chroma.KeywordType || tt == chroma.NameClass || tt == chroma.NameBuiltin:
		return token.Type
	case tt.InCategory(chroma.Keyword):
		return token.Keyword
	case tt.InSubCategory(chroma.LiteralString):
		return token.String
	case tt.InSubCategory(chroma.LiteralNumber):
		return token.Number
	case tt.InCategory(chroma.Comment):
		return token.Comment
	case tt.InCategory(chroma.Operator), tt.InCategory(chroma.Punctuation):
		return token.Operator
	case tt.InCategory(chroma.Name):
		return token.Ident
	default:
		return token.None
	}
}

// fileFunctionName turns a file name into an identifier: notes.txt → notes_txt.
func fileFunctionName(path string) string {
	return identifierFrom(filepath.Base(path))
}

// identifierFrom replaces each run of non-identifier runes in s with one underscore:
// ns::Type.method → ns_Type_method.
func identifierFrom(s string) string {
	var b strings.Builder
	sep := false
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			sep = false
		} else if !sep {
			b.WriteByte('_')
			sep = true
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "_" + name
	}
	return name
}
