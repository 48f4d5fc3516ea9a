package source

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	clang "github.com/smacker/go-tree-sitter/c"
	cpplang "github.com/smacker/go-tree-sitter/cpp"
	golang "github.com/smacker/go-tree-sitter/golang"
)

// Lang is the analysis route for a file: a tree-sitter grammar, or Other for the
// chroma lexer fallback.
type Lang string

const (
	LangGo    Lang = "go"
	LangC     Lang = "c"
	LangCpp   Lang = "cpp"
	LangOther Lang = "other"
)

var extMap = map[string]Lang{
	".go":  LangGo,
	".c":   LangC,
	".h":   LangC,
	".cc":  LangCpp,
	".cpp": LangCpp,
	".cxx": LangCpp,
	".hh":  LangCpp,
	".hpp": LangCpp,
}

var fileMap = map[string]Lang{
	"go.mod": LangOther,
}

func DetectLang(path string) Lang {
	base := filepath.Base(path)
	if l, ok := fileMap[base]; ok {
		return l
	}
	if l, ok := extMap[strings.ToLower(filepath.Ext(base))]; ok {
		return l
	}
	return LangOther
}

func (l Lang) grammar() *sitter.Language {
	switch l {
	case LangGo:
		return golang.GetLanguage()
	case LangC:
		return clang.GetLanguage()
	case LangCpp:
		return cpplang.GetLanguage()
	default:
		return nil
	}
}
