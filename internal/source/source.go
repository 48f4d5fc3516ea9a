// Package source builds an analysis from a source file on disk. Go, C and C++ files are
// parsed with tree-sitter into functions with locals and call references; anything
// else is lexed with chroma into a single pseudo-function.
package source

import (
	"context"
	"errors"
	"fmt"

	"codeview/internal/analysis"
	"codeview/internal/domain"
	"codeview/internal/log"
	"codeview/internal/token"
)

// ErrUnsupported is returned for files no parser or lexer can handle.
var ErrUnsupported = errors.New("unsupported source file")

// File keeps functions stable across reloads: a function keeps its identity, and any
// rename, as long as its name in the file (with its receiver or scope) does not change.
type File struct {
	path     string
	lang     Lang
	analysis *analysis.Analysis
	// by funcDecl.key
	entries map[string]*entry
	// by name in the file
	byName map[string][]*entry
}

type entry struct {
	decl   funcDecl
	fn     *analysis.Function
	locals map[string]*analysis.LocalVar
}

func Load(ctx context.Context, path string) (*File, error) {
	f := &File{
		path:     path,
		lang:     DetectLang(path),
		analysis: analysis.New(),
		entries:  make(map[string]*entry),
	}
	if err := f.Reload(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) Path() string {
	return f.path
}

func (f *File) Lang() Lang {
	return f.lang
}

func (f *File) Analysis() *analysis.Analysis {
	return f.analysis
}

// Line reports the 1-based line of the file where fn starts.
func (f *File) Line(fn domain.Function) (int, bool) {
	for _, e := range f.entries {
		if domain.Function(e.fn) == fn {
			return e.decl.line, true
		}
	}
	return 0, false
}

// Reload re-reads the file and updates the analysis in place. Functions whose code
// may have changed fire CodeChanged.
func (f *File) Reload(ctx context.Context) error {
	text, err := readSource(f.path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", f.path, err)
	}

	decls, err := f.decls(ctx, text)
	if err != nil {
		return err
	}

	f.apply(decls)
	log.Info(log.CatSource, "analysed", "path", f.path, "lang", f.lang, "functions", len(decls))
	return nil
}

func (f *File) decls(ctx context.Context, text string) ([]funcDecl, error) {
	if f.lang != LangOther {
		decls, err := parseFunctions(ctx, f.lang, []byte(text))
		if err != nil {
			return nil, err
		}
		if len(decls) > 0 {
			return decls, nil
		}
		log.Debug(log.CatSource, "no functions found, lexing whole file", "path", f.path)
	}

	d, err := lexFile(f.path, text)
	if err != nil {
		return nil, err
	}
	return []funcDecl{d}, nil
}

func (f *File) apply(decls []funcDecl) {
	seen := make(map[string]bool, len(decls))
	var live []*entry

	for _, d := range decls {
		e, ok := f.entries[d.key]
		if !ok {
			fn, err := f.addFunction(d.display)
			if err != nil {
				log.Warn(log.CatSource, "skipping function", "key", d.key, "error", err)
				continue
			}
			e = &entry{fn: fn, locals: make(map[string]*analysis.LocalVar)}
			f.entries[d.key] = e
		}
		e.decl = d
		for _, name := range d.locals {
			if _, ok := e.locals[name]; !ok {
				e.locals[name] = e.fn.AddLocal(name)
			}
		}
		seen[d.key] = true
		live = append(live, e)
	}

	for key, e := range f.entries {
		if !seen[key] {
			log.Debug(log.CatSource, "function removed", "key", key)
			f.analysis.RemoveFunction(e.fn)
			delete(f.entries, key)
		}
	}

	f.byName = make(map[string][]*entry, len(live))
	for _, e := range live {
		f.byName[e.decl.name] = append(f.byName[e.decl.name], e)
	}

	f.analysis.ClearReferences()
	for _, e := range live {
		for _, callee := range e.decl.calls {
			if target, ok := f.function(e, callee); ok {
				f.analysis.AddReference(e.fn, target.fn)
			}
		}
	}

	for _, e := range live {
		e.fn.SetBody(f.body(e))
	}
}

// addFunction adds a function under name, or under name_2, name_3... when a function
// renamed earlier already holds it.
func (f *File) addFunction(name string) (*analysis.Function, error) {
	candidate := name
	for n := 2; ; n++ {
		if _, taken := f.analysis.Function(candidate); !taken {
			break
		}
		candidate = fmt.Sprintf("%s_%d", name, n)
	}
	if candidate != name {
		log.Debug(log.CatSource, "function name taken", "name", name, "using", candidate)
	}
	return f.analysis.AddFunction(candidate, analysis.Body{})
}

// function resolves a name used inside from. A function's own name resolves to itself;
// names shared by several functions resolve to none.
func (f *File) function(from *entry, name string) (*entry, bool) {
	if name == from.decl.name {
		return from, true
	}
	if candidates := f.byName[name]; len(candidates) == 1 {
		return candidates[0], true
	}
	return nil, false
}

func (f *File) body(e *entry) analysis.Body {
	return analysis.Body{
		Decompiled: func() token.Content {
			out := make(token.Content, 0, len(e.decl.lines))
			for _, line := range e.decl.lines {
				toks := make(token.Line, 0, len(line))
				for _, p := range line {
					toks = append(toks, f.resolve(e, p))
				}
				out = append(out, toks)
			}
			return out
		},
		Disassembly: func() token.Content {
			return f.listing(e)
		},
	}
}

func (f *File) resolve(e *entry, p piece) token.Token {
	switch p.kind {
	case refLocal:
		if v, ok := e.locals[p.ref]; ok {
			return token.Ref(v)
		}
	case refFunc:
		if target, ok := f.function(e, p.ref); ok {
			return token.Ref(target.fn)
		}
	}
	return token.New(p.text, p.cat, nil)
}

func (f *File) listing(e *entry) token.Content {
	name := e.fn.Name()
	out := token.Content{
		{token.New(";", token.Comment, nil)},
		{token.New("; "+name, token.Comment, nil)},
		{token.New(";", token.Comment, nil)},
		{token.Ref(e.fn), token.Plain(":")},
	}
	for _, st := range e.decl.listing {
		line := token.Line{
			token.Plain(fmt.Sprintf("0x%08x ", st.offset)),
			token.New(st.kind, token.Opcode, nil),
		}
		for _, p := range st.operands {
			line = append(line, token.Plain(" "), f.resolve(e, p))
		}
		out = append(out, line)
	}
	return out
}
