package analysis

import (
	"codeview/internal/event"
	"codeview/internal/log"
	"codeview/internal/token"
)

// Body produces the tokenized views of a function on demand.
type Body struct {
	Decompiled  func() token.Content
	Disassembly func() token.Content
}

type Function struct {
	Item
	analysis    *Analysis
	locals      []*LocalVar
	body        Body
	codeChanged event.Event[token.Item]
}

func (f *Function) Analysis() *Analysis {
	return f.analysis
}

func (f *Function) CodeChanged() *event.Event[token.Item] {
	return &f.codeChanged
}

// SetBody replaces the content producers and notifies watchers.
func (f *Function) SetBody(body Body) {
	f.body = body
	f.Invalidate()
}

// Invalidate drops cached content and fires CodeChanged.
func (f *Function) Invalidate() {
	f.analysis.forget(f)
	log.Debug(log.CatEvent, "code changed", "function", f.name, "watchers", f.codeChanged.Len())
	f.codeChanged.Fire(f)
}

func (f *Function) DecompiledTokens() token.Content {
	return f.analysis.content(f, "decompiled", f.body.Decompiled)
}

func (f *Function) DisassembledTokens() token.Content {
	return f.analysis.content(f, "disassembly", f.body.Disassembly)
}

// AddLocal declares a local variable. Renaming it refreshes this function's code.
func (f *Function) AddLocal(name string) *LocalVar {
	if v, ok := f.Local(name); ok {
		return v
	}
	v := &LocalVar{fn: f}
	v.init(v, name, f.localTaken)
	v.NameChanged().Watch(func(token.Item) { f.Invalidate() })
	f.locals = append(f.locals, v)
	return v
}

func (f *Function) Local(name string) (*LocalVar, bool) {
	for _, v := range f.locals {
		if v.name == name {
			return v, true
		}
	}
	return nil, false
}

func (f *Function) Locals() []*LocalVar {
	return append([]*LocalVar(nil), f.locals...)
}

func (f *Function) localTaken(name string) bool {
	_, ok := f.Local(name)
	return ok
}
