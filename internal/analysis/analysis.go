// Package analysis is an in-memory domain model of functions and their locals. It
// satisfies domain.Analysis and propagates renames to every function whose code
// mentions the renamed item.
package analysis

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"codeview/internal/domain"
	"codeview/internal/event"
	"codeview/internal/log"
	"codeview/internal/token"
)

type Analysis struct {
	functions []*Function
	// callee -> callers, in insertion order
	callers map[*Function][]*Function
	cache   *gocache.Cache
	changed event.Event[*Analysis]
}

func New() *Analysis {
	return &Analysis{
		callers: make(map[*Function][]*Function),
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

// AddFunction declares a function. Names must be identifiers and unique.
func (a *Analysis) AddFunction(name string, body Body) (*Function, error) {
	if !IsIdentifier(name) {
		return nil, fmt.Errorf("function name %q is not an identifier", name)
	}
	if _, ok := a.Function(name); ok {
		return nil, fmt.Errorf("function %q already exists", name)
	}

	f := &Function{analysis: a, body: body}
	f.init(f, name, a.functionTaken)
	f.NameChanged().Watch(func(token.Item) { f.Invalidate() })
	f.NameChanged().Watch(func(token.Item) { a.invalidateCallers(f) })
	a.functions = append(a.functions, f)
	a.changed.Fire(a)
	return f, nil
}

// RemoveFunction drops f and its references. Views still bound to f keep it alive.
func (a *Analysis) RemoveFunction(f *Function) {
	for i, g := range a.functions {
		if g != f {
			continue
		}
		a.functions = append(a.functions[:i:i], a.functions[i+1:]...)
		delete(a.callers, f)
		for callee, callers := range a.callers {
			a.callers[callee] = without(callers, f)
		}
		a.forget(f)
		a.changed.Fire(a)
		return
	}
}

// AddReference records that from's code mentions to.
func (a *Analysis) AddReference(from *Function, to *Function) {
	for _, c := range a.callers[to] {
		if c == from {
			return
		}
	}
	a.callers[to] = append(a.callers[to], from)
}

func (a *Analysis) ClearReferences() {
	a.callers = make(map[*Function][]*Function)
}

// Callers returns the functions whose code mentions f.
func (a *Analysis) Callers(f *Function) []*Function {
	return append([]*Function(nil), a.callers[f]...)
}

func (a *Analysis) Function(name string) (*Function, bool) {
	for _, f := range a.functions {
		if f.name == name {
			return f, true
		}
	}
	return nil, false
}

func (a *Analysis) Functions() []domain.Function {
	out := make([]domain.Function, len(a.functions))
	for i, f := range a.functions {
		out[i] = f
	}
	return out
}

// Changed fires when functions are added or removed.
func (a *Analysis) Changed() *event.Event[*Analysis] {
	return &a.changed
}

func (a *Analysis) functionTaken(name string) bool {
	_, ok := a.Function(name)
	return ok
}

func (a *Analysis) invalidateCallers(f *Function) {
	for _, caller := range a.Callers(f) {
		if caller != f {
			caller.Invalidate()
		}
	}
}

func (a *Analysis) content(f *Function, kind string, produce func() token.Content) token.Content {
	if produce == nil {
		return nil
	}
	key := f.id.String() + ":" + kind
	if v, ok := a.cache.Get(key); ok {
		if c, ok := v.(token.Content); ok {
			return c
		}
		log.Error(log.CatCache, "wrong type in content cache", "key", key)
	}
	c := produce()
	a.cache.Set(key, c, gocache.NoExpiration)
	return c
}

func (a *Analysis) forget(f *Function) {
	a.cache.Delete(f.id.String() + ":decompiled")
	a.cache.Delete(f.id.String() + ":disassembly")
}

func without(list []*Function, f *Function) []*Function {
	out := list[:0:0]
	for _, g := range list {
		if g != f {
			out = append(out, g)
		}
	}
	return out
}
