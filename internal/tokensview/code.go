package tokensview

import (
	"fmt"
	"strings"

	"codeview/internal/domain"
	"codeview/internal/event"
	"codeview/internal/log"
	"codeview/internal/token"
)

// Mode selects which rendition of a function a CodeView shows.
type Mode int

const (
	Decompiled Mode = iota
	Disassembly
)

func (m Mode) String() string {
	switch m {
	case Decompiled:
		return "decompiled"
	case Disassembly:
		return "disassembly"
	default:
		return "unknown"
	}
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "decompiled", "decompile":
		return Decompiled, nil
	case "disassembly", "disasm", "asm":
		return Disassembly, nil
	default:
		return Decompiled, fmt.Errorf("unknown mode %q", s)
	}
}

// CodeView shows one function and re-pulls its tokens whenever the function reports
// a code change. It holds at most one subscription at a time.
type CodeView struct {
	*TokensView

	analysis domain.Analysis
	fn       domain.Function
	sub      *event.Subscription
	mode     Mode
}

func NewCode(style Style) *CodeView {
	tv := New(style)
	tv.color = categoryColor
	return &CodeView{TokensView: tv}
}

func (v *CodeView) Function() domain.Function {
	return v.fn
}

func (v *CodeView) Analysis() domain.Analysis {
	return v.analysis
}

func (v *CodeView) Mode() Mode {
	return v.mode
}

// SetAnalysis binds a new analysis and shows its first function, or nothing.
func (v *CodeView) SetAnalysis(a domain.Analysis) {
	v.analysis = a
	if a == nil {
		v.SetFunction(nil)
		return
	}
	fns := a.Functions()
	if len(fns) == 0 {
		v.SetFunction(nil)
		return
	}
	v.SetFunction(fns[0])
}

// SetFunction rebinds the view. The previous function's subscription is dropped
// before the new one is taken, so a replaced function can no longer refresh the view.
func (v *CodeView) SetFunction(fn domain.Function) {
	v.unbind()
	v.fn = fn
	if fn == nil {
		v.Clear()
		return
	}

	v.sub = fn.CodeChanged().Watch(v.codeChanged)
	log.Debug(log.CatView, "function bound", "function", fn.Name(), "mode", v.mode)
	v.Refresh()
}

// SetMode switches renditions and reloads the current function.
func (v *CodeView) SetMode(m Mode) {
	if v.mode == m {
		return
	}
	v.mode = m
	v.Refresh()
}

// Refresh pulls the current function's tokens for the active mode.
func (v *CodeView) Refresh() {
	if v.fn == nil {
		v.Clear()
		return
	}
	switch v.mode {
	case Disassembly:
		v.SetContent(v.fn.DisassembledTokens())
	default:
		v.SetContent(v.fn.DecompiledTokens())
	}
}

// Close drops the subscription. The view keeps its last content.
func (v *CodeView) Close() {
	v.unbind()
}

func (v *CodeView) codeChanged(item token.Item) {
	log.Debug(log.CatEvent, "code changed", "function", item.Name())
	v.Refresh()
}

func (v *CodeView) unbind() {
	if v.fn != nil && v.sub != nil {
		v.fn.CodeChanged().Unwatch(v.sub)
	}
	v.sub = nil
}
