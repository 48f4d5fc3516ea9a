// Package domain declares what an analysis engine must provide to drive a code view.
package domain

import (
	"codeview/internal/event"
	"codeview/internal/token"
)

// Function is a function-like domain object.
//
// CodeChanged fires with the function whenever its tokenized content is stale.
// NameChanged fires with the function after a successful Rename; implementations
// also fire CodeChanged on this function and on every function that references it.
// DecompiledTokens and DisassembledTokens reflect the state at call time and may be
// called any number of times.
type Function interface {
	token.Renameable
	NameChanged() *event.Event[token.Item]
	CodeChanged() *event.Event[token.Item]
	DecompiledTokens() token.Content
	DisassembledTokens() token.Content
}

type Analysis interface {
	Functions() []Function
}
