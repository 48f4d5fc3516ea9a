// Package spanindex maps ordered, non-overlapping half-open character ranges to
// payloads and answers point queries by binary search.
package spanindex

import (
	"fmt"
	"sort"
)

type Span[T any] struct {
	Start int
	End   int
	Value T
}

func (s Span[T]) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// Builder accumulates spans in increasing order. Spans are expected to be produced by a
// single left-to-right walk over the text, so an out-of-order span is a programming
// error and Add panics.
type Builder[T any] struct {
	spans []Span[T]
}

func NewBuilder[T any](capacity int) *Builder[T] {
	return &Builder[T]{spans: make([]Span[T], 0, max(capacity, 0))}
}

func (b *Builder[T]) Add(start int, end int, value T) {
	if end < start {
		panic(fmt.Sprintf("spanindex: inverted span [%d,%d)", start, end))
	}
	if n := len(b.spans); n > 0 && start < b.spans[n-1].End {
		panic(fmt.Sprintf("spanindex: span [%d,%d) overlaps [%d,%d)", start, end, b.spans[n-1].Start, b.spans[n-1].End))
	}
	if end == start {
		return
	}
	b.spans = append(b.spans, Span[T]{Start: start, End: end, Value: value})
}

func (b *Builder[T]) Build() *Index[T] {
	ix := &Index[T]{spans: b.spans}
	b.spans = nil
	return ix
}

// Index is immutable; the zero value and nil are empty indexes.
type Index[T any] struct {
	spans []Span[T]
}

// Query returns the value of the span containing pos.
func (ix *Index[T]) Query(pos int) (T, bool) {
	var zero T
	if ix == nil || len(ix.spans) == 0 {
		return zero, false
	}

	// first span starting after pos; the candidate is the one before it
	i := sort.Search(len(ix.spans), func(i int) bool {
		return ix.spans[i].Start > pos
	})
	if i == 0 {
		return zero, false
	}
	span := ix.spans[i-1]
	if pos < span.End {
		return span.Value, true
	}
	return zero, false
}

// SpanAt is Query returning the whole span.
func (ix *Index[T]) SpanAt(pos int) (Span[T], bool) {
	if ix == nil || len(ix.spans) == 0 {
		return Span[T]{}, false
	}
	i := sort.Search(len(ix.spans), func(i int) bool {
		return ix.spans[i].Start > pos
	})
	if i == 0 || pos >= ix.spans[i-1].End {
		return Span[T]{}, false
	}
	return ix.spans[i-1], true
}

// After returns the first span starting strictly after pos.
func (ix *Index[T]) After(pos int) (Span[T], bool) {
	if ix == nil {
		return Span[T]{}, false
	}
	i := sort.Search(len(ix.spans), func(i int) bool {
		return ix.spans[i].Start > pos
	})
	if i >= len(ix.spans) {
		return Span[T]{}, false
	}
	return ix.spans[i], true
}

// Before returns the last span ending at or before pos.
func (ix *Index[T]) Before(pos int) (Span[T], bool) {
	if ix == nil {
		return Span[T]{}, false
	}
	i := sort.Search(len(ix.spans), func(i int) bool {
		return ix.spans[i].End > pos
	})
	if i == 0 {
		return Span[T]{}, false
	}
	return ix.spans[i-1], true
}

func (ix *Index[T]) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.spans)
}

func (ix *Index[T]) Spans() []Span[T] {
	if ix == nil {
		return nil
	}
	return append([]Span[T](nil), ix.spans...)
}
