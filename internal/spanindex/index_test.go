package spanindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func build(spans ...[3]int) *Index[int] {
	b := NewBuilder[int](len(spans))
	for _, s := range spans {
		b.Add(s[0], s[1], s[2])
	}
	return b.Build()
}

func TestQuery(t *testing.T) {
	ix := build([3]int{0, 3, 1}, [3]int{4, 9, 2}, [3]int{9, 10, 3})

	tests := []struct {
		pos  int
		want int
		ok   bool
	}{
		{-1, 0, false},
		{0, 1, true},
		{2, 1, true},
		{3, 0, false},
		{4, 2, true},
		{8, 2, true},
		{9, 3, true},
		{10, 0, false},
		{100, 0, false},
	}
	for _, tt := range tests {
		got, ok := ix.Query(tt.pos)
		assert.Equal(t, tt.ok, ok, "pos %d", tt.pos)
		assert.Equal(t, tt.want, got, "pos %d", tt.pos)
	}
}

func TestQueryEmpty(t *testing.T) {
	var nilIndex *Index[int]
	for _, ix := range []*Index[int]{nilIndex, {}, NewBuilder[int](0).Build()} {
		_, ok := ix.Query(0)
		assert.False(t, ok)
		assert.Equal(t, 0, ix.Len())
	}
}

func TestBuilderSkipsEmptySpans(t *testing.T) {
	ix := build([3]int{0, 0, 1}, [3]int{0, 2, 2})

	require.Equal(t, 1, ix.Len())
	v, ok := ix.Query(0)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestBuilderPanicsOnOverlap(t *testing.T) {
	b := NewBuilder[int](2)
	b.Add(0, 5, 1)

	assert.Panics(t, func() { b.Add(4, 6, 2) })
	assert.Panics(t, func() { b.Add(8, 7, 2) })
}

func TestAfterBefore(t *testing.T) {
	ix := build([3]int{2, 4, 1}, [3]int{6, 8, 2})

	s, ok := ix.After(0)
	require.True(t, ok)
	assert.Equal(t, 1, s.Value)

	s, ok = ix.After(2)
	require.True(t, ok)
	assert.Equal(t, 2, s.Value)

	_, ok = ix.After(6)
	assert.False(t, ok)

	s, ok = ix.Before(7)
	require.True(t, ok)
	assert.Equal(t, 1, s.Value)

	_, ok = ix.Before(3)
	assert.False(t, ok)
}

func TestSpansReturnsCopy(t *testing.T) {
	ix := build([3]int{0, 1, 1})
	spans := ix.Spans()
	spans[0].Value = 42

	v, _ := ix.Query(0)
	assert.Equal(t, 1, v)
}

func TestQueryMatchesLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		gaps := rapid.SliceOfN(rapid.IntRange(0, 4), 0, 40).Draw(t, "gaps")
		lens := rapid.SliceOfN(rapid.IntRange(1, 6), len(gaps), len(gaps)).Draw(t, "lens")

		b := NewBuilder[int](len(gaps))
		offset := 0
		for i := range gaps {
			start := offset + gaps[i]
			end := start + lens[i]
			b.Add(start, end, i)
			offset = end
		}
		ix := b.Build()

		spans := ix.Spans()
		for i := 1; i < len(spans); i++ {
			if spans[i-1].End > spans[i].Start {
				t.Fatalf("spans %d and %d overlap: %+v %+v", i-1, i, spans[i-1], spans[i])
			}
		}

		pos := rapid.IntRange(-2, offset+2).Draw(t, "pos")
		want, wantOK := 0, false
		for _, s := range spans {
			if s.Contains(pos) {
				want, wantOK = s.Value, true
				break
			}
		}
		got, ok := ix.Query(pos)
		if ok != wantOK || got != want {
			t.Fatalf("Query(%d) = %d,%v want %d,%v", pos, got, ok, want, wantOK)
		}
	})
}
