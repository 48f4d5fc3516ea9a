package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedItem string

func (n namedItem) Name() string { return string(n) }

func TestContentText(t *testing.T) {
	c := Lines(
		[]any{New("int", Type, nil), " ", Ref(namedItem("main")), "() {"},
		[]any{"}"},
	)

	assert.Equal(t, "int main() {\n}\n", c.Text())
}

func TestContentTextEmpty(t *testing.T) {
	assert.Equal(t, "", Content(nil).Text())
}

func TestRefUsesItemName(t *testing.T) {
	tok := Ref(namedItem("func_a"))

	assert.Equal(t, "func_a", tok.Text())
	assert.Equal(t, Ident, tok.Category())
	item, ok := tok.Item()
	require.True(t, ok)
	assert.Equal(t, "func_a", item.Name())
}

func TestPlainHasNoItem(t *testing.T) {
	_, ok := Plain(" ").Item()
	assert.False(t, ok)
	assert.Equal(t, None, Plain(" ").Category())
}

func TestLinesSkipsUnknownValues(t *testing.T) {
	c := Lines([]any{"a", 42, "b"})

	require.Len(t, c, 1)
	assert.Len(t, c[0], 2)
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "ident", Ident.String())
	assert.Equal(t, "opcode", Opcode.String())
	assert.Equal(t, "none", Category(99).String())
}
