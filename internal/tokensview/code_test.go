package tokensview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeview/internal/analysis"
)

const funcAText = "int func_a() {\n    // this is a comment\n    int x = func_b(123);\n}\n"

func demoView(t *testing.T) (*CodeView, *analysis.Function, *analysis.Function) {
	t.Helper()
	a := analysis.Demo()
	fa, ok := a.Function("func_a")
	require.True(t, ok)
	fb, ok := a.Function("func_b")
	require.True(t, ok)

	v := NewCode(testStyle())
	v.SetAnalysis(a)
	t.Cleanup(v.Close)
	return v, fa, fb
}

func TestCodeViewShowsFirstFunction(t *testing.T) {
	v, fa, fb := demoView(t)

	assert.Same(t, fa, v.Function())
	assert.Equal(t, funcAText, v.Text())

	item, ok := v.TokenAt(4)
	require.True(t, ok)
	assert.Same(t, fa, item)

	x, _ := fa.Local("x")
	item, ok = v.TokenAt(48)
	require.True(t, ok)
	assert.Same(t, x, item)

	item, ok = v.TokenAt(52)
	require.True(t, ok)
	assert.Same(t, fb, item)

	_, ok = v.TokenAt(0)
	assert.False(t, ok, "the return type is not an item")
}

func TestCodeViewHighlightsWordUnderCaret(t *testing.T) {
	v, _, _ := demoView(t)

	v.SetCaret(5)
	assert.Equal(t, "func_a", v.ActiveWord())
	hs := v.Highlights()
	require.Len(t, hs, 1)
	assert.Equal(t, 4, hs[0].Start)
	assert.Equal(t, 10, hs[0].End)

	v.SetCaret(45)
	assert.Equal(t, "int", v.ActiveWord())
	assert.Len(t, v.Highlights(), 2)
}

func TestCodeViewRenameRefreshes(t *testing.T) {
	v, fa, _ := demoView(t)

	v.SetCaret(5)
	require.NoError(t, v.RequestRename("newName"))

	assert.Equal(t, "newName", fa.Name())
	assert.True(t, strings.HasPrefix(v.Text(), "int newName() {\n"))
	assert.Equal(t, 5, v.Caret())
	assert.Equal(t, "newName", v.ActiveWord())
	item, ok := v.TokenAt(4)
	require.True(t, ok)
	assert.Same(t, fa, item)
}

func TestCodeViewRenameCalleeRefreshesCaller(t *testing.T) {
	v, _, fb := demoView(t)

	v.SetCaret(53)
	require.NoError(t, v.RequestRename("helper"))

	assert.Equal(t, "helper", fb.Name())
	assert.Contains(t, v.Text(), "int x = helper(123);")
}

func TestCodeViewRenameLocal(t *testing.T) {
	v, _, _ := demoView(t)

	v.SetCaret(48)
	require.NoError(t, v.RequestRename("count"))
	assert.Contains(t, v.Text(), "int count = func_b(123);")
}

func TestCodeViewRenameRejected(t *testing.T) {
	v, fa, _ := demoView(t)
	var warnings []string
	v.Warnings().Watch(func(msg string) { warnings = append(warnings, msg) })

	v.SetCaret(5)
	err := v.RequestRename("123bad")

	var re *RenameError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "func_a", re.Current)
	assert.Equal(t, "func_a", fa.Name())
	assert.Equal(t, funcAText, v.Text())
	assert.Equal(t, []string{"Failed to rename func_a"}, warnings)
}

func TestCodeViewRebindDropsOldSubscription(t *testing.T) {
	v, fa, fb := demoView(t)
	require.Equal(t, 1, fa.CodeChanged().Len())

	v.SetFunction(fb)
	assert.Equal(t, 0, fa.CodeChanged().Len())
	assert.Equal(t, 1, fb.CodeChanged().Len())

	shown := v.Text()
	require.True(t, fa.Rename("renamed"))
	assert.Equal(t, shown, v.Text(), "changes to the old function do not reach the view")
}

func TestCodeViewSetFunctionIsIdempotent(t *testing.T) {
	v, fa, _ := demoView(t)

	v.SetFunction(fa)
	v.SetFunction(fa)

	assert.Equal(t, 1, fa.CodeChanged().Len())
	assert.Equal(t, funcAText, v.Text())
}

func TestCodeViewSetFunctionNil(t *testing.T) {
	v, fa, _ := demoView(t)

	v.SetFunction(nil)

	assert.Nil(t, v.Function())
	assert.Equal(t, Empty, v.State())
	assert.Equal(t, "", v.Text())
	assert.Equal(t, 0, fa.CodeChanged().Len())
}

func TestCodeViewClose(t *testing.T) {
	v, fa, _ := demoView(t)

	v.Close()
	assert.Equal(t, 0, fa.CodeChanged().Len())
	assert.Equal(t, funcAText, v.Text(), "content survives close")
}

func TestCodeViewModes(t *testing.T) {
	v, fa, _ := demoView(t)
	require.Equal(t, Decompiled, v.Mode())

	v.SetMode(Disassembly)
	assert.Equal(t, Disassembly, v.Mode())
	assert.True(t, strings.HasPrefix(v.Text(), ";\n; func_a\n;\nfunc_a:\n"))

	require.True(t, fa.Rename("entry"))
	assert.True(t, strings.HasPrefix(v.Text(), ";\n; entry\n;\nentry:\n"))

	v.SetMode(Decompiled)
	assert.True(t, strings.HasPrefix(v.Text(), "int entry() {"))
}

func TestCodeViewEmptyAnalysis(t *testing.T) {
	v := NewCode(testStyle())
	v.SetAnalysis(analysis.New())

	assert.Nil(t, v.Function())
	assert.Equal(t, Empty, v.State())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Disassembly")
	require.NoError(t, err)
	assert.Equal(t, Disassembly, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Decompiled, m)

	_, err = ParseMode("hex")
	assert.Error(t, err)
}
