package analysis

import (
	"fmt"

	"codeview/internal/token"
)

func typ(name string) token.Token  { return token.New(name, token.Type, nil) }
func num(value string) token.Token { return token.New(value, token.Number, nil) }
func op(opcode string) token.Token { return token.New(opcode, token.Opcode, nil) }

func comment(text string) token.Token { return token.New(text, token.Comment, nil) }

// Demo builds the two-function sample analysis: func_a declares a local x and calls
// func_b, so renaming func_b refreshes func_a as well.
func Demo() *Analysis {
	a := New()

	fa, _ := a.AddFunction("func_a", Body{})
	fb, _ := a.AddFunction("func_b", Body{})
	x := fa.AddLocal("x")
	a.AddReference(fa, fb)

	fa.body = Body{
		Decompiled: func() token.Content {
			return token.Lines(
				[]any{typ("int"), " ", token.Ref(fa), "() {"},
				[]any{comment("    // this is a comment")},
				[]any{"    ", typ("int"), " ", token.Ref(x), " = ", token.Ref(fb), "(", num("123"), ");"},
				[]any{"}"},
			)
		},
		Disassembly: func() token.Content {
			return token.Lines(
				[]any{comment(";")},
				[]any{comment(fmt.Sprintf("; %s", fa.Name()))},
				[]any{comment(";")},
				[]any{token.Ref(fa), ":"},
				[]any{"0x00000000 ", op("ENTER"), "    ", num("0x10")},
				[]any{"0x00000001 ", op("CONST"), "    ", num("123")},
				[]any{"0x00000002 ", op("ARG"), "      ", num("8")},
				[]any{"0x00000003 ", op("LOCAL"), "    ", token.Ref(x)},
				[]any{"0x00000004 ", op("CONST"), "    ", token.Ref(fb), comment(" ; comment")},
				[]any{"0x00000005 ", op("CALL")},
				[]any{"0x00000006 ", op("STORE4")},
				[]any{"0x00000007 ", op("PUSH")},
				[]any{"0x00000008 ", op("LEAVE"), "    ", num("0x10")},
			)
		},
	}

	fb.body = Body{
		Decompiled: func() token.Content {
			return token.Lines(
				[]any{typ("void"), " ", token.Ref(fb), "() {"},
				[]any{"    return;"},
				[]any{"}"},
			)
		},
		Disassembly: func() token.Content {
			return token.Lines(
				[]any{comment(";")},
				[]any{comment(fmt.Sprintf("; %s", fb.Name()))},
				[]any{comment(";")},
				[]any{token.Ref(fb), ":"},
				[]any{"0x00000000 ", op("ENTER"), "    ", num("0x8")},
				[]any{"0x00000007 ", op("PUSH")},
				[]any{"0x00000008 ", op("LEAVE"), "    ", num("0x8")},
			)
		},
	}

	return a
}
