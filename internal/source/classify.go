package source

import (
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"

	"codeview/internal/token"
)

type leaf struct {
	start    int
	end      int
	cat      token.Category
	nodeType string
}

// collectLeaves appends the leaves of node that overlap [from, to), in source order.
func collectLeaves(node *sitter.Node, from int, to int, src []byte, lang Lang, parentType string, grandType string, out *[]leaf) {
	if node == nil {
		return
	}

	start := int(node.StartByte())
	end := int(node.EndByte())
	if end <= from || start >= to {
		return
	}

	if node.ChildCount() == 0 {
		start = max(start, from)
		end = min(end, to)
		if start >= end {
			return
		}
		*out = append(*out, leaf{
			start:    start,
			end:      end,
			cat:      classifyLeaf(lang, node, parentType, grandType, src[start:end]),
			nodeType: node.Type(),
		})
		return
	}

	nextParent := strings.ToLower(node.Type())
	for i := 0; i < int(node.ChildCount()); i++ {
		collectLeaves(node.Child(i), from, to, src, lang, nextParent, parentType, out)
	}
}

func classifyLeaf(lang Lang, node *sitter.Node, parentType string, grandType string, text []byte) token.Category {
	nodeType := strings.ToLower(node.Type())
	lexeme := strings.ToLower(strings.TrimSpace(string(text)))

	if nodeType == "error" || strings.Contains(nodeType, "invalid") {
		return token.Error
	}
	if strings.Contains(nodeType, "comment") {
		return token.Comment
	}
	if strings.Contains(nodeType, "string") || strings.Contains(nodeType, "char") || strings.HasPrefix(nodeType, "rune") || nodeType == `"` {
		return token.String
	}
	if isNumberNode(nodeType) {
		return token.Number
	}
	if lexeme == "true" || lexeme == "false" || lexeme == "null" || lexeme == "nil" || lexeme == "iota" {
		return token.Number
	}

	if strings.HasSuffix(nodeType, "keyword") {
		return token.Keyword
	}
	if strings.Contains(nodeType, "type_identifier") || strings.Contains(nodeType, "primitive_type") {
		return token.Type
	}

	if isIdentifierNode(nodeType) {
		if isTypeContext(lang, parentType, grandType) && nodeType != "identifier" {
			return token.Type
		}
		if isLikelyConstant(lexeme) {
			return token.Number
		}
		return token.Ident
	}

	if keywordSet[lexeme] {
		return token.Keyword
	}
	if operatorSet[lexeme] || (!node.IsNamed() && looksLikeOperator(lexeme)) {
		return token.Operator
	}
	return token.None
}

func isNumberNode(nodeType string) bool {
	for _, s := range []string{"number", "integer", "float", "numeric", "int_literal", "imaginary_literal"} {
		if strings.Contains(nodeType, s) {
			return true
		}
	}
	return false
}

func isIdentifierNode(nodeType string) bool {
	return nodeType == "identifier" || strings.HasSuffix(nodeType, "identifier")
}

func isTypeContext(lang Lang, parentType string, grandType string) bool {
	if strings.Contains(parentType, "type") || strings.Contains(grandType, "type") || strings.Contains(parentType, "struct") {
		return true
	}
	if set, ok := typeContextByLang[lang]; ok && (set[parentType] || set[grandType]) {
		return true
	}
	return false
}

// isLikelyConstant matches SCREAMING_CASE names.
func isLikelyConstant(s string) bool {
	if len(s) < 2 {
		return false
	}
	hasLetter := false
	for _, r := range s {
		switch {
		case r == '_' || unicode.IsDigit(r):
		case unicode.IsLetter(r):
			hasLetter = true
			if unicode.IsLower(r) {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

func looksLikeOperator(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch r {
		case '+', '-', '*', '/', '%', '=', '!', '<', '>', '&', '|', '^', '~', ':', ';', ',', '.', '?', '(', ')', '[', ']', '{', '}':
		default:
			return false
		}
	}
	return true
}

var typeContextByLang = map[Lang]map[string]bool{
	LangGo: {
		"type_spec":        true,
		"type_declaration": true,
	},
	LangC: {
		"struct_specifier": true,
		"enum_specifier":   true,
		"union_specifier":  true,
	},
	LangCpp: {
		"struct_specifier":       true,
		"class_specifier":        true,
		"enum_specifier":         true,
		"union_specifier":        true,
		"template_argument_list": true,
	},
}

var keywordSet = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "do": true, "else": true, "enum": true,
	"extern": true, "fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true, "map": true,
	"package": true, "range": true, "return": true, "select": true, "sizeof": true,
	"static": true, "struct": true, "switch": true, "type": true, "typedef": true,
	"union": true, "var": true, "volatile": true, "while": true,
	"auto": true, "class": true, "delete": true, "namespace": true, "new": true,
	"private": true, "protected": true, "public": true, "template": true,
	"this": true, "using": true, "virtual": true,
}

var operatorSet = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "==": true, "!=": true, "<": true, "<=": true,
	">": true, ">=": true, "&&": true, "||": true, "!": true,
	"&": true, "|": true, "^": true, "~": true, "->": true,
	":=": true, "<-": true, "++": true, "--": true, ":": true,
	";": true, ",": true, ".": true, "?": true, "(": true,
	")": true, "[": true, "]": true, "{": true, "}": true,
}
