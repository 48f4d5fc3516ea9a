package source

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codeview/internal/analysis"
	"codeview/internal/token"
)

type refKind int

const (
	refNone refKind = iota
	refFunc
	refLocal
)

// piece is a token whose text is resolved when content is produced, so renamed
// functions and locals show their current names.
type piece struct {
	text string
	cat  token.Category
	kind refKind
	ref  string
}

type statement struct {
	offset   int
	kind     string
	operands []piece
}

// funcDecl is one function as found in the source. name is the name in the file and
// may repeat (methods, overloads); key is unique within the file and display is the
// identifier the function starts out with in the analysis.
type funcDecl struct {
	name    string
	key     string
	display string
	line    int
	locals  []string
	lines   [][]piece
	listing []statement
	calls   []string
}

const tabWidth = 4

// parseFunctions finds the top-level functions of src and splits each into lines of
// pieces and a statement listing.
func parseFunctions(ctx context.Context, lang Lang, src []byte) ([]funcDecl, error) {
	grammar := lang.grammar()
	if grammar == nil {
		return nil, fmt.Errorf("no grammar for %s: %w", lang, ErrUnsupported)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", lang, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, nil
	}

	type found struct {
		node  *sitter.Node
		scope string
		name  string
	}
	var fns []found
	names := make(map[string]int)
	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		scope, name := functionName(lang, node, src)
		if name == "" || !analysis.IsIdentifier(name) {
			continue
		}
		fns = append(fns, found{node: node, scope: scope, name: name})
		names[name]++
	}

	functions := make(map[string]bool, len(names))
	for name := range names {
		functions[name] = true
	}

	keys := make(map[string]bool, len(fns))
	displays := make(map[string]bool, len(fns))
	decls := make([]funcDecl, 0, len(fns))
	for _, fn := range fns {
		d := buildDecl(lang, fn.node, fn.name, src, functions)
		key := fn.name
		if fn.scope != "" {
			key = fn.scope + "." + fn.name
		}
		display := fn.name
		if names[fn.name] > 1 {
			display = identifierFrom(key)
		}
		d.key = unused(key, "#", keys)
		d.display = unused(display, "_", displays)
		decls = append(decls, d)
	}
	return decls, nil
}

// unused returns base, or base with the first free ordinal appended, and marks the
// result as used.
func unused(base string, sep string, used map[string]bool) string {
	name := base
	for n := 2; used[name]; n++ {
		name = fmt.Sprintf("%s%s%d", base, sep, n)
	}
	used[name] = true
	return name
}

// functionName returns the name of a top-level function and the type or namespace
// it belongs to, if any.
func functionName(lang Lang, node *sitter.Node, src []byte) (scope string, name string) {
	switch lang {
	case LangGo:
		if node.Type() != "function_declaration" && node.Type() != "method_declaration" {
			return "", ""
		}
		if n := node.ChildByFieldName("name"); n != nil {
			return receiverType(node, src), n.Content(src)
		}
	case LangC, LangCpp:
		if node.Type() != "function_definition" {
			return "", ""
		}
		return declaratorParts(node.ChildByFieldName("declarator"), src)
	}
	return "", ""
}

// receiverType is the base type name of a Go method receiver: T for (t *T) and
// (t T[K]).
func receiverType(node *sitter.Node, src []byte) string {
	recv := node.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	for i := 0; i < int(recv.NamedChildCount()); i++ {
		param := recv.NamedChild(i)
		if param.Type() != "parameter_declaration" {
			continue
		}
		t := param.ChildByFieldName("type")
		for t != nil {
			switch t.Type() {
			case "pointer_type", "parenthesized_type":
				t = t.NamedChild(0)
			case "generic_type":
				t = t.ChildByFieldName("type")
			default:
				return t.Content(src)
			}
		}
	}
	return ""
}

func declaratorName(node *sitter.Node, src []byte) string {
	_, name := declaratorParts(node, src)
	return name
}

// declaratorParts follows a C or C++ declarator chain down to its identifier. A
// qualified C++ name (ns::Type::method) yields ns::Type as scope.
func declaratorParts(node *sitter.Node, src []byte) (scope string, name string) {
	var scopes []string
	for node != nil {
		switch node.Type() {
		case "identifier":
			return strings.Join(scopes, "::"), node.Content(src)
		case "parenthesized_declarator", "reference_declarator":
			node = node.NamedChild(0)
		case "qualified_identifier":
			if s := node.ChildByFieldName("scope"); s != nil {
				scopes = append(scopes, s.Content(src))
			}
			node = node.ChildByFieldName("name")
		default:
			node = node.ChildByFieldName("declarator")
		}
	}
	return "", ""
}

func buildDecl(lang Lang, node *sitter.Node, name string, src []byte, functions map[string]bool) funcDecl {
	d := funcDecl{name: name, line: int(node.StartPoint().Row) + 1}

	seen := make(map[string]bool)
	collectLocals(lang, node, src, func(local string) {
		if local == "_" || seen[local] || !analysis.IsIdentifier(local) {
			return
		}
		seen[local] = true
		d.locals = append(d.locals, local)
	})

	calls := make(map[string]bool)
	resolve := func(nodeType string, text string) (refKind, string) {
		switch {
		case nodeType == "identifier" && seen[text]:
			return refLocal, text
		case (nodeType == "identifier" || nodeType == "field_identifier") && functions[text]:
			if text != name && !calls[text] {
				calls[text] = true
				d.calls = append(d.calls, text)
			}
			return refFunc, text
		}
		return refNone, ""
	}

	start, end := int(node.StartByte()), int(node.EndByte())
	var leaves []leaf
	collectLeaves(node, start, end, src, lang, "", "", &leaves)
	d.lines = splitLines(src, start, end, leaves, resolve)

	if body := node.ChildByFieldName("body"); body != nil {
		w := &listingWalker{src: src, base: start, resolve: resolve}
		w.operands(body, -1)
		d.listing = w.listing
	}
	return d
}

func splitLines(src []byte, start int, end int, leaves []leaf, resolve func(string, string) (refKind, string)) [][]piece {
	lines := [][]piece{nil}
	emit := func(p piece) {
		parts := strings.Split(strings.ReplaceAll(p.text, "\t", strings.Repeat(" ", tabWidth)), "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			q := p
			q.text = part
			lines[len(lines)-1] = append(lines[len(lines)-1], q)
		}
	}

	cursor := start
	for _, lf := range leaves {
		if lf.start > cursor {
			emit(piece{text: string(src[cursor:lf.start])})
		}
		text := string(src[lf.start:lf.end])
		p := piece{text: text, cat: lf.cat}
		if kind, ref := resolve(lf.nodeType, text); kind != refNone {
			p.kind, p.ref, p.cat = kind, ref, token.Ident
		}
		emit(p)
		cursor = lf.end
	}
	if cursor < end {
		emit(piece{text: string(src[cursor:end])})
	}
	return lines
}

func collectLocals(lang Lang, node *sitter.Node, src []byte, add func(string)) {
	if node == nil {
		return
	}

	switch lang {
	case LangGo:
		switch node.Type() {
		case "parameter_declaration", "variadic_parameter_declaration", "var_spec", "const_spec":
			identChildren(node, src, add)
		case "short_var_declaration", "range_clause":
			if left := node.ChildByFieldName("left"); left != nil {
				identChildren(left, src, add)
			}
		}
	case LangC, LangCpp:
		switch node.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "declaration":
			for i := 0; i < int(node.NamedChildCount()); i++ {
				child := node.NamedChild(i)
				switch child.Type() {
				case "identifier", "init_declarator", "pointer_declarator", "array_declarator", "reference_declarator":
					if name := declaratorName(child, src); name != "" {
						add(name)
					}
				}
			}
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectLocals(lang, node.NamedChild(i), src, add)
	}
}

func identChildren(node *sitter.Node, src []byte, add func(string)) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if child := node.NamedChild(i); child.Type() == "identifier" {
			add(child.Content(src))
		}
	}
}

// listingWalker flattens a function body into statements, each with the references
// and literals that appear directly in it.
type listingWalker struct {
	src     []byte
	base    int
	resolve func(string, string) (refKind, string)
	listing []statement
}

func isStatement(nodeType string) bool {
	switch nodeType {
	case "block", "compound_statement", "statement_list":
		return false
	}
	return strings.HasSuffix(nodeType, "_statement") || strings.HasSuffix(nodeType, "_declaration") || nodeType == "declaration"
}

func opcode(nodeType string) string {
	kind := strings.TrimSuffix(strings.TrimSuffix(nodeType, "_statement"), "_declaration")
	return strings.ToUpper(kind)
}

func (w *listingWalker) statement(node *sitter.Node) {
	idx := len(w.listing)
	w.listing = append(w.listing, statement{
		offset: int(node.StartByte()) - w.base,
		kind:   opcode(node.Type()),
	})
	w.operands(node, idx)
}

func (w *listingWalker) operands(node *sitter.Node, idx int) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch {
		case child.IsNamed() && isStatement(child.Type()):
			w.statement(child)
		case child.ChildCount() == 0:
			if idx < 0 {
				continue
			}
			if p, ok := w.operand(child); ok {
				w.listing[idx].operands = append(w.listing[idx].operands, p)
			}
		default:
			w.operands(child, idx)
		}
	}
}

func (w *listingWalker) operand(node *sitter.Node) (piece, bool) {
	text := node.Content(w.src)
	if kind, ref := w.resolve(node.Type(), text); kind != refNone {
		return piece{text: text, cat: token.Ident, kind: kind, ref: ref}, true
	}
	if isNumberNode(strings.ToLower(node.Type())) {
		return piece{text: text, cat: token.Number}, true
	}
	return piece{}, false
}
