// Package token defines the displayable unit of a code view: a piece of text with a
// category and an optional reference to the domain item it names.
package token

import "strings"

type Category int

const (
	None Category = iota
	Ident
	Number
	Opcode
	Type
	Keyword
	String
	Comment
	Operator
	Error
)

func (c Category) String() string {
	switch c {
	case Ident:
		return "ident"
	case Number:
		return "num"
	case Opcode:
		return "opcode"
	case Type:
		return "type"
	case Keyword:
		return "keyword"
	case String:
		return "string"
	case Comment:
		return "comment"
	case Operator:
		return "operator"
	case Error:
		return "error"
	default:
		return "none"
	}
}

// Item is an opaque handle to a domain object a token may refer to.
type Item interface {
	Name() string
}

// Renameable is implemented by items that can be renamed from a view.
// Rename reports false, without changing anything, when the name is rejected.
type Renameable interface {
	Item
	Rename(name string) bool
}

// Token is immutable once built.
type Token struct {
	text string
	cat  Category
	item Item
}

func New(text string, cat Category, item Item) Token {
	return Token{text: text, cat: cat, item: item}
}

func Plain(text string) Token {
	return Token{text: text}
}

// Ref is a token naming item, with the item's current name as text.
func Ref(item Item) Token {
	return Token{text: item.Name(), cat: Ident, item: item}
}

func (t Token) Text() string       { return t.text }
func (t Token) Category() Category { return t.cat }

// Item returns the referenced item, if any.
func (t Token) Item() (Item, bool) {
	return t.item, t.item != nil
}

type Line []Token

type Content []Line

// Text renders content the way a view lays it out: token texts concatenated and a
// newline after every line.
func (c Content) Text() string {
	var b strings.Builder
	for _, line := range c {
		for _, tok := range line {
			b.WriteString(tok.text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Lines converts a loose description into content: entries that are already tokens are
// kept, strings become plain tokens.
func Lines(code ...[]any) Content {
	out := make(Content, 0, len(code))
	for _, raw := range code {
		line := make(Line, 0, len(raw))
		for _, v := range raw {
			switch v := v.(type) {
			case Token:
				line = append(line, v)
			case string:
				line = append(line, Plain(v))
			}
		}
		out = append(out, line)
	}
	return out
}
