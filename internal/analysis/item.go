package analysis

import (
	"unicode"

	"github.com/google/uuid"

	"codeview/internal/event"
	"codeview/internal/log"
	"codeview/internal/token"
)

// IsIdentifier reports whether name is a letter or underscore followed by letters,
// digits and underscores.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// Item is the renameable part shared by functions and locals. NameChanged fires with
// the embedding object, not with the Item itself.
type Item struct {
	id          uuid.UUID
	name        string
	owner       token.Item
	taken       func(name string) bool
	nameChanged event.Event[token.Item]
}

func (it *Item) init(owner token.Item, name string, taken func(string) bool) {
	it.id = uuid.New()
	it.name = name
	it.owner = owner
	it.taken = taken
}

func (it *Item) ID() uuid.UUID {
	return it.id
}

func (it *Item) Name() string {
	return it.name
}

func (it *Item) NameChanged() *event.Event[token.Item] {
	return &it.nameChanged
}

// Rename rejects names that are not identifiers or that collide with a sibling.
func (it *Item) Rename(name string) bool {
	if !IsIdentifier(name) {
		log.Debug(log.CatRename, "rejected: not an identifier", "item", it.name, "name", name)
		return false
	}
	if name == it.name {
		return true
	}
	if it.taken != nil && it.taken(name) {
		log.Debug(log.CatRename, "rejected: name in use", "item", it.name, "name", name)
		return false
	}

	old := it.name
	it.name = name
	log.Info(log.CatRename, "renamed", "id", it.id, "from", old, "to", name)
	it.nameChanged.Fire(it.owner)
	return true
}

// LocalVar is a variable owned by a function.
type LocalVar struct {
	Item
	fn *Function
}

func (v *LocalVar) Function() *Function {
	return v.fn
}
