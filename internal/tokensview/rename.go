package tokensview

import (
	"fmt"

	"codeview/internal/log"
	"codeview/internal/token"
)

// RenameError reports a rename the domain object refused.
type RenameError struct {
	Current   string
	Requested string
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("failed to rename %s to %q", e.Current, e.Requested)
}

// RenameTarget returns the item under the caret when it supports renaming.
func (v *TokensView) RenameTarget() (token.Renameable, bool) {
	item, ok := v.CurrentToken()
	if !ok {
		return nil, false
	}
	r, ok := item.(token.Renameable)
	return r, ok
}

// RequestRename renames the item under the caret and is a no-op when there is none.
// A refused rename fires Warnings and returns a *RenameError; the content is left
// untouched. A successful one refreshes views through the item's change events.
func (v *TokensView) RequestRename(newName string) error {
	target, ok := v.RenameTarget()
	if !ok {
		return nil
	}

	current := target.Name()
	if !target.Rename(newName) {
		log.Warn(log.CatRename, "rename rejected", "item", current, "name", newName)
		v.warnings.Fire(fmt.Sprintf("Failed to rename %s", current))
		return &RenameError{Current: current, Requested: newName}
	}

	log.Info(log.CatRename, "renamed", "from", current, "to", newName)
	return nil
}
