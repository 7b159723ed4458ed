package interp

import (
	"fmt"
	"strings"
)

// Ref is a declaration whose right-hand side names another variable.
type Ref struct {
	Index      int    // token index of the declaration head
	Name       string // declared variable, without sigil
	Referenced string // variable on the right-hand side, without sigil
}

func (r Ref) String() string {
	return fmt.Sprintf("@%s -> @%s", r.Name, r.Referenced)
}

// UnresolvedError is returned when variable references never bottom out in a
// literal or an already known variable, including reference cycles.
type UnresolvedError struct {
	Refs []Ref // in discovery order
}

func (e *UnresolvedError) Error() string {
	parts := make([]string, len(e.Refs))
	for i, ref := range e.Refs {
		parts[i] = ref.String()
	}
	return "Unresolved variable references: " + strings.Join(parts, ", ")
}
