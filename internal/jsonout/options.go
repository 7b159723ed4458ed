package jsonout

import (
	"fmt"
	"strings"
)

// DuplicateKeyMode controls how repeated keys of one object are rendered.
type DuplicateKeyMode int

const (
	// Preserve writes every pair as it appears, repeating keys if needed.
	Preserve DuplicateKeyMode = iota
	// Group collects the values of a repeated key into an array placed where
	// the key was first seen.
	Group
	// KeyValuePairs writes objects as {"type":"obj","val":[[key,value],...]}
	// and arrays as {"type":"array","val":[...]}.
	KeyValuePairs
)

func (m DuplicateKeyMode) String() string {
	switch m {
	case Preserve:
		return "preserve"
	case Group:
		return "group"
	case KeyValuePairs:
		return "key-value-pairs"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseDuplicateKeyMode maps a mode name onto a DuplicateKeyMode.
func ParseDuplicateKeyMode(name string) (DuplicateKeyMode, error) {
	switch strings.ToLower(name) {
	case "preserve":
		return Preserve, nil
	case "group":
		return Group, nil
	case "key-value-pairs", "key_value_pairs":
		return KeyValuePairs, nil
	}
	return Preserve, fmt.Errorf("unrecognized duplicate key mode %q: must be 'preserve', 'group' or 'key-value-pairs'", name)
}

// Options configure a JSON rendering.
type Options struct {
	DuplicateKeys DuplicateKeyMode
	Pretty        bool
}
