package interp

import "github.com/specialistvlad/clausejson/internal/tape"

// Filter returns a copy of m without the declarations named in decls. A
// declaration run is its key, an optional operator and the value, which
// extends through the closing token when it is a container. `==` and `?=`
// are rewritten to plain assignment. Container pointers are renumbered to
// the new positions.
func (m *Materialized) Filter(decls map[string]struct{}) *Materialized {
	out := &Materialized{
		Strings: m.Strings,
		Tokens:  make([]Token, 0, len(m.Tokens)),
	}
	remap := make(map[int]int, len(m.Tokens))

	for i := 0; i < len(m.Tokens); {
		if m.isDeclaration(i, decls) {
			i = m.skipRun(i)
			continue
		}
		tok := m.Tokens[i]
		if tok.Kind == tape.OperatorToken && (tok.Op == tape.Exact || tok.Op == tape.Exists) {
			tok.Op = tape.Equal
		}
		remap[i] = len(out.Tokens)
		out.Tokens = append(out.Tokens, tok)
		i++
	}

	for i := range out.Tokens {
		tok := &out.Tokens[i]
		if tok.Kind != tape.Array && tok.Kind != tape.Object && tok.Kind != tape.End {
			continue
		}
		if j, ok := remap[tok.End]; ok {
			tok.End = j
		}
	}
	return out
}

func (m *Materialized) isDeclaration(i int, decls map[string]struct{}) bool {
	tok := m.Tokens[i]
	if tok.Kind != tape.Unquoted {
		return false
	}
	_, ok := decls[m.Strings[tok.Str]]
	return ok
}

// skipRun returns the index after the declaration run starting at i.
func (m *Materialized) skipRun(i int) int {
	j := i + 1
	if j < len(m.Tokens) && m.Tokens[j].Kind == tape.OperatorToken {
		j++
	}
	if j >= len(m.Tokens) {
		return j
	}
	if m.Tokens[j].Kind == tape.Header && j+1 < len(m.Tokens) && m.Tokens[j+1].Kind.IsContainer() {
		j++
	}
	if m.Tokens[j].Kind.IsContainer() {
		return m.Tokens[j].End + 1
	}
	return j + 1
}
