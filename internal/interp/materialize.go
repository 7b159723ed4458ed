package interp

import "github.com/specialistvlad/clausejson/internal/tape"

// Token is an owned token. Leaves address their text through Str, an index
// into the string table of the Materialized tape that holds them; Str is -1
// for tokens without payload.
type Token struct {
	Kind  tape.Kind
	Op    tape.Operator
	End   int
	Mixed bool
	Str   int
}

// Materialized is a token stream that owns all of its text. Identical
// strings share one table slot.
type Materialized struct {
	Strings []string
	Tokens  []Token
}

// Materialize copies the source tape into owned storage. Every overridden
// position becomes an unquoted scalar holding its interpolated value.
// Container pointers are copied unchanged.
func (t *Tape) Materialize() *Materialized {
	m := &Materialized{Tokens: make([]Token, 0, t.src.Len())}
	interned := make(map[string]int)
	intern := func(s string) int {
		if idx, ok := interned[s]; ok {
			return idx
		}
		idx := len(m.Strings)
		m.Strings = append(m.Strings, s)
		interned[s] = idx
		return idx
	}

	for i, tok := range t.src.Tokens {
		if v, ok := t.overrides[i]; ok {
			m.Tokens = append(m.Tokens, Token{Kind: tape.Unquoted, Str: intern(t.values[v])})
			continue
		}
		out := Token{Kind: tok.Kind, Op: tok.Op, End: tok.End, Mixed: tok.Mixed, Str: -1}
		if tok.Kind.IsLeaf() {
			out.Str = intern(t.encoding.Decode(tok.Data))
		}
		m.Tokens = append(m.Tokens, out)
	}
	return m
}

// Len returns the number of tokens.
func (m *Materialized) Len() int {
	return len(m.Tokens)
}

// Token returns the token at index i without its payload.
func (m *Materialized) Token(i int) tape.Token {
	tok := m.Tokens[i]
	return tape.Token{Kind: tok.Kind, Op: tok.Op, End: tok.End, Mixed: tok.Mixed}
}

// Text returns the text of the leaf at index i, or "" for other tokens.
func (m *Materialized) Text(i int) string {
	if s := m.Tokens[i].Str; s >= 0 {
		return m.Strings[s]
	}
	return ""
}
