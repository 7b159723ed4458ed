package interp

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/clausejson/internal/tape"
)

func TestMaterialize_InternsStrings(t *testing.T) {
	it := interpolate(t, "@v = 1\na = x\nb = x\nc = @v\nd = 1\n")
	m := it.Materialize()

	assert.Equal(t, []string{"@v", "1", "a", "x", "b", "c", "d"}, m.Strings)

	strs := make([]int, len(m.Tokens))
	for i, tok := range m.Tokens {
		strs[i] = tok.Str
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 3, 5, 1, 6, 1}, strs)
	assert.Equal(t, "1", m.Text(7))
	assert.Equal(t, tape.Unquoted, m.Token(7).Kind)
}

func TestMaterialize_ForcesOverridesUnquoted(t *testing.T) {
	it := interpolate(t, "x = @[2*3]\n")
	m := it.Materialize()

	require.Equal(t, 2, m.Len())
	assert.Equal(t, tape.Unquoted, m.Tokens[1].Kind)
	assert.Equal(t, "6", m.Text(1))
}

func TestFilter_RemapsContainerPointers(t *testing.T) {
	it := interpolate(t, "obj = { @w = 2 k = @w } z = { 1 }")
	got := it.Tokens()

	want := []Token{
		{Kind: tape.Unquoted, Str: 0},        // obj
		{Kind: tape.Object, End: 4, Str: -1}, // {
		{Kind: tape.Unquoted, Str: 3},        // k
		{Kind: tape.Unquoted, Str: 2},        // 2
		{Kind: tape.End, End: 1, Str: -1},    // }
		{Kind: tape.Unquoted, Str: 4},        // z
		{Kind: tape.Array, End: 8, Str: -1},  // {
		{Kind: tape.Unquoted, Str: 5},        // 1
		{Kind: tape.End, End: 6, Str: -1},    // }
	}
	if diff := cmp.Diff(want, got.Tokens); diff != "" {
		t.Errorf("filtered tokens mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"obj", "@w", "2", "k", "z", "1"}, got.Strings)
}

func TestFilter_NormalizesExactAndExists(t *testing.T) {
	it := interpolate(t, "a == 1\nb ?= 2\nc > 3\n")
	got := it.Tokens()

	var ops []tape.Operator
	for _, tok := range got.Tokens {
		if tok.Kind == tape.OperatorToken {
			ops = append(ops, tok.Op)
		}
	}
	assert.Equal(t, []tape.Operator{tape.Equal, tape.Equal, tape.GreaterThan}, ops)
}

func TestFilter_NestedContainersStayBalanced(t *testing.T) {
	it := interpolate(t, `
@a = 1
outer = {
	@b = 2
	inner = { @c = 3 list = { @a @b @c } }
	tail = rgb { @c }
}
@d = @[a+b]
last = @d
`)
	m := it.Tokens()

	for i, tok := range m.Tokens {
		switch tok.Kind {
		case tape.Array, tape.Object:
			require.Less(t, tok.End, m.Len(), "token %d", i)
			assert.Equal(t, tape.End, m.Tokens[tok.End].Kind, "token %d", i)
			assert.Equal(t, i, m.Tokens[tok.End].End, "token %d", i)
		case tape.Unquoted:
			_, declared := it.Declarations()[m.Text(i)]
			assert.False(t, declared, "declaration %q left at %d", m.Text(i), i)
		}
	}
}
