package tape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u(s string) Token    { return Token{Kind: Unquoted, Data: []byte(s)} }
func q(s string) Token    { return Token{Kind: Quoted, Data: []byte(s)} }
func op(o Operator) Token { return Token{Kind: OperatorToken, Op: o} }
func end(open int) Token  { return Token{Kind: End, End: open} }

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Token
	}{
		{
			name:  "plain assignment has no operator token",
			input: `a=1 b="x"`,
			want:  []Token{u("a"), u("1"), u("b"), q("x")},
		},
		{
			name:  "comparison operators",
			input: "a > 5\nb <= 2\nc != 3\nd == 4\ne ?= 5\nf >= 6\ng < 7",
			want: []Token{
				u("a"), op(GreaterThan), u("5"),
				u("b"), op(LessThanEqual), u("2"),
				u("c"), op(NotEqual), u("3"),
				u("d"), op(Exact), u("4"),
				u("e"), op(Exists), u("5"),
				u("f"), op(GreaterThanEqual), u("6"),
				u("g"), op(LessThan), u("7"),
			},
		},
		{
			name:  "object",
			input: `obj = { x = 1 }`,
			want: []Token{
				u("obj"), {Kind: Object, End: 4}, u("x"), u("1"), end(1),
			},
		},
		{
			name:  "array",
			input: `list = { 1 2 }`,
			want: []Token{
				u("list"), {Kind: Array, End: 4}, u("1"), u("2"), end(1),
			},
		},
		{
			name:  "empty container is an array",
			input: `e = {}`,
			want:  []Token{u("e"), {Kind: Array, End: 2}, end(1)},
		},
		{
			name:  "nested arrays",
			input: `n = { { 1 } { } }`,
			want: []Token{
				u("n"), {Kind: Array, End: 7},
				{Kind: Array, End: 4}, u("1"), end(2),
				{Kind: Array, End: 6}, end(5),
				end(1),
			},
		},
		{
			name:  "header",
			input: `color = rgb { 1 2 3 }`,
			want: []Token{
				u("color"), {Kind: Header, Data: []byte("rgb")},
				{Kind: Array, End: 6}, u("1"), u("2"), u("3"), end(2),
			},
		},
		{
			name:  "array turning into object",
			input: `m = { 1 a = b }`,
			want: []Token{
				u("m"), {Kind: Array, End: 7, Mixed: true},
				u("1"), {Kind: MixedContainer}, u("a"), op(Equal), u("b"),
				end(1),
			},
		},
		{
			name:  "object turning into array",
			input: `m = { a = b 1 }`,
			want: []Token{
				u("m"), {Kind: Object, End: 6, Mixed: true},
				u("a"), u("b"), {Kind: MixedContainer}, u("1"),
				end(1),
			},
		},
		{
			name:  "parameter blocks",
			input: "[[x] a = 1 ]\n[[!y] ]",
			want: []Token{
				{Kind: Parameter, Data: []byte("x")}, {Kind: Object, End: 4}, u("a"), u("1"), end(1),
				{Kind: UndefinedParameter, Data: []byte("y")}, {Kind: Object, End: 7}, end(6),
			},
		},
		{
			name:  "interpolation expressions keep their spaces",
			input: `@x = @[ ( 333 / w ) + 0.001 ]`,
			want:  []Token{u("@x"), u("@[ ( 333 / w ) + 0.001 ]")},
		},
		{
			name:  "escaped quotes",
			input: `a = "say \"hi\""`,
			want:  []Token{u("a"), q(`say "hi"`)},
		},
		{
			name:  "comments and byte order mark",
			input: "\xEF\xBB\xBF# heading\na = 1 # trailing\n",
			want:  []Token{u("a"), u("1")},
		},
		{
			name:  "empty document",
			input: "  \n# nothing\n",
			want:  []Token{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tape, err := Parse([]byte(tc.input))
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, tape.Tokens); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_ContainerPointersMatch(t *testing.T) {
	tape, err := Parse([]byte(`a = { b = { c = { 1 2 } } d = rgb { 3 } } e = { x = 1 2 }`))
	require.NoError(t, err)

	for i, tok := range tape.Tokens {
		switch tok.Kind {
		case Array, Object:
			require.Less(t, tok.End, tape.Len())
			assert.Equal(t, End, tape.Tokens[tok.End].Kind, "token %d", i)
			assert.Equal(t, i, tape.Tokens[tok.End].End, "token %d", i)
		case End:
			assert.True(t, tape.Tokens[tok.End].Kind.IsContainer(), "token %d", i)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{name: "unterminated container", input: `a = { b = 1`, wantMsg: "unterminated container"},
		{name: "missing value", input: `a = `, wantMsg: "missing value"},
		{name: "lone root value", input: `a`, wantMsg: "expected operator after key"},
		{name: "unterminated quote", input: `a = "abc`, wantMsg: "unterminated quoted scalar"},
		{name: "stray closing brace", input: `}`, wantMsg: "unexpected closing brace"},
		{name: "mismatched closer", input: `a = { 1 ]`, wantMsg: "mismatched closing"},
		{name: "unterminated expression", input: "a = @[1+\n2]", wantMsg: "unterminated interpolation expression"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.input))
			require.Error(t, err)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Contains(t, syntaxErr.Msg, tc.wantMsg)
		})
	}
}
