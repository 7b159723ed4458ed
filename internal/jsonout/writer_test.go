package jsonout

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/specialistvlad/clausejson/internal/tape"
)

func render(t *testing.T, input string, opts Options) string {
	t.Helper()
	raw, err := tape.Parse([]byte(input))
	require.NoError(t, err)
	out, err := Render(raw.WithEncoding(tape.UTF8), opts)
	require.NoError(t, err)
	return string(out)
}

func TestRender_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "booleans", input: `a = yes b = no c = "yes"`, want: `{"a":true,"b":false,"c":"yes"}`},
		{name: "numbers", input: `a = 1 b = -0.5 c = 0.50 d = 10000000000000000000000`, want: `{"a":1,"b":-0.5,"c":0.50,"d":10000000000000000000000}`},
		{name: "numbers that are not valid json are normalized", input: `a = +3 b = 1. c = .5 d = 007`, want: `{"a":3,"b":1,"c":0.5,"d":7}`},
		{name: "other scalars are strings", input: `a = 1444.11.11 b = 1e5 c = hello d = "1"`, want: `{"a":"1444.11.11","b":"1e5","c":"hello","d":"1"}`},
		{name: "escaping", input: "a = \"tab\there\" b = \"q\\\"uote\"", want: `{"a":"tab\there","b":"q\"uote"}`},
		{name: "empty document", input: ``, want: `{}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.input, Options{}))
		})
	}
}

func TestRender_Containers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "object", input: `a = { b = 1 c = { d = 2 } }`, want: `{"a":{"b":1,"c":{"d":2}}}`},
		{name: "array", input: `a = { 1 2 { 3 } }`, want: `{"a":[1,2,[3]]}`},
		{name: "empty container", input: `a = {}`, want: `{"a":[]}`},
		{name: "header", input: `color = rgb { 1 2 3 }`, want: `{"color":{"rgb":[1,2,3]}}`},
		{name: "array turning into object", input: `a = { 1 b = 2 c > 3 }`, want: `{"a":[1,{"b":2},{"c":{"GREATER_THAN":3}}]}`},
		{name: "object turning into array", input: `a = { b = 1 2 3 }`, want: `{"a":[{"b":1},2,3]}`},
		{name: "parameters", input: "[[x] a = 1 ]\n[[!y] b = 2 ]", want: `{"[[x]]":{"a":1},"[[!y]]":{"b":2}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, tc.input, Options{}))
		})
	}
}

func TestRender_Operators(t *testing.T) {
	got := render(t, "cond > 5\na < 1\nb >= 2\nc <= 3\nd != 4\ne == 6\nf ?= 7\ng = 8", Options{})
	assert.Equal(t,
		`{"cond":{"GREATER_THAN":5},"a":{"LESS_THAN":1},"b":{"GREATER_THAN_EQUAL":2},"c":{"LESS_THAN_EQUAL":3},"d":{"NOT_EQUAL":4},"e":{"EXACT":6},"f":{"EXISTS":7},"g":8}`,
		got,
	)
}

func TestRender_DuplicateKeyModes(t *testing.T) {
	input := `a="b" a=1 obj = { x = 1 x = 2 } list = { 1 2 }`

	tests := []struct {
		mode DuplicateKeyMode
		want string
	}{
		{Preserve, `{"a":"b","a":1,"obj":{"x":1,"x":2},"list":[1,2]}`},
		{Group, `{"a":["b",1],"obj":{"x":[1,2]},"list":[1,2]}`},
		{KeyValuePairs, `{"type":"obj","val":[["a","b"],["a",1],["obj",{"type":"obj","val":[["x",1],["x",2]]}],["list",{"type":"array","val":[1,2]}]]}`},
	}

	for _, tc := range tests {
		t.Run(tc.mode.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, render(t, input, Options{DuplicateKeys: tc.mode}))
		})
	}
}

func TestRender_GroupKeepsFirstSeenOrder(t *testing.T) {
	got := render(t, "b = 1\na = 2\nb = 3\nc > 4\nc = 5\n", Options{DuplicateKeys: Group})
	assert.Equal(t, `{"b":[1,3],"a":2,"c":[{"GREATER_THAN":4},5]}`, got)
}

func TestRender_Pretty(t *testing.T) {
	got := render(t, `a="b" a=1`, Options{Pretty: true})
	assert.Equal(t, "{\n  \"a\": \"b\",\n  \"a\": 1\n}", got)

	got = render(t, `list = { 1 2 } obj = { x = 1 }`, Options{Pretty: true})
	assert.Equal(t, "{\n  \"list\": [\n    1,\n    2\n  ],\n  \"obj\": {\n    \"x\": 1\n  }\n}", got)
	assert.True(t, gjson.Valid(got))
}

func TestWrite(t *testing.T) {
	raw, err := tape.Parse([]byte(`name = "Krak` + "\xf3" + `w"`))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, Write(buf, raw.WithEncoding(tape.Windows1252), Options{}))
	assert.Equal(t, "Kraków", gjson.Get(buf.String(), "name").String())
}

func TestParseDuplicateKeyMode(t *testing.T) {
	for _, name := range []string{"preserve", "group", "key-value-pairs"} {
		mode, err := ParseDuplicateKeyMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, mode.String())
	}

	_, err := ParseDuplicateKeyMode("merge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized duplicate key mode")
}
