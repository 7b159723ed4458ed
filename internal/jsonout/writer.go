// Package jsonout renders a token stream as JSON text.
//
// The root of a stream is an object. Unquoted scalars are typed on the way
// out: `yes` and `no` become booleans, plain decimal numbers become JSON
// numbers and everything else is a string. Quoted scalars are always strings.
package jsonout

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/specialistvlad/clausejson/internal/expr"
	"github.com/specialistvlad/clausejson/internal/tape"
)

// Source is a walkable token stream. Container tokens address their close
// token by index and Text returns the decoded payload of leaf tokens.
type Source interface {
	Len() int
	Token(i int) tape.Token
	Text(i int) string
}

var prettyOptions = &pretty.Options{Width: 0, Prefix: "", Indent: "  ", SortKeys: false}

// Render returns the JSON text of src.
func Render(src Source, opts Options) ([]byte, error) {
	e := &encoder{src: src, mode: opts.DuplicateKeys}
	if err := e.object(0, src.Len()); err != nil {
		return nil, err
	}
	if !opts.Pretty {
		return e.buf, nil
	}
	return Indent(e.buf), nil
}

// Indent pretty-prints JSON text with two-space indentation. Arrays are never
// packed onto one line and key order is kept.
func Indent(b []byte) []byte {
	return bytes.TrimSuffix(pretty.PrettyOptions(b, prettyOptions), []byte("\n"))
}

// Write renders src and writes the result to w.
func Write(w io.Writer, src Source, opts Options) error {
	out, err := Render(src, opts)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

type encoder struct {
	src  Source
	mode DuplicateKeyMode
	buf  []byte
}

// entry is one member of a container. Lone values have key -1.
type entry struct {
	key   int
	op    tape.Operator
	value int
}

func (e *encoder) errorf(i int, format string, args ...any) error {
	return fmt.Errorf("token %d: %s", i, fmt.Sprintf(format, args...))
}

// next returns the index after the value starting at i.
func (e *encoder) next(i int) int {
	tok := e.src.Token(i)
	if tok.Kind == tape.Header && i+1 < e.src.Len() && e.src.Token(i+1).Kind.IsContainer() {
		return e.next(i + 1)
	}
	if tok.Kind.IsContainer() {
		return tok.End + 1
	}
	return i + 1
}

// pairs collects the key/value members of an object spanning [start, end).
func (e *encoder) pairs(start, end int) ([]entry, error) {
	var out []entry
	for i := start; i < end; {
		key := e.src.Token(i)
		if !key.Kind.IsLeaf() {
			return nil, e.errorf(i, "expected key, found %s", key.Kind)
		}
		ent := entry{key: i, op: tape.Equal}
		j := i + 1
		if j < end && e.src.Token(j).Kind == tape.OperatorToken {
			ent.op = e.src.Token(j).Op
			j++
		}
		if j >= end {
			return nil, e.errorf(i, "key without value")
		}
		ent.value = j
		out = append(out, ent)
		i = e.next(j)
	}
	return out, nil
}

// members collects the entries of a mixed container spanning [start, end).
// Before the MixedContainer marker the container behaves as its kind says;
// after it a pair is recognized by its explicit operator.
func (e *encoder) members(start, end int, object bool) ([]entry, error) {
	var out []entry
	mixed := false
	for i := start; i < end; {
		tok := e.src.Token(i)
		if tok.Kind == tape.MixedContainer {
			mixed = true
			i++
			continue
		}
		switch {
		case tok.Kind == tape.Parameter || tok.Kind == tape.UndefinedParameter:
			if i+1 >= end {
				return nil, e.errorf(i, "parameter without body")
			}
			out = append(out, entry{key: i, op: tape.Equal, value: i + 1})
			i = e.next(i + 1)
		case mixed && i+1 < end && e.src.Token(i+1).Kind == tape.OperatorToken:
			if i+2 >= end {
				return nil, e.errorf(i, "key without value")
			}
			out = append(out, entry{key: i, op: e.src.Token(i + 1).Op, value: i + 2})
			i = e.next(i + 2)
		case !mixed && object:
			ent := entry{key: i, op: tape.Equal, value: i + 1}
			if i+1 < end && e.src.Token(i+1).Kind == tape.OperatorToken {
				ent.op = e.src.Token(i + 1).Op
				ent.value = i + 2
			}
			if ent.value >= end {
				return nil, e.errorf(i, "key without value")
			}
			out = append(out, ent)
			i = e.next(ent.value)
		default:
			out = append(out, entry{key: -1, value: i})
			i = e.next(i)
		}
	}
	return out, nil
}

func (e *encoder) keyText(i int) string {
	text := e.src.Text(i)
	switch e.src.Token(i).Kind {
	case tape.Parameter:
		return "[[" + text + "]]"
	case tape.UndefinedParameter:
		return "[[!" + text + "]]"
	}
	return text
}

func (e *encoder) string(s string) {
	e.buf = gjson.AppendJSONString(e.buf, s)
}

// object writes the members in [start, end) as an object.
func (e *encoder) object(start, end int) error {
	entries, err := e.pairs(start, end)
	if err != nil {
		return err
	}

	switch e.mode {
	case KeyValuePairs:
		e.buf = append(e.buf, `{"type":"obj","val":[`...)
		for n, ent := range entries {
			if n > 0 {
				e.buf = append(e.buf, ',')
			}
			e.buf = append(e.buf, '[')
			e.string(e.keyText(ent.key))
			e.buf = append(e.buf, ',')
			if err := e.operand(ent); err != nil {
				return err
			}
			e.buf = append(e.buf, ']')
		}
		e.buf = append(e.buf, "]}"...)
		return nil

	case Group:
		var order []string
		groups := make(map[string][]entry)
		for _, ent := range entries {
			k := e.keyText(ent.key)
			if _, seen := groups[k]; !seen {
				order = append(order, k)
			}
			groups[k] = append(groups[k], ent)
		}
		e.buf = append(e.buf, '{')
		for n, k := range order {
			if n > 0 {
				e.buf = append(e.buf, ',')
			}
			e.string(k)
			e.buf = append(e.buf, ':')
			group := groups[k]
			if len(group) == 1 {
				if err := e.operand(group[0]); err != nil {
					return err
				}
				continue
			}
			e.buf = append(e.buf, '[')
			for m, ent := range group {
				if m > 0 {
					e.buf = append(e.buf, ',')
				}
				if err := e.operand(ent); err != nil {
					return err
				}
			}
			e.buf = append(e.buf, ']')
		}
		e.buf = append(e.buf, '}')
		return nil
	}

	e.buf = append(e.buf, '{')
	for n, ent := range entries {
		if n > 0 {
			e.buf = append(e.buf, ',')
		}
		e.string(e.keyText(ent.key))
		e.buf = append(e.buf, ':')
		if err := e.operand(ent); err != nil {
			return err
		}
	}
	e.buf = append(e.buf, '}')
	return nil
}

// array writes the entries of a plain or mixed container as an array.
// Pairs of a mixed container become single-key objects.
func (e *encoder) array(entries []entry) error {
	if e.mode == KeyValuePairs {
		e.buf = append(e.buf, `{"type":"array","val":`...)
		defer func() { e.buf = append(e.buf, '}') }()
	}
	e.buf = append(e.buf, '[')
	for n, ent := range entries {
		if n > 0 {
			e.buf = append(e.buf, ',')
		}
		if ent.key < 0 {
			if err := e.value(ent.value); err != nil {
				return err
			}
			continue
		}
		e.buf = append(e.buf, '{')
		e.string(e.keyText(ent.key))
		e.buf = append(e.buf, ':')
		if err := e.operand(ent); err != nil {
			return err
		}
		e.buf = append(e.buf, '}')
	}
	e.buf = append(e.buf, ']')
	return nil
}

// operand writes the value of a pair, wrapped in its operator name unless
// the operator is plain assignment.
func (e *encoder) operand(ent entry) error {
	if ent.op == tape.Equal {
		return e.value(ent.value)
	}
	e.buf = append(e.buf, '{')
	e.string(ent.op.Name())
	e.buf = append(e.buf, ':')
	if err := e.value(ent.value); err != nil {
		return err
	}
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) value(i int) error {
	tok := e.src.Token(i)
	switch tok.Kind {
	case tape.Unquoted:
		e.scalar(e.src.Text(i))
	case tape.Quoted:
		e.string(e.src.Text(i))
	case tape.Header:
		if i+1 >= e.src.Len() || !e.src.Token(i+1).Kind.IsContainer() {
			e.string(e.src.Text(i))
			return nil
		}
		e.buf = append(e.buf, '{')
		e.string(e.src.Text(i))
		e.buf = append(e.buf, ':')
		if err := e.value(i + 1); err != nil {
			return err
		}
		e.buf = append(e.buf, '}')
	case tape.Object:
		if tok.Mixed {
			entries, err := e.members(i+1, tok.End, true)
			if err != nil {
				return err
			}
			return e.array(entries)
		}
		return e.object(i+1, tok.End)
	case tape.Array:
		entries, err := e.members(i+1, tok.End, false)
		if err != nil {
			return err
		}
		return e.array(entries)
	default:
		return e.errorf(i, "unexpected %s in value position", tok.Kind)
	}
	return nil
}

// scalar writes an unquoted scalar with its inferred JSON type.
func (e *encoder) scalar(text string) {
	switch text {
	case "yes":
		e.buf = append(e.buf, "true"...)
		return
	case "no":
		e.buf = append(e.buf, "false"...)
		return
	}
	if v, ok := expr.ParseNumber(text); ok {
		if gjson.Valid(text) {
			e.buf = append(e.buf, text...)
		} else {
			e.buf = append(e.buf, expr.FormatNumber(v)...)
		}
		return
	}
	e.string(text)
}
