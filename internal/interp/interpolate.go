// Package interp resolves `@name` variables and `@[...]` expressions in a
// tokenized script document and rewrites the token stream so that
// declarations disappear and every reference carries its computed value.
//
// The pipeline for one document is:
//
//	Interpolate   fixpoint variable resolution, then the override map
//	Materialize   owned tokens over a deduplicated string table
//	Filter        drop declaration runs, renumber container pointers
//	WriteJSON     hand the filtered stream to jsonout
//
// Everything is synchronous and scoped to a single call; no state survives
// between documents.
package interp

import (
	"context"
	"io"
	"maps"

	"github.com/specialistvlad/clausejson/internal/ctxlog"
	"github.com/specialistvlad/clausejson/internal/expr"
	"github.com/specialistvlad/clausejson/internal/jsonout"
	"github.com/specialistvlad/clausejson/internal/tape"
)

// Tape is a tokenized document with its variables resolved. It borrows the
// source tape until Materialize has been called.
type Tape struct {
	src      *tape.Tape
	encoding tape.Encoding

	vars      map[string]float64
	decls     map[string]struct{}
	values    []string    // interpolated values
	overrides map[int]int // token index -> index into values
}

// Interpolate resolves every variable declaration of t and computes the
// replacement value of every expression and variable reference. It fails
// without partial results if a reference cannot be resolved or an expression
// names an unknown operand.
func Interpolate(ctx context.Context, t *tape.Tape, enc tape.Encoding) (*Tape, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Interpolation started.", "tokens", t.Len(), "encoding", enc.String())

	r := newResolver(t, enc)
	if err := r.run(ctx); err != nil {
		return nil, err
	}
	logger.Debug("Variables resolved.", "count", len(r.vars), "passes", r.passes)

	it := &Tape{
		src:       t,
		encoding:  enc,
		vars:      r.vars,
		decls:     r.decls,
		overrides: make(map[int]int),
	}

	for i, tok := range t.Tokens {
		if tok.Kind != tape.Unquoted {
			continue
		}
		if _, ok := r.heads[i]; ok {
			continue
		}
		if _, ok := r.rhs[i]; ok {
			continue
		}
		text, err := r.text(i)
		if err != nil {
			return nil, err
		}

		switch {
		case isExpression(text):
			v, err := expr.Eval(text[2:len(text)-1], r.vars)
			if err != nil {
				return nil, err
			}
			it.override(i, v)
		case isVariable(text) && !r.keys[i]:
			// Keys are never references; a declared name used as a key is
			// dropped by Filter instead.
			if v, ok := r.vars[text[len(sigil):]]; ok {
				it.override(i, v)
			}
		}
	}

	logger.Debug("Interpolation finished.", "overrides", len(it.overrides), "declarations", len(it.decls))
	return it, nil
}

func (t *Tape) override(i int, v float64) {
	t.overrides[i] = len(t.values)
	t.values = append(t.values, expr.FormatNumber(v))
}

// Variables returns a copy of the resolved variable table, keyed by name
// without the sigil.
func (t *Tape) Variables() map[string]float64 {
	return maps.Clone(t.vars)
}

// Declarations returns the set of declared variable names, with the sigil.
func (t *Tape) Declarations() map[string]struct{} {
	return maps.Clone(t.decls)
}

// Tokens materializes the tape and removes all declarations from it.
func (t *Tape) Tokens() *Materialized {
	return t.Materialize().Filter(t.decls)
}

// WriteJSON renders the interpolated document as JSON.
func (t *Tape) WriteJSON(w io.Writer, opts jsonout.Options) error {
	return jsonout.Write(w, t.Tokens(), opts)
}
