package interp

import (
	"context"
	"errors"
	"strings"

	"github.com/edwingeng/deque"
	"github.com/specialistvlad/clausejson/internal/ctxlog"
	"github.com/specialistvlad/clausejson/internal/expr"
	"github.com/specialistvlad/clausejson/internal/tape"
)

const sigil = "@"

// isExpression reports whether text is an `@[...]` interpolation expression.
func isExpression(text string) bool {
	return strings.HasPrefix(text, "@[") && strings.HasSuffix(text, "]")
}

// isVariable reports whether text names a variable rather than opening an expression.
func isVariable(text string) bool {
	return strings.HasPrefix(text, sigil) && !strings.HasPrefix(text, "@[")
}

// resolver collects variable declarations from a tape. It re-scans the whole
// tape until a pass binds nothing new, so declarations may appear in any
// order relative to the variables they use.
type resolver struct {
	tokens []tape.Token
	enc    tape.Encoding
	keys   []bool

	vars  map[string]float64
	decls map[string]struct{} // declared names, with sigil
	bound map[string]int      // name -> index of the head that bound it
	heads map[int]struct{}    // declaration heads, never interpolated
	rhs   map[int]struct{}    // values of declaration heads

	pending  deque.Deque // Ref, waiting for the referenced variable
	queued   map[int]struct{}
	deferred map[int]error // expressions that failed on a not yet known operand
	passes   int
}

func newResolver(t *tape.Tape, enc tape.Encoding) *resolver {
	return &resolver{
		tokens:   t.Tokens,
		enc:      enc,
		keys:     keyPositions(t.Tokens),
		vars:     make(map[string]float64),
		decls:    make(map[string]struct{}),
		bound:    make(map[string]int),
		heads:    make(map[int]struct{}),
		rhs:      make(map[int]struct{}),
		pending:  deque.NewDeque(),
		queued:   make(map[int]struct{}),
		deferred: make(map[int]error),
	}
}

// text decodes the unquoted scalar at i. Variable syntax is decoded strictly
// so malformed bytes surface as an error instead of a silent mismatch.
func (r *resolver) text(i int) (string, error) {
	data := r.tokens[i].Data
	if len(data) > 0 && data[0] == '@' {
		return r.enc.DecodeStrict(data)
	}
	return r.enc.Decode(data), nil
}

// valueIndex returns the index of the value belonging to the declaration
// head at i. Inside mixed containers an explicit `=` sits in between.
func (r *resolver) valueIndex(i int) (int, bool) {
	j := i + 1
	if j < len(r.tokens) && r.tokens[j].Kind == tape.OperatorToken && r.tokens[j].Op == tape.Equal {
		j++
	}
	if j >= len(r.tokens) || r.tokens[j].Kind != tape.Unquoted {
		return 0, false
	}
	return j, true
}

func (r *resolver) bind(head, value int, name string, v float64) {
	r.vars[name] = v
	r.decls[sigil+name] = struct{}{}
	r.bound[name] = head
	r.heads[head] = struct{}{}
	r.rhs[value] = struct{}{}
	delete(r.deferred, head)
}

// run executes the fixpoint loop.
func (r *resolver) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for progress := true; progress; {
		r.passes++
		grew, err := r.scan()
		if err != nil {
			return err
		}
		retried := r.retryPending()
		progress = grew || retried
		logger.Debug("Variable resolution pass finished.", "pass", r.passes, "variables", len(r.vars), "pending", r.pending.Len())
	}

	if !r.pending.Empty() {
		unresolved := &UnresolvedError{}
		for !r.pending.Empty() {
			unresolved.Refs = append(unresolved.Refs, r.pending.PopFront().(Ref))
		}
		return unresolved
	}
	for i := range r.tokens {
		if err, ok := r.deferred[i]; ok {
			return err
		}
	}
	return nil
}

// scan walks the tape once and binds every declaration it can. It reports
// whether any new variable was bound.
func (r *resolver) scan() (bool, error) {
	progress := false
	for i, tok := range r.tokens {
		if tok.Kind != tape.Unquoted || !r.keys[i] {
			continue
		}
		if _, ok := r.heads[i]; ok {
			continue
		}
		text, err := r.text(i)
		if err != nil {
			return false, err
		}
		if !isVariable(text) {
			continue
		}
		name := text[len(sigil):]

		j, ok := r.valueIndex(i)
		if !ok {
			continue
		}

		if _, known := r.vars[name]; known {
			// First binding wins; later declarations are dropped unevaluated.
			r.heads[i] = struct{}{}
			r.rhs[j] = struct{}{}
			delete(r.deferred, i)
			continue
		}

		value, err := r.text(j)
		if err != nil {
			return false, err
		}

		switch {
		case isExpression(value):
			v, err := expr.Eval(value[2:len(value)-1], r.vars)
			var unknown *expr.UnknownOperandError
			if errors.As(err, &unknown) {
				r.deferred[i] = err
				continue
			}
			if err != nil {
				return false, err
			}
			r.bind(i, j, name, v)
			progress = true
		case isVariable(value):
			referenced := value[len(sigil):]
			if v, ok := r.vars[referenced]; ok {
				r.bind(i, j, name, v)
				progress = true
			} else if _, ok := r.queued[i]; !ok {
				r.queued[i] = struct{}{}
				r.pending.PushBack(Ref{Index: i, Name: name, Referenced: referenced})
			}
		default:
			if v, ok := expr.ParseNumber(value); ok {
				r.bind(i, j, name, v)
				progress = true
			}
		}
	}
	return progress, nil
}

// retryPending re-attempts every queued reference against the current table.
func (r *resolver) retryPending() bool {
	progress := false
	for n := r.pending.Len(); n > 0; n-- {
		ref := r.pending.PopFront().(Ref)
		if head, ok := r.bound[ref.Name]; ok {
			// Bound by the scan in the meantime, or by another declaration.
			if head != ref.Index {
				j, _ := r.valueIndex(ref.Index)
				r.heads[ref.Index] = struct{}{}
				r.rhs[j] = struct{}{}
			}
			continue
		}
		v, ok := r.vars[ref.Referenced]
		if !ok {
			r.pending.PushBack(ref)
			continue
		}
		j, _ := r.valueIndex(ref.Index)
		r.bind(ref.Index, j, ref.Name, v)
		progress = true
	}
	return progress
}
