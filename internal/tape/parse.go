package tape

import (
	"bytes"
	"fmt"
)

// SyntaxError reports malformed script text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at byte %d: %s", e.Offset, e.Msg)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// containerState tracks whether a container has seen lone values, pairs, or both.
type containerState int

const (
	stateEmpty containerState = iota
	stateArray
	stateObject
	stateMixed
)

type parser struct {
	data   []byte
	pos    int
	tokens []Token
}

// Parse tokenizes Clausewitz-style script text into a tape. Leaf tokens
// borrow their payload from data, so data must outlive the tape.
func Parse(data []byte) (*Tape, error) {
	p := &parser{
		data:   bytes.TrimPrefix(data, utf8BOM),
		tokens: make([]Token, 0, len(data)/8),
	}
	if err := p.parseRoot(); err != nil {
		return nil, err
	}
	return &Tape{Tokens: p.tokens}, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) push(tok Token) int {
	p.tokens = append(p.tokens, tok)
	return len(p.tokens) - 1
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// skipSpace advances past whitespace and comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case isSpace(c):
			p.pos++
		case c == '#':
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) peek() (byte, bool) {
	if p.pos >= len(p.data) {
		return 0, false
	}
	return p.data[p.pos], true
}

func (p *parser) at(offset int) byte {
	if p.pos+offset >= len(p.data) {
		return 0
	}
	return p.data[p.pos+offset]
}

// operator reads an operator at the current position, if there is one.
func (p *parser) operator() (Operator, bool) {
	switch p.at(0) {
	case '=':
		if p.at(1) == '=' {
			p.pos += 2
			return Exact, true
		}
		p.pos++
		return Equal, true
	case '?':
		if p.at(1) == '=' {
			p.pos += 2
			return Exists, true
		}
	case '!':
		if p.at(1) == '=' {
			p.pos += 2
			return NotEqual, true
		}
	case '<':
		if p.at(1) == '=' {
			p.pos += 2
			return LessThanEqual, true
		}
		p.pos++
		return LessThan, true
	case '>':
		if p.at(1) == '=' {
			p.pos += 2
			return GreaterThanEqual, true
		}
		p.pos++
		return GreaterThan, true
	}
	return Equal, false
}

func (p *parser) isDelimiter(c byte) bool {
	switch c {
	case '{', '}', '=', '<', '>', '"', '#':
		return true
	case '!', '?':
		return p.at(1) == '='
	}
	return isSpace(c)
}

// scalar reads a quoted or unquoted scalar.
func (p *parser) scalar() (Token, error) {
	start := p.pos
	if p.data[p.pos] == '"' {
		p.pos++
		escaped := false
		for p.pos < len(p.data) {
			c := p.data[p.pos]
			switch {
			case c == '\\' && p.pos+1 < len(p.data):
				escaped = true
				p.pos += 2
				continue
			case c == '"':
				data := p.data[start+1 : p.pos]
				p.pos++
				if escaped {
					data = unescape(data)
				}
				return Token{Kind: Quoted, Data: data}, nil
			}
			p.pos++
		}
		p.pos = start
		return Token{}, p.errorf("unterminated quoted scalar")
	}

	// Interpolation expressions may contain whitespace and operators, so they
	// run until their closing bracket.
	if p.at(0) == '@' && p.at(1) == '[' {
		depth := 0
		for p.pos < len(p.data) {
			switch p.data[p.pos] {
			case '[':
				depth++
			case ']':
				depth--
				if depth == 0 {
					p.pos++
					return Token{Kind: Unquoted, Data: p.data[start:p.pos]}, nil
				}
			case '\n':
				p.pos = start
				return Token{}, p.errorf("unterminated interpolation expression")
			}
			p.pos++
		}
		p.pos = start
		return Token{}, p.errorf("unterminated interpolation expression")
	}

	for p.pos < len(p.data) && !p.isDelimiter(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return Token{}, p.errorf("unexpected character %q", p.data[p.pos])
	}
	return Token{Kind: Unquoted, Data: p.data[start:p.pos]}, nil
}

func unescape(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+1 < len(data) && (data[i+1] == '"' || data[i+1] == '\\') {
			i++
		}
		out = append(out, data[i])
	}
	return out
}

func (p *parser) parseRoot() error {
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return nil
		}
		switch c {
		case '}':
			return p.errorf("unexpected closing brace")
		case '{':
			return p.errorf("unexpected container without key")
		}
		pair, err := p.member(stateObject)
		if err != nil {
			return err
		}
		if !pair {
			return p.errorf("expected operator after key")
		}
	}
}

// container parses the body of a container whose opening byte has already
// been consumed, up to and including closer.
func (p *parser) container(closer byte) error {
	open := p.push(Token{Kind: Array})
	state, initial := stateEmpty, stateEmpty
	for {
		p.skipSpace()
		c, ok := p.peek()
		if !ok {
			return p.errorf("unterminated container opened by token %d", open)
		}
		if c == closer {
			p.pos++
			break
		}
		if c == '}' || c == ']' {
			return p.errorf("mismatched closing %q", c)
		}

		next, err := p.element(state)
		if err != nil {
			return err
		}
		if state == stateEmpty {
			initial = next
		}
		state = next
	}

	end := p.push(Token{Kind: End, End: open})
	tok := &p.tokens[open]
	tok.End = end
	switch state {
	case stateObject:
		tok.Kind = Object
	case stateMixed:
		if initial == stateObject {
			tok.Kind = Object
		}
		tok.Mixed = true
	}
	return nil
}

// element parses one entry of a container and returns the updated state.
func (p *parser) element(state containerState) (containerState, error) {
	if p.at(0) == '{' {
		// A nested container can only be an array value.
		next := p.transition(state, false)
		if next == stateMixed && state != stateMixed {
			p.push(Token{Kind: MixedContainer})
		}
		p.pos++
		return next, p.container('}')
	}

	mark := len(p.tokens)
	markPos := p.pos
	pair, err := p.member(state)
	if err != nil {
		return state, err
	}
	next := p.transition(state, pair)
	if next == stateMixed && state != stateMixed {
		// Re-parse the element after the marker so pairs get explicit operators.
		p.tokens = p.tokens[:mark]
		p.pos = markPos
		p.push(Token{Kind: MixedContainer})
		if _, err := p.member(stateMixed); err != nil {
			return state, err
		}
	}
	return next, nil
}

func (p *parser) transition(state containerState, pair bool) containerState {
	switch state {
	case stateEmpty:
		if pair {
			return stateObject
		}
		return stateArray
	case stateArray:
		if pair {
			return stateMixed
		}
	case stateObject:
		if !pair {
			return stateMixed
		}
	}
	return state
}

// member parses a key/operator/value triple or a lone value. It reports
// whether a pair was parsed.
func (p *parser) member(state containerState) (bool, error) {
	if p.at(0) == '[' && p.at(1) == '[' {
		return true, p.parameter()
	}

	key, err := p.scalar()
	if err != nil {
		return false, err
	}
	p.skipSpace()
	op, ok := p.operator()
	if !ok {
		p.push(key)
		return false, nil
	}
	p.push(key)
	if op != Equal || state == stateMixed {
		p.push(Token{Kind: OperatorToken, Op: op})
	}
	return true, p.value()
}

// parameter parses `[[name] ... ]` and `[[!name] ... ]` blocks.
func (p *parser) parameter() error {
	p.pos += 2
	kind := Parameter
	if p.at(0) == '!' {
		kind = UndefinedParameter
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != ']' {
		p.pos++
	}
	if p.pos >= len(p.data) || p.pos == start {
		return p.errorf("malformed parameter block")
	}
	p.push(Token{Kind: kind, Data: p.data[start:p.pos]})
	p.pos++

	open := len(p.tokens)
	if err := p.container(']'); err != nil {
		return err
	}
	// An empty parameter body is still an object.
	if p.tokens[open].End == open+1 {
		p.tokens[open].Kind = Object
	}
	return nil
}

// value parses the right-hand side of a pair.
func (p *parser) value() error {
	p.skipSpace()
	c, ok := p.peek()
	if !ok || c == '}' || c == ']' {
		return p.errorf("missing value")
	}
	if c == '{' {
		p.pos++
		return p.container('}')
	}

	tok, err := p.scalar()
	if err != nil {
		return err
	}
	if tok.Kind == Unquoted {
		save := p.pos
		p.skipSpace()
		if p.at(0) == '{' {
			tok.Kind = Header
			p.push(tok)
			p.pos++
			return p.container('}')
		}
		p.pos = save
	}
	p.push(tok)
	return nil
}
