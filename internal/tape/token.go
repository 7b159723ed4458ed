package tape

import "fmt"

// Kind identifies the variant of a Token.
type Kind uint8

const (
	// Unquoted is a bare scalar such as `foo`, `1.5` or `@var`.
	Unquoted Kind = iota
	// Quoted is a scalar that was written between double quotes.
	Quoted
	// Header precedes a container in value position, e.g. `rgb` in `rgb { 1 2 3 }`.
	Header
	// Parameter is the key of a `[[name] ... ]` block.
	Parameter
	// UndefinedParameter is the key of a `[[!name] ... ]` block.
	UndefinedParameter
	// Array opens a container of values. End holds the index of its End token.
	Array
	// Object opens a container of key/value pairs. End holds the index of its End token.
	Object
	// OperatorToken sits between a key and its value. Plain assignment is implicit
	// and only materializes as a token inside mixed containers.
	OperatorToken
	// End closes a container. End holds the index of the opening token.
	End
	// MixedContainer marks the point where a container switches between
	// array and object semantics.
	MixedContainer
)

var kindNames = [...]string{
	Unquoted:           "unquoted",
	Quoted:             "quoted",
	Header:             "header",
	Parameter:          "parameter",
	UndefinedParameter: "undefined_parameter",
	Array:              "array",
	Object:             "object",
	OperatorToken:      "operator",
	End:                "end",
	MixedContainer:     "mixed_container",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// IsLeaf reports whether tokens of this kind carry a text payload.
func (k Kind) IsLeaf() bool {
	switch k {
	case Unquoted, Quoted, Header, Parameter, UndefinedParameter:
		return true
	}
	return false
}

// IsContainer reports whether tokens of this kind open a container.
func (k Kind) IsContainer() bool {
	return k == Array || k == Object
}

// Operator is the comparison or assignment operator between a key and a value.
type Operator uint8

const (
	Equal            Operator = iota // =
	Exact                            // ==
	Exists                           // ?=
	GreaterThan                      // >
	LessThan                         // <
	GreaterThanEqual                 // >=
	LessThanEqual                    // <=
	NotEqual                         // !=
)

var operatorNames = [...]string{
	Equal:            "EQUAL",
	Exact:            "EXACT",
	Exists:           "EXISTS",
	GreaterThan:      "GREATER_THAN",
	LessThan:         "LESS_THAN",
	GreaterThanEqual: "GREATER_THAN_EQUAL",
	LessThanEqual:    "LESS_THAN_EQUAL",
	NotEqual:         "NOT_EQUAL",
}

var operatorSymbols = [...]string{
	Equal:            "=",
	Exact:            "==",
	Exists:           "?=",
	GreaterThan:      ">",
	LessThan:         "<",
	GreaterThanEqual: ">=",
	LessThanEqual:    "<=",
	NotEqual:         "!=",
}

// Name returns the upper snake-case name used when the operator is rendered
// as a JSON wrapper object.
func (o Operator) Name() string {
	if int(o) < len(operatorNames) {
		return operatorNames[o]
	}
	return fmt.Sprintf("OPERATOR_%d", uint8(o))
}

// Symbol returns the operator as it is written in script text.
func (o Operator) Symbol() string {
	if int(o) < len(operatorSymbols) {
		return operatorSymbols[o]
	}
	return "?"
}

func (o Operator) String() string {
	return o.Symbol()
}

// Token is a single entry of a tape. Containers and End tokens address each
// other by index, not by reference.
type Token struct {
	Kind  Kind
	Op    Operator // Operator tokens only
	End   int      // Array/Object: index of the End token; End: index of the opener
	Mixed bool     // Array/Object only
	Data  []byte   // leaf payload, borrowed from the tokenized document
}

// Tape is the flat token representation of a whole document. The root of
// the document is an implicit object spanning every token.
type Tape struct {
	Tokens []Token
}

// Len returns the number of tokens on the tape.
func (t *Tape) Len() int {
	return len(t.Tokens)
}
