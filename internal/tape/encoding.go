package tape

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Encoding selects how scalar bytes are turned into text.
type Encoding int

const (
	UTF8 Encoding = iota
	Windows1252
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case Windows1252:
		return "windows-1252"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// ParseEncoding maps a user supplied encoding name onto an Encoding.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "windows1252", "cp1252":
		return Windows1252, nil
	}
	return UTF8, fmt.Errorf("unrecognized encoding %q: must be 'utf-8' or 'windows-1252'", name)
}

// Decode converts raw scalar bytes into a string. Invalid sequences are
// replaced with U+FFFD instead of failing.
func (e Encoding) Decode(data []byte) string {
	if e == Windows1252 {
		// The Windows-1252 table covers every byte, so this cannot fail.
		out, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err == nil {
			return string(out)
		}
	}
	return strings.ToValidUTF8(string(data), "�")
}

// DecodeError reports bytes that are not valid under the selected encoding.
type DecodeError struct {
	Encoding Encoding
	Data     []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid %s text: %q", e.Encoding, e.Data)
}

// DecodeStrict converts raw scalar bytes into a string and fails on byte
// sequences that are invalid under the encoding.
func (e Encoding) DecodeStrict(data []byte) (string, error) {
	if e == UTF8 && !utf8.Valid(data) {
		return "", &DecodeError{Encoding: e, Data: data}
	}
	return e.Decode(data), nil
}

// Decoded pairs a raw tape with the encoding of its scalars so it can be
// walked by consumers that need text, such as the JSON writer.
type Decoded struct {
	Tape     *Tape
	Encoding Encoding
}

// WithEncoding returns a text view of the tape.
func (t *Tape) WithEncoding(enc Encoding) *Decoded {
	return &Decoded{Tape: t, Encoding: enc}
}

// Len returns the number of tokens.
func (d *Decoded) Len() int {
	return len(d.Tape.Tokens)
}

// Token returns the token at index i.
func (d *Decoded) Token(i int) Token {
	return d.Tape.Tokens[i]
}

// Text returns the decoded payload of the leaf token at index i.
func (d *Decoded) Text(i int) string {
	return d.Encoding.Decode(d.Tape.Tokens[i].Data)
}
