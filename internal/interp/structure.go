package interp

import "github.com/specialistvlad/clausejson/internal/tape"

// keyPositions marks every token that is used as a key. Only keys can be
// declaration heads; an `@name` in value or array position is a reference.
func keyPositions(tokens []tape.Token) []bool {
	keys := make([]bool, len(tokens))
	markObject(tokens, keys, 0, len(tokens))
	return keys
}

// markObject walks key/value pairs in [start, end).
func markObject(tokens []tape.Token, keys []bool, start, end int) {
	for i := start; i < end; {
		if tokens[i].Kind == tape.MixedContainer {
			markMixed(tokens, keys, i+1, end)
			return
		}
		keys[i] = true
		j := i + 1
		if j < end && tokens[j].Kind == tape.OperatorToken {
			j++
		}
		if j >= end {
			return
		}
		i = markValue(tokens, keys, j)
	}
}

// markArray walks lone values in [start, end).
func markArray(tokens []tape.Token, keys []bool, start, end int) {
	for i := start; i < end; {
		if tokens[i].Kind == tape.MixedContainer {
			markMixed(tokens, keys, i+1, end)
			return
		}
		i = markValue(tokens, keys, i)
	}
}

// markMixed walks the part of a container after its MixedContainer marker,
// where pairs always carry an explicit operator.
func markMixed(tokens []tape.Token, keys []bool, start, end int) {
	for i := start; i < end; {
		if i+1 < end && tokens[i+1].Kind == tape.OperatorToken {
			keys[i] = true
			if i+2 >= end {
				return
			}
			i = markValue(tokens, keys, i+2)
			continue
		}
		i = markValue(tokens, keys, i)
	}
}

// markValue descends into the value at i and returns the index after it.
func markValue(tokens []tape.Token, keys []bool, i int) int {
	tok := tokens[i]
	if tok.Kind == tape.Header && i+1 < len(tokens) && tokens[i+1].Kind.IsContainer() {
		return markValue(tokens, keys, i+1)
	}
	switch tok.Kind {
	case tape.Object:
		markObject(tokens, keys, i+1, tok.End)
		return tok.End + 1
	case tape.Array:
		markArray(tokens, keys, i+1, tok.End)
		return tok.End + 1
	}
	return i + 1
}
