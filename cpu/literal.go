package cpu

import (
	"strconv"
	"strings"
)

// Literal is a parsed numeric, character or byte-buffer literal.
type Literal struct {
	Value  uint16 // Value of a numeric or character literal.
	Buffer []byte // Bytes of a "..." literal, nil otherwise.
}

// IsBuffer returns true for a "..." byte-buffer literal.
func (lit Literal) IsBuffer() bool {
	return lit.Buffer != nil
}

// unescape decodes one escape sequence character.
func unescape(ch byte) (out byte, ok bool) {
	ok = true
	switch ch {
	case 'n':
		out = '\n'
	case 't':
		out = '\t'
	case 'r':
		out = '\r'
	case 'b':
		out = '\b'
	case '0':
		out = 0
	case '\\', '\'', '"':
		out = ch
	default:
		ok = false
	}
	return
}

// unquote decodes the body of a quoted literal.
func unquote(body string) (out []byte, ok bool) {
	out = make([]byte, 0, len(body))
	for n := 0; n < len(body); n++ {
		ch := body[n]
		if ch == '\\' {
			n++
			if n == len(body) {
				return
			}
			ch, ok = unescape(body[n])
			if !ok {
				return
			}
		}
		out = append(out, ch)
	}
	ok = true
	return
}

// parseNumber parses decimal, 0x hex and 0b binary numbers. Negative
// decimals are stored as their 16-bit two's complement.
func parseNumber(word string) (value uint16, err error) {
	base := 10
	digits := word
	negative := false

	switch {
	case strings.HasPrefix(word, "0x"), strings.HasPrefix(word, "0X"):
		base = 16
		digits = word[2:]
	case strings.HasPrefix(word, "0b"), strings.HasPrefix(word, "0B"):
		base = 2
		digits = word[2:]
	case strings.HasPrefix(word, "-"):
		negative = true
		digits = word[1:]
	}

	if len(digits) == 0 || digits[0] == '+' || digits[0] == '-' || digits[0] == '_' {
		err = ErrParseNumber(word)
		return
	}

	v64, perr := strconv.ParseUint(digits, base, 32)
	if perr != nil {
		err = ErrParseNumber(word)
		return
	}

	switch {
	case negative && v64 > 0x8000:
		err = ErrValueRange
	case negative:
		value = uint16(-int32(v64))
	case v64 > 0xffff:
		err = ErrValueRange
	default:
		value = uint16(v64)
	}

	return
}

// ParseLiteral parses a literal operand.
//
// ok is false when the word is not a literal at all, in which case it is a
// symbol. A word that is a literal but malformed returns an error.
func ParseLiteral(word string) (lit Literal, ok bool, err error) {
	if len(word) == 0 {
		return
	}

	switch ch := word[0]; {
	case ch == '\'':
		ok = true
		if len(word) < 3 || word[len(word)-1] != '\'' {
			err = ErrParseCharacter(word)
			return
		}
		body, good := unquote(word[1 : len(word)-1])
		if !good || len(body) != 1 {
			err = ErrParseCharacter(word)
			return
		}
		lit.Value = uint16(body[0])
	case ch == '"':
		ok = true
		if len(word) < 2 || word[len(word)-1] != '"' {
			err = ErrQuoteUnterminated
			return
		}
		body, good := unquote(word[1 : len(word)-1])
		if !good {
			err = ErrParseCharacter(word)
			return
		}
		lit.Buffer = body
	case ch >= '0' && ch <= '9', ch == '-' && len(word) > 1:
		ok = true
		lit.Value, err = parseNumber(word)
	}

	return
}
