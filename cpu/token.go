// Copyright 2024, cr4zyengineer

package cpu

import (
	"strings"
)

// TokenKind classifies a source line.
type TokenKind int

//go:generate go tool stringer -linecomment -type=TokenKind
const (
	TOKEN_INSTRUCTION  = TokenKind(0) // instruction
	TOKEN_LABEL        = TokenKind(1) // label
	TOKEN_SCOPED_LABEL = TokenKind(2) // scoped label
	TOKEN_SECTION      = TokenKind(3) // section
	TOKEN_SECTION_DATA = TokenKind(4) // section data
	TOKEN_CONSTANT     = TokenKind(5) // constant
)

// Section is an assembler section.
type Section int

//go:generate go tool stringer -linecomment -type=Section
const (
	SECTION_TEXT = Section(0) // .text
	SECTION_DATA = Section(1) // .data
	SECTION_BSS  = Section(2) // .bss
)

// Line is one non-empty source line after comment stripping.
type Line struct {
	LineNo int    // 1-based line number in the concatenated source.
	Text   string // Trimmed text with tabs replaced by spaces.
}

// Token is one logical line of assembly.
type Token struct {
	Kind      TokenKind
	LineNo    int
	Text      string
	Subtokens []string
	Section   Section // Section of a TOKEN_SECTION or TOKEN_SECTION_DATA.
}

// Cursor walks whitespace separated subtokens of a line. Quoted strings
// and characters are kept whole, including their spaces.
type Cursor struct {
	text string
	pos  int
}

// NewCursor starts a cursor at the beginning of text.
func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

func (cur *Cursor) skipSpace() {
	for cur.pos < len(cur.text) && cur.text[cur.pos] == ' ' {
		cur.pos++
	}
}

// Next returns the next subtoken.
func (cur *Cursor) Next() (word string, ok bool) {
	cur.skipSpace()
	if cur.pos >= len(cur.text) {
		return
	}

	start := cur.pos
	var quote byte
	for ; cur.pos < len(cur.text); cur.pos++ {
		ch := cur.text[cur.pos]
		switch {
		case quote != 0 && ch == '\\':
			cur.pos++
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ' ':
			word = cur.text[start:cur.pos]
			ok = true
			return
		}
	}

	word = cur.text[start:min(cur.pos, len(cur.text))]
	ok = true
	return
}

// Rest returns the unread remainder of the line, trimmed.
func (cur *Cursor) Rest() string {
	cur.skipSpace()
	return strings.TrimSpace(cur.text[cur.pos:])
}

// Subtokens splits a line into all of its subtokens.
func Subtokens(text string) (words []string) {
	cur := NewCursor(text)
	for word, ok := cur.Next(); ok; word, ok = cur.Next() {
		words = append(words, word)
	}
	return
}

// SplitList splits a comma separated list. Commas inside quotes do not
// split, and each element is trimmed.
func SplitList(text string) (items []string, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return
	}

	start := 0
	var quote byte
	for n := 0; n < len(text); n++ {
		ch := text[n]
		switch {
		case quote != 0 && ch == '\\':
			n++
		case quote != 0 && ch == quote:
			quote = 0
		case quote != 0:
		case ch == '"' || ch == '\'':
			quote = ch
		case ch == ',':
			items = append(items, strings.TrimSpace(text[start:n]))
			start = n + 1
		}
	}

	if quote != 0 {
		err = ErrQuoteUnterminated
		return
	}

	items = append(items, strings.TrimSpace(text[start:]))
	return
}

// Preprocess strips ';' and '/* */' comments, replaces tabs with spaces,
// normalizes line endings and drops empty lines.
func Preprocess(source string) (lines []Line, err error) {
	var sb strings.Builder
	lineno := 1
	start := 1

	flush := func() {
		text := strings.TrimSpace(sb.String())
		if len(text) > 0 {
			lines = append(lines, Line{LineNo: start, Text: text})
		}
		sb.Reset()
	}

	var quote byte
	for n := 0; n < len(source); n++ {
		ch := source[n]
		switch {
		case ch == '\r':
			// Dropped; '\n' ends the line.
		case ch == '\n':
			flush()
			quote = 0
			lineno++
			start = lineno
		case quote != 0:
			if ch == '\\' && n+1 < len(source) && source[n+1] != '\n' {
				sb.WriteByte(ch)
				n++
				ch = source[n]
			} else if ch == quote {
				quote = 0
			}
			sb.WriteByte(ch)
		case ch == '"' || ch == '\'':
			quote = ch
			sb.WriteByte(ch)
		case ch == ';':
			for n+1 < len(source) && source[n+1] != '\n' {
				n++
			}
		case ch == '/' && n+1 < len(source) && source[n+1] == '*':
			end := strings.Index(source[n+2:], "*/")
			if end < 0 {
				err = &ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(sb.String()), Err: ErrCommentOpen}
				return
			}
			comment := source[n : n+2+end+2]
			lineno += strings.Count(comment, "\n")
			n += len(comment) - 1
			sb.WriteByte(' ')
		case ch == '\t':
			sb.WriteByte(' ')
		default:
			sb.WriteByte(ch)
		}
	}
	flush()

	return
}

var sectionMap = map[string]Section{
	".text": SECTION_TEXT,
	".data": SECTION_DATA,
	".bss":  SECTION_BSS,
}

// isLabel returns true for a 'name:' subtoken.
func isLabel(word string) bool {
	return len(word) > 1 && strings.HasSuffix(word, ":")
}

// Tokenize classifies every line in one left to right pass, and expands
// `call` pseudo-instructions into their primitive instructions.
func Tokenize(lines []Line) (tokens []Token, err error) {
	section := SECTION_TEXT

	var line Line
	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Text, Err: err}
		}
	}()

	for _, line = range lines {
		words := Subtokens(line.Text)

		if len(words) == 0 {
			continue
		}

		emit := func(kind TokenKind, text string, subtokens []string) {
			tokens = append(tokens, Token{
				Kind:      kind,
				LineNo:    line.LineNo,
				Text:      text,
				Subtokens: subtokens,
				Section:   section,
			})
		}

		switch {
		case words[0] == "section":
			if len(words) != 2 {
				err = ErrSectionInvalid
				return
			}
			var ok bool
			section, ok = sectionMap[words[1]]
			if !ok {
				err = ErrSectionInvalid
				return
			}
			emit(TOKEN_SECTION, line.Text, words)
			continue
		case words[0] == "const":
			if len(words) < 3 {
				err = ErrConstantSyntax
				return
			}
			emit(TOKEN_CONSTANT, line.Text, words)
			continue
		case section != SECTION_TEXT && !(len(words) == 1 && isLabel(words[0])):
			emit(TOKEN_SECTION_DATA, line.Text, words)
			continue
		}

		// A bare label ends a data region.
		if isLabel(words[0]) {
			section = SECTION_TEXT
		}

		for len(words) > 0 && isLabel(words[0]) {
			kind := TOKEN_LABEL
			if words[0][0] == '.' {
				kind = TOKEN_SCOPED_LABEL
			}
			emit(kind, words[0], words[:1])
			words = words[1:]
		}

		if len(words) == 0 {
			continue
		}

		// Skip past the labels and the mnemonic.
		cur := NewCursor(line.Text)
		for word, _ := cur.Next(); isLabel(word); word, _ = cur.Next() {
		}
		text := strings.TrimSpace(words[0] + " " + cur.Rest())

		if words[0] == "call" {
			var expanded []Token
			expanded, err = ExpandCall(line.LineNo, text)
			if err != nil {
				return
			}
			tokens = append(tokens, expanded...)
			continue
		}

		emit(TOKEN_INSTRUCTION, text, words)
	}

	return
}

// Mnemonic returns the lower case opcode mnemonic of an instruction token.
func (tok *Token) Mnemonic() string {
	if len(tok.Subtokens) == 0 {
		return ""
	}
	return strings.ToLower(tok.Subtokens[0])
}

// Operands returns the comma separated operands of an instruction token.
func (tok *Token) Operands() (operands []string, err error) {
	cur := NewCursor(tok.Text)
	cur.Next()
	operands, err = SplitList(cur.Rest())
	return
}

// Name returns the name of a label or data token, without its ':'.
func (tok *Token) Name() string {
	if len(tok.Subtokens) == 0 {
		return ""
	}
	return strings.TrimSuffix(tok.Subtokens[0], ":")
}
