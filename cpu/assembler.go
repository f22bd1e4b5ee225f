// Copyright 2024, cr4zyengineer

package cpu

import (
	"encoding/binary"
	"io"
	"log"
	"maps"
	"slices"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the LA16 system.
type Assembler struct {
	Verbose bool         // If set, verbosely logs the assembler actions.
	Symbol  *SymbolTable // Symbols of the last assembly.

	predefine map[string]string // Predefines
}

// Predefine defines a constant visible to every assembly, or redefines an
// existing predefine. Source constants may shadow predefines.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// parenEval does compile-time $(...) evaluations. Constants are always
// visible to the expression; labels are once they are laid out.
func (asm *Assembler) parenEval(expr string, labels bool) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.Symbol.Constant {
		pred[key] = starlark.MakeInt(int(value))
	}
	if labels {
		for key := range asm.Symbol.Label {
			if isScoped(key) || strings.Contains(key, ".") {
				continue
			}
			addr, _ := asm.Symbol.LookupLabel(key)
			pred[key] = starlark.MakeInt(int(addr))
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -0x8000 || st_int64 > 0xffff {
		err = ErrValueRange
		return
	}
	value = uint16(st_int64)
	return
}

// isExpression returns true for a $(...) word.
func isExpression(word string) bool {
	return strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")")
}

// literal resolves a literal or $(...) expression.
//
// ok is false if the word is neither, and should be looked up as a symbol.
func (asm *Assembler) literal(word string, labels bool) (lit Literal, ok bool, err error) {
	if isExpression(word) {
		ok = true
		lit.Value, err = asm.parenEval(word[2:len(word)-1], labels)
		return
	}

	lit, ok, err = ParseLiteral(word)
	return
}

// immediate resolves an immediate operand: literal, then label, then
// constant.
func (asm *Assembler) immediate(word string) (value uint16, err error) {
	lit, ok, err := asm.literal(word, true)
	if err != nil {
		return
	}
	if ok {
		if lit.IsBuffer() {
			err = ErrOperandBuffer
			return
		}
		value = lit.Value
		return
	}

	value, ok = asm.Symbol.LookupLabel(word)
	if ok {
		return
	}

	value, ok = asm.Symbol.LookupConstant(word)
	if ok {
		return
	}

	err = ErrSymbolMissing(word)
	return
}

// operandKind is the classification of a single operand.
type operandKind int

const (
	operandNone = operandKind(iota)
	operandReg
	operandImm
)

// operand classifies and resolves a single operand.
func (asm *Assembler) operand(word string) (kind operandKind, value uint16, err error) {
	if len(word) == 0 {
		return
	}

	reg, ok := LookupRegister(strings.ToLower(word))
	if ok {
		kind = operandReg
		value = uint16(reg)
		return
	}

	kind = operandImm
	value, err = asm.immediate(word)
	return
}

// combine selects the coding combination of a pair of operands.
func combine(kind [2]operandKind, value [2]uint16) (mode Mode, a, b uint16, err error) {
	a, b = value[0], value[1]

	switch kind {
	case [2]operandKind{operandNone, operandNone}:
		mode = MODE_NONE
	case [2]operandKind{operandReg, operandNone}:
		mode = MODE_REG
	case [2]operandKind{operandNone, operandReg}:
		mode = MODE_REG
		a = b
	case [2]operandKind{operandReg, operandReg}:
		mode = MODE_REG_REG
	case [2]operandKind{operandImm, operandNone}:
		mode = MODE_IMM16
	case [2]operandKind{operandNone, operandImm}:
		mode = MODE_IMM16
		a = b
	case [2]operandKind{operandReg, operandImm}:
		mode = MODE_REG_IMM16
	case [2]operandKind{operandImm, operandReg}:
		mode = MODE_IMM16_REG
	case [2]operandKind{operandImm, operandImm}:
		if a > 0xff || b > 0xff {
			err = ErrImmediateRange
			return
		}
		mode = MODE_IMM8_IMM8
	default:
		err = ErrOperandCombination
	}

	return
}

// encode assembles a single instruction token.
func (asm *Assembler) encode(tok *Token) (code Code, err error) {
	op, ok := LookupOpcode(tok.Mnemonic())
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	operands, err := tok.Operands()
	if err != nil {
		return
	}
	if len(operands) > 2 {
		err = ErrOpcodeExtraArgs
		return
	}

	var kind [2]operandKind
	var value [2]uint16
	for n, word := range operands {
		kind[n], value[n], err = asm.operand(word)
		if err != nil {
			return
		}
	}

	mode, a, b, err := combine(kind, value)
	if err != nil {
		return
	}

	if !op.Accepts(mode) {
		err = ErrOperandCombination
		return
	}

	code, err = MakeCode(op, mode, a, b)
	return
}

// constant resolves the value of a `const` token. If the value refers to
// a label, ok is false until labels are laid out.
func (asm *Assembler) constant(tok *Token, labels bool) (name string, value uint16, ok bool, err error) {
	cur := NewCursor(tok.Text)
	cur.Next()
	name, _ = cur.Next()
	word := cur.Rest()

	lit, isLit, err := asm.literal(word, labels)
	switch {
	case isLit && err == nil && lit.IsBuffer():
		err = ErrConstantBuffer
		return
	case isLit && err == nil:
		value = lit.Value
		ok = true
		return
	case !labels && isExpression(word):
		// Retry once the labels are known.
		err = nil
		return
	case err != nil:
		return
	case !labels:
		return
	}

	value, ok = asm.Symbol.LookupLabel(word)
	if !ok {
		err = ErrSymbolMissing(word)
	}

	return
}

// data lays out a `.data` declaration at the end of the image.
func (asm *Assembler) data(image []byte, tok *Token) (out []byte, err error) {
	out = image

	if len(tok.Subtokens) < 3 {
		err = ErrDataSyntax
		return
	}

	width := 0
	switch strings.ToLower(tok.Subtokens[1]) {
	case "db":
		width = 1
	case "dw":
		width = 2
	default:
		err = ErrDataType
		return
	}

	cur := NewCursor(tok.Text)
	cur.Next()
	cur.Next()
	values, err := SplitList(cur.Rest())
	if err != nil {
		return
	}

	for _, word := range values {
		var lit Literal
		var ok bool
		lit, ok, err = asm.literal(word, false)
		if err != nil {
			return
		}
		if !ok {
			lit.Value, ok = asm.Symbol.LookupConstant(word)
			if !ok {
				err = ErrSymbolMissing(word)
				return
			}
		}

		switch {
		case lit.IsBuffer():
			out = append(out, lit.Buffer...)
		case width == 1:
			if lit.Value > 0xff && lit.Value < 0xff80 {
				err = ErrValueRange
				return
			}
			out = append(out, byte(lit.Value))
		default:
			out = binary.LittleEndian.AppendUint16(out, lit.Value)
		}
	}

	return
}

// bss reserves a `.bss` declaration at the end of the image.
func (asm *Assembler) bss(image []byte, tok *Token) (out []byte, err error) {
	out = image

	if len(tok.Subtokens) != 2 {
		err = ErrDataSyntax
		return
	}

	word := tok.Subtokens[1]
	lit, ok, err := asm.literal(word, false)
	if err != nil {
		return
	}
	if !ok {
		lit.Value, ok = asm.Symbol.LookupConstant(word)
		if !ok {
			err = ErrSymbolMissing(word)
			return
		}
	}
	if lit.IsBuffer() {
		err = ErrOperandBuffer
		return
	}

	if len(out)+int(lit.Value) > imageLimit {
		err = ErrImageOverflow
		return
	}

	out = append(out, make([]byte, lit.Value)...)
	return
}

// Parse assembles a source stream.
func (asm *Assembler) Parse(input io.Reader) (img *Image, err error) {
	source, err := io.ReadAll(input)
	if err != nil {
		return
	}

	img, err = asm.Assemble(string(source))
	return
}

// Assemble assembles source text into an image.
func (asm *Assembler) Assemble(source string) (img *Image, err error) {
	lines, err := Preprocess(source)
	if err != nil {
		return
	}

	tokens, err := Tokenize(lines)
	if err != nil {
		return
	}

	asm.Symbol = NewSymbolTable()

	for _, name := range slices.Sorted(maps.Keys(asm.predefine)) {
		lit, ok, perr := asm.literal(asm.predefine[name], false)
		if perr != nil || !ok || lit.IsBuffer() {
			err = &ErrSyntax{Line: name + "=" + asm.predefine[name], Err: ErrConstantSyntax}
			return
		}
		asm.Symbol.Constant[name] = lit.Value
	}
	predefined := maps.Clone(asm.Symbol.Constant)

	var tok *Token
	defer func() {
		if err != nil && tok != nil {
			err = &ErrSyntax{LineNo: tok.LineNo, Line: tok.Text, Err: err}
		}
	}()

	defineConstant := func(name string, value uint16) error {
		_, shadow := predefined[name]
		if shadow {
			delete(predefined, name)
			delete(asm.Symbol.Constant, name)
		}
		return asm.Symbol.DefineConstant(name, value)
	}

	// Pass 1: layout
	image := make([]byte, IMAGE_HEADER, imageLimit)
	var text []*Token
	var deferred []*Token

	for n := range tokens {
		tok = &tokens[n]

		switch tok.Kind {
		case TOKEN_CONSTANT:
			var name string
			var value uint16
			var ok bool
			name, value, ok, err = asm.constant(tok, false)
			if err != nil {
				return
			}
			if !ok {
				deferred = append(deferred, tok)
				continue
			}
			err = defineConstant(name, value)
		case TOKEN_SECTION_DATA:
			addr := uint16(len(image))
			switch tok.Section {
			case SECTION_DATA:
				image, err = asm.data(image, tok)
			case SECTION_BSS:
				image, err = asm.bss(image, tok)
			}
			if err == nil {
				err = asm.Symbol.DefineLabel(tok.Name(), addr, false)
			}
		case TOKEN_LABEL, TOKEN_SCOPED_LABEL:
			err = asm.Symbol.DefineLabel(tok.Name(), uint16(len(text)*CODE_WIDTH), true)
		case TOKEN_INSTRUCTION:
			text = append(text, tok)
		}

		if err == nil && len(image) > imageLimit {
			err = ErrImageOverflow
		}
		if err != nil {
			return
		}
	}

	textStart := alignCode(len(image))
	if textStart+len(text)*CODE_WIDTH > imageLimit {
		err = ErrImageOverflow
		return
	}
	asm.Symbol.Relocate(uint16(textStart))
	asm.Symbol.Scope("")

	for _, tok = range deferred {
		var name string
		var value uint16
		name, value, _, err = asm.constant(tok, true)
		if err != nil {
			return
		}
		err = defineConstant(name, value)
		if err != nil {
			return
		}
	}

	tok = nil
	entry, ok := asm.Symbol.LookupLabel("_start")
	if !ok {
		err = ErrStartMissing
		return
	}
	binary.LittleEndian.PutUint16(image[IMAGE_ENTRY:], entry)

	if asm.Verbose {
		log.Printf("text at %#04x, entry %#04x, %d instructions", textStart, entry, len(text))
	}

	// Pass 2: encode
	image = append(image, make([]byte, textStart-len(image))...)
	listing := make([]Listing, 0, len(text))

	for n := range tokens {
		tok = &tokens[n]

		switch tok.Kind {
		case TOKEN_LABEL:
			asm.Symbol.Scope(tok.Name())
		case TOKEN_INSTRUCTION:
			var code Code
			code, err = asm.encode(tok)
			if err != nil {
				return
			}

			addr := uint16(len(image))
			if asm.Verbose {
				log.Printf("%04x: %08x  %v", addr, uint32(code), tok.Text)
			}

			bytes := code.Bytes()
			image = append(image, bytes[:]...)
			listing = append(listing, Listing{Addr: addr, LineNo: tok.LineNo, Text: tok.Text})
		}
	}
	tok = nil

	img = &Image{
		Bytes:     image,
		Entry:     entry,
		TextStart: uint16(textStart),
		Listing:   listing,
	}

	return
}
