package cpu

import (
	"errors"

	"github.com/cr4zyengineer/la16/translate"
)

var f = translate.From

var (
	// Codec errors
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrImmediateRange  = errors.New(f("immediate out of range"))
	ErrModeInvalid     = errors.New(f("coding combination invalid"))

	// Core faults
	ErrHalt        = errors.New(f("halted"))
	ErrBadAccess   = errors.New(f("bad access"))
	ErrPermission  = errors.New(f("permission denied"))
	ErrCoreRunning = errors.New(f("core already running"))

	// Interrupt controller errors
	ErrInterruptInvalid = errors.New(f("interrupt number invalid"))
	ErrInterruptUnset   = errors.New(f("interrupt vector unset"))

	// Assembler errors
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelScope         = errors.New(f("scoped label outside of a scope"))
	ErrConstantDuplicate  = errors.New(f("constant duplicated"))
	ErrConstantSyntax     = errors.New(f("const syntax"))
	ErrConstantBuffer     = errors.New(f("buffers in constant not supported"))
	ErrSectionInvalid     = errors.New(f("section invalid"))
	ErrDataSyntax         = errors.New(f("data declaration syntax"))
	ErrDataType           = errors.New(f("data type invalid"))
	ErrCallArguments      = errors.New(f("call can have maximum of 7 arguments"))
	ErrCallTarget         = errors.New(f("call target missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOperandCombination = errors.New(f("illegal operand combination"))
	ErrOperandBuffer      = errors.New(f("buffer operand not supported"))
	ErrValueRange         = errors.New(f("value out of 16-bit range"))
	ErrStartMissing       = errors.New(f("_start label missing"))
	ErrImageOverflow      = errors.New(f("image exceeds address space"))
	ErrImageShort         = errors.New(f("image shorter than its header"))
	ErrQuoteUnterminated  = errors.New(f("unterminated quote"))
	ErrCommentOpen        = errors.New(f("unterminated comment"))
)

// ErrSymbolMissing is an operand that is not a register, literal, label or
// constant.
type ErrSymbolMissing string

func (err ErrSymbolMissing) Error() string {
	return f("symbol %v doesn't exist", string(err))
}

// ErrParseNumber is a malformed numeric literal.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrParseCharacter is a malformed character literal.
type ErrParseCharacter string

func (err ErrParseCharacter) Error() string {
	return f("'%v' is not a character", string(err))
}

// ErrParseExpression is a compile-time expression that does not evaluate
// to an integer.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an assembler error in the source.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrFault is the terminal state of a core that did not halt normally.
type ErrFault struct {
	Term Term
	Pc   uint16
	Err  error // Underlying cause, if any.
}

func (err *ErrFault) Error() string {
	if err.Err != nil {
		return f("%v at 0x%04x: %v", err.Term, err.Pc, err.Err)
	}
	return f("%v at 0x%04x", err.Term, err.Pc)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// Is matches the sentinel of the fault class.
func (err *ErrFault) Is(target error) bool {
	switch err.Term {
	case TERM_BAD_ACCESS:
		return target == ErrBadAccess
	case TERM_PERMISSION:
		return target == ErrPermission
	}
	return false
}
