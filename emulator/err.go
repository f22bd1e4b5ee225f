package emulator

import (
	"errors"

	"github.com/cr4zyengineer/la16/translate"
)

var f = translate.From

var (
	ErrCoreCount = errors.New(f("core count out of range"))
	ErrCoreIndex = errors.New(f("core index out of range"))
)

// ErrRuntime indicates the core and source line of a runtime error.
type ErrRuntime struct {
	Core   int
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("core %d: %v", err.Core, err.Err)
	}
	return f("core %d: line %d %v", err.Core, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
