package mpu

import (
	"errors"

	"github.com/cr4zyengineer/la16/translate"
)

var f = translate.From

var (
	ErrBounds     = errors.New(f("address out of bounds"))
	ErrUnmapped   = errors.New(f("page not mapped"))
	ErrProtection = errors.New(f("page protection"))
	ErrPageRange  = errors.New(f("page index out of range"))
)

// ErrAccess reports the address and access kind of a failed access.
type ErrAccess struct {
	Addr   uint16
	Access Flag
	Err    error
}

func (err *ErrAccess) Error() string {
	return f("%v access at 0x%04x: %v", err.Access, err.Addr, err.Err)
}

func (err *ErrAccess) Unwrap() error {
	return err.Err
}
