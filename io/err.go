package io

import (
	"errors"

	"github.com/cr4zyengineer/la16/translate"
)

var f = translate.From

var (
	// Port errors
	ErrPortFull  = errors.New(f("port full"))
	ErrPortEmpty = errors.New(f("port empty"))
)
