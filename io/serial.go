package io

import (
	"io"
)

// Serial provides a byte port over a pair of streams.
type Serial struct {
	Input  io.Reader
	Output io.Writer
}

var _ Port = (*Serial)(nil)

// ReadByte reads one byte from Input.
func (sp *Serial) ReadByte() (c byte, err error) {
	if sp.Input == nil {
		err = io.EOF
		return
	}

	var one [1]byte
	_, err = io.ReadFull(sp.Input, one[:])
	c = one[0]
	return
}

// WriteByte writes one byte to Output. Output may be nil, in which case
// the byte is discarded.
func (sp *Serial) WriteByte(c byte) (err error) {
	if sp.Output == nil {
		return
	}

	_, err = sp.Output.Write([]byte{c})
	return
}
