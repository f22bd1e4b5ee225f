package io

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Console is the serial port of an interactive terminal. Each read puts
// the terminal into raw mode for the duration of a single byte, so input
// is neither echoed nor line buffered.
type Console struct {
	In  *os.File
	Out io.Writer
}

var _ Port = (*Console)(nil)

// NewConsole returns the console of the process's standard streams.
func NewConsole() *Console {
	return &Console{In: os.Stdin, Out: os.Stdout}
}

// ReadByte reads one unechoed byte.
func (con *Console) ReadByte() (c byte, err error) {
	fd := int(con.In.Fd())
	if term.IsTerminal(fd) {
		var state *term.State
		state, err = term.MakeRaw(fd)
		if err != nil {
			return
		}
		defer func() {
			_ = term.Restore(fd, state)
		}()
	}

	var one [1]byte
	_, err = io.ReadFull(con.In, one[:])
	c = one[0]
	return
}

// WriteByte writes one byte to the terminal.
func (con *Console) WriteByte(c byte) (err error) {
	_, err = con.Out.Write([]byte{c})
	return
}
