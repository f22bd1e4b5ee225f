// Package io provides the byte wide I/O ports of the LA16 machine.
// It includes a stream backed serial port (Serial), an interactive
// terminal port (Console) and a loopback buffer (Fifo).
package io

import (
	"fmt"
	"iter"
	"maps"
)

// Port numbers of the LA16 machine.
const (
	PORT_SERIAL = 0 // Serial console.
	PORT_FIFO   = 1 // Loopback buffer.

	PORT_COUNT = 256 // Size of the port number space.
)

var _io_defines = map[string]string{
	"PORT_SERIAL": fmt.Sprintf("%#x", PORT_SERIAL),
	"PORT_FIFO":   fmt.Sprintf("%#x", PORT_FIFO),
}

// Defines returns the assembler visible port numbers.
func Defines() iter.Seq2[string, string] {
	return maps.All(_io_defines)
}

// Port defines the interface for all I/O ports in the LA16 system.
// Ports transfer one byte per `in` or `out` instruction.
type Port interface {
	// ReadByte returns the next byte from the device.
	ReadByte() (byte, error)
	// WriteByte sends a byte to the device.
	WriteByte(c byte) error
}
