package io

import (
	"sync"
)

// Fifo implements a circular byte buffer port.
// Bytes written are read back in order; it operates as a FIFO queue with a
// fixed capacity and separate read/write positions.
type Fifo struct {
	Capacity int // Capacity in bytes.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []byte

	mutex sync.Mutex
}

var _ Port = (*Fifo)(nil)

// NewFifo returns an empty fifo of the given capacity.
func NewFifo(capacity int) (fifo *Fifo) {
	fifo = &Fifo{Capacity: capacity}
	fifo.Reset()
	return
}

// Reset empties the fifo, resetting indices and reinitializing the data
// buffer.
func (fifo *Fifo) Reset() {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	fifo.ReadIndex = 0
	fifo.WriteIndex = 0
	fifo.Size = 0
	fifo.Data = make([]byte, fifo.Capacity)
}

// ReadByte returns the oldest byte in the buffer.
// Returns ErrPortEmpty if there is none.
func (fifo *Fifo) ReadByte() (c byte, err error) {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	if fifo.Size == 0 {
		err = ErrPortEmpty
		return
	}

	c = fifo.Data[fifo.ReadIndex]
	fifo.ReadIndex++
	if fifo.ReadIndex == fifo.Capacity {
		fifo.ReadIndex = 0
	}
	fifo.Size--

	return
}

// WriteByte appends a byte at the current write position.
// Returns ErrPortFull if the buffer has reached capacity.
func (fifo *Fifo) WriteByte(c byte) (err error) {
	fifo.mutex.Lock()
	defer fifo.mutex.Unlock()

	if fifo.Size >= fifo.Capacity {
		err = ErrPortFull
		return
	}

	fifo.Data[fifo.WriteIndex] = c

	fifo.WriteIndex++
	if fifo.WriteIndex == fifo.Capacity {
		fifo.WriteIndex = 0
	}
	fifo.Size++

	return
}
