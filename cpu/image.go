package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"slices"
)

// Listing maps an instruction address back to its source line.
type Listing struct {
	Addr   uint16
	LineNo int
	Text   string
}

func (ls Listing) String() string {
	return fmt.Sprintf("%04x %5d  %v", ls.Addr, ls.LineNo, ls.Text)
}

// Image is an assembled, flat memory image.
type Image struct {
	Bytes     []byte    // Image contents, loaded at address 0.
	Entry     uint16    // Entry address, also stored in the header.
	TextStart uint16    // Address of the first instruction.
	Listing   []Listing // Instruction listing, in address order.
}

// NewImage wraps raw image bytes, such as those read from a file.
func NewImage(data []byte) (img *Image, err error) {
	if len(data) < IMAGE_HEADER {
		err = ErrImageShort
		return
	}
	if len(data) > imageLimit {
		err = ErrImageOverflow
		return
	}

	img = &Image{
		Bytes: data,
		Entry: binary.LittleEndian.Uint16(data[IMAGE_ENTRY:]),
	}

	return
}

// ReadImage reads an image from a stream.
func ReadImage(r io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(io.LimitReader(r, imageLimit+1))
	if err != nil {
		return
	}

	img, err = NewImage(data)
	return
}

// WriteTo writes the raw image.
func (img *Image) WriteTo(w io.Writer) (n int64, err error) {
	written, err := w.Write(img.Bytes)
	n = int64(written)
	return
}

// Lookup returns the listing entry of the instruction at addr.
func (img *Image) Lookup(addr uint16) (ls Listing, ok bool) {
	n, ok := slices.BinarySearchFunc(img.Listing, addr, func(ls Listing, addr uint16) int {
		return int(ls.Addr) - int(addr)
	})
	if ok {
		ls = img.Listing[n]
	}
	return
}

// Disassemble writes an address, code and mnemonic line per instruction.
func (img *Image) Disassemble(w io.Writer) (err error) {
	start := int(img.TextStart)
	if start < IMAGE_HEADER {
		start = alignCode(IMAGE_HEADER)
	}

	for addr := start; addr+CODE_WIDTH <= len(img.Bytes); addr += CODE_WIDTH {
		code := CodeOf(img.Bytes[addr:])
		_, err = fmt.Fprintf(w, "%04x: %08x  %v\n", addr, uint32(code), code)
		if err != nil {
			return
		}
	}

	return
}
