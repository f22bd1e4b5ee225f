// Copyright 2024, cr4zyengineer

// Package mpu implements the LA16 Memory & Protection Unit.
//
// Physical memory is a flat byte array split into PAGE_SIZE pages, each with
// read/write/execute protection bits. Every core owns a Mapping from its 256
// virtual pages to physical pages. Kernel accesses bypass the Mapping and
// are only bounds checked; user accesses are translated byte by byte.
package mpu

import (
	"fmt"
	"iter"
	"maps"
	"strings"
)

const (
	PAGE_SHIFT  = 8                       // log2 of the page size.
	PAGE_SIZE   = 1 << PAGE_SHIFT         // Bytes per page.
	PAGE_MASK   = PAGE_SIZE - 1           // Offset-in-page mask.
	MEMORY_SIZE = 0x10000                 // Default physical memory size.
	VPAGE_COUNT = 0x10000 >> PAGE_SHIFT   // Virtual pages per core.
	PAGE_COUNT  = MEMORY_SIZE / PAGE_SIZE // Physical pages of the default memory.
)

// Flag is a set of page flags.
//
// A core's Mapping uses all four bits; physical pages only carry the
// protection bits.
type Flag uint8

const (
	FLAG_NONE   = Flag(0)
	FLAG_MAPPED = Flag(1 << 0) // Virtual page is mapped.
	FLAG_READ   = Flag(1 << 1) // Page may be read.
	FLAG_WRITE  = Flag(1 << 2) // Page may be written.
	FLAG_EXEC   = Flag(1 << 3) // Page may be executed.

	FLAG_RWX  = FLAG_READ | FLAG_WRITE | FLAG_EXEC
	FLAG_MASK = FLAG_MAPPED | FLAG_RWX
)

var _mpu_defines = map[string]string{
	"PAGE_SIZE":   fmt.Sprintf("%#x", PAGE_SIZE),
	"PAGE_COUNT":  fmt.Sprintf("%#x", PAGE_COUNT),
	"VPAGE_COUNT": fmt.Sprintf("%#x", VPAGE_COUNT),
	"PAGE_MAPPED": fmt.Sprintf("%#x", uint8(FLAG_MAPPED)),
	"PAGE_READ":   fmt.Sprintf("%#x", uint8(FLAG_READ)),
	"PAGE_WRITE":  fmt.Sprintf("%#x", uint8(FLAG_WRITE)),
	"PAGE_EXEC":   fmt.Sprintf("%#x", uint8(FLAG_EXEC)),
}

// Defines returns the assembler visible constants of the MPU. Every value
// fits a 16-bit word.
func Defines() iter.Seq2[string, string] {
	return maps.All(_mpu_defines)
}

// Has returns true if every bit of want is set.
func (fl Flag) Has(want Flag) bool {
	return fl&want == want
}

// String returns the flags as a 'mrwx' style string.
func (fl Flag) String() string {
	var sb strings.Builder
	for n, ch := range "mrwx" {
		if fl&(1<<n) != 0 {
			sb.WriteRune(ch)
		} else {
			sb.WriteRune('-')
		}
	}
	return sb.String()
}
