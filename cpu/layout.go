package cpu

import (
	"fmt"
	"iter"
	"maps"

	"github.com/cr4zyengineer/la16/mpu"
)

const (
	IMAGE_ENTRY  = 0      // Offset of the little-endian entry address.
	IMAGE_HEADER = 4      // Header size; data starts here.
	CODE_ALIGN   = 4      // Alignment of the text section.
	STACK_TOP    = 0xfffe // Initial stack pointer of core 0.
	STACK_STRIDE = 0x400  // Stack spacing between cores.

	INTERRUPT_COUNT = 256 // Number of interrupt vectors.
)

var _cpu_defines = map[string]string{
	"IMAGE_HEADER":    fmt.Sprintf("%#x", IMAGE_HEADER),
	"CODE_WIDTH":      fmt.Sprintf("%#x", CODE_WIDTH),
	"STACK_TOP":       fmt.Sprintf("%#x", STACK_TOP),
	"STACK_STRIDE":    fmt.Sprintf("%#x", STACK_STRIDE),
	"INTERRUPT_COUNT": fmt.Sprintf("%#x", INTERRUPT_COUNT),
	"CF_Z":            fmt.Sprintf("%#x", CF_Z),
	"CF_L":            fmt.Sprintf("%#x", CF_L),
	"CF_G":            fmt.Sprintf("%#x", CF_G),
}

// Defines returns the assembler visible constants of the core.
func Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// StackTop returns the initial stack pointer of a core.
func StackTop(index int) uint16 {
	return uint16(STACK_TOP - index*STACK_STRIDE)
}

// alignCode rounds an address up to the text alignment.
func alignCode(addr int) int {
	return (addr + CODE_ALIGN - 1) &^ (CODE_ALIGN - 1)
}

// imageLimit is the largest possible image.
const imageLimit = mpu.MEMORY_SIZE
