// Copyright 2024, cr4zyengineer

// Package emulator assembles the LA16 machine: shared physical memory, a
// shared interrupt vector table, the cores and their I/O ports.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"golang.org/x/sync/errgroup"

	"github.com/cr4zyengineer/la16/cpu"
	"github.com/cr4zyengineer/la16/internal"
	"github.com/cr4zyengineer/la16/io"
	"github.com/cr4zyengineer/la16/mpu"
)

const (
	CORE_MAX  = 16  // Most cores a machine holds; their stacks stay disjoint.
	FIFO_SIZE = 256 // Capacity of the loopback port.
)

var _emulator_defines = map[string]string{
	"CORE_MAX":  fmt.Sprintf("%#x", CORE_MAX),
	"FIFO_SIZE": fmt.Sprintf("%#x", FIFO_SIZE),
}

// Machine state. Memory + interrupt vectors + cores + IO ports.
type Machine struct {
	Verbose bool // If set, enables verbose logging.

	Memory     *mpu.Memory     // Physical memory shared by every core.
	Interrupts *cpu.Interrupts // Interrupt vectors shared by every core.
	Cores      []*cpu.Core     // Cores, indexed by core id.
	Image      *cpu.Image      // Image of the last Load.

	Serial io.Port  // Port 0.
	Fifo   *io.Fifo // Port 1.
}

// NewMachine creates a machine with the given number of cores. A nil serial
// port reads end of file and discards its output.
func NewMachine(cores int, serial io.Port) (mach *Machine, err error) {
	if cores < 1 || cores > CORE_MAX {
		err = ErrCoreCount
		return
	}

	if serial == nil {
		serial = &io.Serial{}
	}

	mach = &Machine{
		Memory:     mpu.NewMemory(mpu.MEMORY_SIZE),
		Interrupts: cpu.NewInterrupts(),
		Serial:     serial,
		Fifo:       io.NewFifo(FIFO_SIZE),
	}

	for n := range cores {
		core := cpu.NewCore(n, mach.Memory, mach.Interrupts)
		core.Attach(io.PORT_SERIAL, mach.Serial)
		core.Attach(io.PORT_FIFO, mach.Fifo)
		mach.Cores = append(mach.Cores, core)
	}

	return
}

// Defines returns an iterator over all of the defines
func (mach *Machine) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		mpu.Defines(),
		cpu.Defines(),
		io.Defines(),
	)
}

// Assembler returns an assembler that sees the machine defines.
func (mach *Machine) Assembler() (asm *cpu.Assembler) {
	asm = &cpu.Assembler{Verbose: mach.Verbose}
	for name, value := range mach.Defines() {
		asm.Predefine(name, value)
	}

	return
}

// Load resets the machine and copies an image to physical address 0.
// Every core starts at the image entry, at EL1, on its own stack.
func (mach *Machine) Load(img *cpu.Image) (err error) {
	mach.Memory.Reset()
	mach.Memory.Verbose = mach.Verbose
	mach.Interrupts.Reset()
	mach.Fifo.Reset()

	err = mach.Memory.Load(0, img.Bytes)
	if err != nil {
		return
	}

	for n, core := range mach.Cores {
		core.Verbose = mach.Verbose
		core.Reset(img.Entry, cpu.StackTop(n))
	}

	mach.Image = img

	if mach.Verbose {
		log.Printf("machine: loaded %d bytes, entry 0x%04x, %d cores", len(img.Bytes), img.Entry, len(mach.Cores))
	}

	return
}

// LineNo returns the source line of the instruction at the program
// counter of a core, or 0 if it is not known.
func (mach *Machine) LineNo(n int) int {
	if mach.Image == nil || n < 0 || n >= len(mach.Cores) {
		return 0
	}

	ls, ok := mach.Image.Lookup(mach.Cores[n].Pc())
	if !ok {
		return 0
	}

	return ls.LineNo
}

// Run runs a single core until it halts or faults.
func (mach *Machine) Run(n int) (err error) {
	if n < 0 || n >= len(mach.Cores) {
		err = ErrCoreIndex
		return
	}

	core := mach.Cores[n]

	if mach.Verbose {
		log.Printf("machine: core %d start at 0x%04x", n, core.Pc())
	}

	err = core.Run()

	if mach.Verbose {
		log.Printf("machine: core %d stop, %v", n, core.Term)
	}

	if err != nil && !errors.Is(err, cpu.ErrCoreRunning) {
		err = &ErrRuntime{Core: n, LineNo: mach.LineNo(n), Err: err}
	}

	return
}

// RunAll runs every core concurrently until all have halted or faulted.
//
// A fault ends only the faulting core; the faults of all cores are joined.
// Cancelling ctx terminates every core, and RunAll then returns ctx.Err()
// if no core faulted.
func (mach *Machine) RunAll(ctx context.Context) (err error) {
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
			mach.Terminate()
		case <-stop:
		}
	}()

	errs := make([]error, len(mach.Cores))

	var g errgroup.Group
	for n := range mach.Cores {
		g.Go(func() error {
			errs[n] = mach.Run(n)
			return errs[n]
		})
	}
	_ = g.Wait()

	err = errors.Join(errs...)
	if err == nil {
		err = ctx.Err()
	}

	return
}

// Terminate requests every core to halt.
func (mach *Machine) Terminate() {
	for _, core := range mach.Cores {
		core.Terminate()
	}
}
