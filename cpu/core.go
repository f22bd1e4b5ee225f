// Copyright 2024, cr4zyengineer

package cpu

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/cr4zyengineer/la16/io"
	"github.com/cr4zyengineer/la16/mpu"
)

// Port is an I/O port interface.
type Port io.Port

// Term is the termination state of a core.
type Term int

//go:generate go tool stringer -linecomment -type=Term
const (
	TERM_NONE       = Term(0) // running
	TERM_HALT       = Term(1) // halted
	TERM_BAD_ACCESS = Term(2) // bad access
	TERM_PERMISSION = Term(3) // permission denied
)

// Compare flags, held in the cf register.
const (
	CF_Z = uint16(1 << 0) // Equal
	CF_L = uint16(1 << 1) // Less than (signed)
	CF_G = uint16(1 << 2) // Greater than (signed)
)

// Core is the simulation context of a single LA16 execution core.
type Core struct {
	Verbose bool // Set to enable verbose logging.

	Id       int                    // Core index in the machine.
	Register [REGISTER_COUNT]uint16 // Register file.
	Term     Term                   // Termination state.
	Ticks    int                    // Instructions executed.

	Memory     *mpu.Memory // Shared physical memory.
	Mapping    mpu.Mapping // Virtual page table used at EL0.
	Interrupts *Interrupts // Shared interrupt vectors.

	port      [io.PORT_COUNT]Port // IO ports.
	cause     error               // Underlying cause of a fault.
	terminate atomic.Bool
	running   atomic.Bool
}

// NewCore creates a core attached to shared memory and interrupt vectors.
func NewCore(id int, memory *mpu.Memory, interrupts *Interrupts) (core *Core) {
	core = &Core{
		Id:         id,
		Memory:     memory,
		Interrupts: interrupts,
	}
	core.Reset(0, StackTop(id))

	return
}

// Reset the core state.
// - Clears the registers and the page table.
// - Starts execution at entry, at EL1, with the given stack.
// - Zeros statistics counters.
func (core *Core) Reset(entry uint16, sp uint16) {
	core.Register = [REGISTER_COUNT]uint16{}
	core.Register[REG_PC] = entry
	core.Register[REG_SP] = sp
	core.Register[REG_EL] = uint16(EL1)
	core.Mapping.Reset()
	core.Term = TERM_NONE
	core.Ticks = 0
	core.cause = nil
	core.terminate.Store(false)
}

// Attach connects a port to a port number. A nil port detaches it.
func (core *Core) Attach(number int, port Port) {
	core.port[number] = port
}

// Level returns the current elevation level.
func (core *Core) Level() Level {
	if core.Register[REG_EL] >= uint16(EL1) {
		return EL1
	}
	return EL0
}

// Pc returns the program counter.
func (core *Core) Pc() uint16 {
	return core.Register[REG_PC]
}

// Terminate requests the core to halt at its next instruction.
func (core *Core) Terminate() {
	core.terminate.Store(true)
}

// Running returns true while Run is executing.
func (core *Core) Running() bool {
	return core.running.Load()
}

// Fault returns the fault that terminated the core, or nil if the core is
// running or halted normally.
func (core *Core) Fault() (err error) {
	switch core.Term {
	case TERM_NONE, TERM_HALT:
		return
	}

	err = &ErrFault{Term: core.Term, Pc: core.Pc(), Err: core.cause}
	return
}

// fault terminates the core. Only the first fault is kept.
func (core *Core) fault(term Term, cause error) {
	if core.Term != TERM_NONE {
		return
	}
	core.Term = term
	core.cause = cause
}

// String returns the current core state as a string.
func (core *Core) String() (text string) {
	text = fmt.Sprintf("core %d: %v, %v, %d ticks\n", core.Id, core.Term, core.Level(), core.Ticks)
	for n, value := range core.Register {
		text += fmt.Sprintf("% 5s: %04X", Register(n), value)
		if n%4 == 3 {
			text += "\n"
		} else {
			text += " "
		}
	}

	return
}

// fetch reads the instruction at pc.
func (core *Core) fetch(pc uint16) (code Code, err error) {
	var buf [CODE_WIDTH]byte
	err = core.Memory.Read(&core.Mapping, core.Level() == EL1, mpu.FLAG_EXEC, pc, buf[:])
	if err != nil {
		return
	}

	code = CodeOf(buf[:])
	return
}

// Tick executes a single instruction.
//
// done is set once the core has terminated, and err is the fault that
// terminated it. A halted core returns a nil error.
func (core *Core) Tick() (done bool, err error) {
	if core.terminate.Load() && core.Term == TERM_NONE {
		core.Term = TERM_HALT
	}

	if core.Term != TERM_NONE {
		done = true
		err = core.Fault()
		return
	}

	pc := core.Register[REG_PC]
	code, err := core.fetch(pc)
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		done = true
		err = core.Fault()
		return
	}

	if core.Verbose {
		log.Printf("core %d: %04x: %v", core.Id, pc, code)
	}

	core.Execute(code)
	core.Ticks++

	if core.Term != TERM_NONE {
		// The program counter is left at the terminating instruction.
		core.Register[REG_PC] = pc
		done = true
		err = core.Fault()
		return
	}

	core.Register[REG_PC] += CODE_WIDTH

	return
}

// Run executes instructions until the core halts or faults.
//
// Returns nil on halt, or an *ErrFault on a fault.
func (core *Core) Run() (err error) {
	if !core.running.CompareAndSwap(false, true) {
		err = ErrCoreRunning
		return
	}
	defer core.running.Store(false)

	for {
		var done bool
		done, err = core.Tick()
		if done {
			break
		}
	}

	if core.Verbose {
		log.Printf("core %d: %v at 0x%04x", core.Id, core.Term, core.Pc())
	}

	return
}
