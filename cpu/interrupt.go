package cpu

import (
	"sync"

	"github.com/cr4zyengineer/la16/mpu"
)

// Interrupts is the interrupt vector table shared by all cores.
// A zero vector is unset.
type Interrupts struct {
	mutex  sync.RWMutex
	vector [INTERRUPT_COUNT]uint16
}

// NewInterrupts returns an empty vector table.
func NewInterrupts() *Interrupts {
	return &Interrupts{}
}

// Reset clears every vector.
func (ic *Interrupts) Reset() {
	ic.mutex.Lock()
	defer ic.mutex.Unlock()

	ic.vector = [INTERRUPT_COUNT]uint16{}
}

// Set sets the handler address of an interrupt. Address 0 clears it.
func (ic *Interrupts) Set(n uint16, addr uint16) (err error) {
	if n >= INTERRUPT_COUNT {
		err = ErrInterruptInvalid
		return
	}

	ic.mutex.Lock()
	defer ic.mutex.Unlock()

	ic.vector[n] = addr
	return
}

// Get returns the handler address of an interrupt.
func (ic *Interrupts) Get(n uint16) (addr uint16, err error) {
	if n >= INTERRUPT_COUNT {
		err = ErrInterruptInvalid
		return
	}

	ic.mutex.RLock()
	defer ic.mutex.RUnlock()

	addr = ic.vector[n]
	if addr == 0 {
		err = ErrInterruptUnset
	}
	return
}

// interrupt enters the handler of interrupt n at EL1, saving the
// elevation level and the stack pointer of the interrupted code.
func (core *Core) interrupt(n uint16) {
	handler, err := core.Interrupts.Get(n)
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		return
	}

	level := core.Register[REG_EL]
	sp := core.Register[REG_SP]

	if core.Level() == EL0 {
		// The handler frame goes where the user stack really is.
		phys, err := core.Memory.Translate(&core.Mapping, false, sp, mpu.FLAG_WRITE)
		if err != nil {
			core.fault(TERM_BAD_ACCESS, err)
			return
		}
		core.Register[REG_SP] = uint16(phys)
	}

	core.Register[REG_ELB] = level
	core.Register[REG_EL] = uint16(EL1)

	if !core.push(sp) {
		return
	}

	core.branchLink(handler)
}

// interruptReturn returns from an interrupt handler.
func (core *Core) interruptReturn() {
	if !core.ret() {
		return
	}

	sp, ok := core.pop()
	if !ok {
		return
	}

	core.Register[REG_SP] = sp
	core.Register[REG_EL] = core.Register[REG_ELB]
}
