// Copyright 2024, cr4zyengineer

package cpu

import (
	"log"
	"math/bits"

	"github.com/cr4zyengineer/la16/mpu"
)

// operand is a decoded instruction operand: a register, or an immediate.
type operand struct {
	reg   Register
	isReg bool
	value uint16
}

// operands returns the operands of an instruction.
//
// In MODE_IMM16 both operands name the single immediate, and a missing
// operand reads as zero.
func operands(code Code) (x, y operand) {
	_, mode, a, b := code.Decode()

	switch mode {
	case MODE_REG:
		x = operand{reg: Register(a), isReg: true}
	case MODE_REG_REG:
		x = operand{reg: Register(a), isReg: true}
		y = operand{reg: Register(b), isReg: true}
	case MODE_IMM16:
		x = operand{value: a}
		y = x
	case MODE_IMM16_REG:
		x = operand{value: a}
		y = operand{reg: Register(b), isReg: true}
	case MODE_REG_IMM16:
		x = operand{reg: Register(a), isReg: true}
		y = operand{value: b}
	case MODE_IMM8_IMM8:
		x = operand{value: a}
		y = operand{value: b}
	}

	return
}

// get reads an operand.
func (core *Core) get(opr operand) uint16 {
	if opr.isReg {
		return core.Register[opr.reg]
	}
	return opr.value
}

// set writes an operand. Writes to an immediate are discarded.
func (core *Core) set(opr operand, value uint16) {
	if opr.isReg {
		core.Register[opr.reg] = value
	}
}

// kernel returns true if memory is addressed physically.
func (core *Core) kernel() bool {
	return core.Level() == EL1
}

// load reads a value of width 1 or 2. Returns false on a fault.
func (core *Core) load(addr uint16, width int) (value uint16, ok bool) {
	value, err := core.Memory.ReadValue(&core.Mapping, core.kernel(), mpu.FLAG_READ, addr, width)
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		return
	}

	ok = true
	return
}

// store writes a value of width 1 or 2. Returns false on a fault.
func (core *Core) store(addr uint16, width int, value uint16) (ok bool) {
	err := core.Memory.WriteValue(&core.Mapping, core.kernel(), addr, width, value)
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		return
	}

	ok = true
	return
}

// jump sets the program counter so that the next instruction is target.
func (core *Core) jump(target uint16) {
	core.Register[REG_PC] = target - CODE_WIDTH
}

// compare returns the signed compare flags of a against b.
func compare(a, b uint16) (cf uint16) {
	sa, sb := int16(a), int16(b)
	switch {
	case sa == sb:
		cf = CF_Z
	case sa < sb:
		cf = CF_L
	default:
		cf = CF_G
	}
	return
}

// condition returns true if the jump condition of op holds.
func (core *Core) condition(op Opcode) bool {
	cf := core.Register[REG_CF]

	switch op {
	case OP_JE:
		return cf&CF_Z != 0
	case OP_JNE:
		return cf&CF_Z == 0
	case OP_JLT:
		return cf&CF_L != 0
	case OP_JGT:
		return cf&CF_G != 0
	case OP_JLE:
		return cf&(CF_L|CF_Z) != 0
	case OP_JGE:
		return cf&(CF_G|CF_Z) != 0
	}

	return false
}

// compareAndSwap stores value at addr if memory holds rr. On a match cf is
// CF_Z; otherwise rr receives the memory value and cf the comparison.
func (core *Core) compareAndSwap(addr uint16, width int, value uint16) {
	mask := uint16(0xffff)
	if width == 1 {
		mask = 0xff
	}
	expect := core.Register[REG_RR] & mask

	old, err := core.Memory.Update(&core.Mapping, core.kernel(), addr, width, func(old uint16) (uint16, bool) {
		return value & mask, old == expect
	})
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		return
	}

	if old == expect {
		core.Register[REG_CF] = CF_Z
		return
	}

	core.Register[REG_CF] = compare(expect, old)
	core.Register[REG_RR] = old
}

// fetchAndAdd adds delta to the value at addr; rr receives the old value.
func (core *Core) fetchAndAdd(addr uint16, width int, delta uint16) {
	old, err := core.Memory.Update(&core.Mapping, core.kernel(), addr, width, func(old uint16) (uint16, bool) {
		return old + delta, true
	})
	if err != nil {
		core.fault(TERM_BAD_ACCESS, err)
		return
	}

	core.Register[REG_RR] = old
}

// portIn reads a byte from a port. A port with nothing attached, or one
// that fails to read, leaves the destination unchanged.
func (core *Core) portIn(x operand, number uint16) {
	if int(number) >= len(core.port) || core.port[number] == nil {
		return
	}

	c, err := core.port[number].ReadByte()
	if err != nil {
		if core.Verbose {
			log.Printf("core %d: in %d: %v", core.Id, number, err)
		}
		return
	}

	core.set(x, uint16(c))
}

// portOut writes a byte to a port. A port with nothing attached discards it.
func (core *Core) portOut(number uint16, value uint16) {
	if int(number) >= len(core.port) || core.port[number] == nil {
		return
	}

	err := core.port[number].WriteByte(byte(value))
	if err != nil && core.Verbose {
		log.Printf("core %d: out %d: %v", core.Id, number, err)
	}
}

// checkPage validates a virtual page operand.
func (core *Core) checkPage(vpage uint16) (ok bool) {
	if vpage >= mpu.VPAGE_COUNT {
		core.fault(TERM_PERMISSION, mpu.ErrPageRange)
		return
	}
	ok = true
	return
}

// Execute executes a single decoded instruction. The program counter is
// not advanced; jumps leave it one instruction before their target.
func (core *Core) Execute(code Code) {
	op := code.Opcode()
	mode := code.Mode()

	if !op.Valid() || mode == MODE_RESERVED {
		core.fault(TERM_HALT, nil)
		return
	}

	level := core.Level()
	if op.Kernel() && level != EL1 {
		core.fault(TERM_PERMISSION, nil)
		return
	}
	for _, reg := range code.Registers() {
		if !reg.Accessible(level) {
			core.fault(TERM_PERMISSION, ErrRegisterInvalid)
			return
		}
	}

	x, y := operands(code)
	a, b := core.get(x), core.get(y)

	switch op {
	case OP_HLT:
		core.fault(TERM_HALT, nil)
	case OP_NOP, OP_FENCE:
	case OP_IN:
		core.portIn(x, b)
	case OP_OUT:
		core.portOut(a, b)
	case OP_LDB:
		if value, ok := core.load(b, 1); ok {
			core.set(x, value)
		}
	case OP_LDW:
		if value, ok := core.load(b, 2); ok {
			core.set(x, value)
		}
	case OP_STB:
		core.store(b, 1, a)
	case OP_STW:
		core.store(b, 2, a)
	case OP_CASB:
		core.compareAndSwap(a, 1, b)
	case OP_CASW:
		core.compareAndSwap(a, 2, b)
	case OP_FAAB:
		core.fetchAndAdd(a, 1, b)
	case OP_FAAW:
		core.fetchAndAdd(a, 2, b)
	case OP_MOV:
		core.set(x, b)
	case OP_SWP:
		core.set(x, b)
		core.set(y, a)
	case OP_SWPZ:
		core.set(x, b)
		core.set(y, 0)
	case OP_PUSH:
		core.push(a)
	case OP_POP:
		if value, ok := core.pop(); ok {
			core.set(x, value)
		}
	case OP_ADD:
		core.set(x, a+b)
	case OP_SUB:
		core.set(x, a-b)
	case OP_MUL:
		core.set(x, a*b)
	case OP_DIV:
		if b == 0 {
			core.set(x, 0xffff)
		} else {
			core.set(x, a/b)
		}
	case OP_IDIV:
		if b == 0 {
			core.set(x, 0xffff)
		} else {
			core.set(x, uint16(int16(a)/int16(b)))
		}
	case OP_INC:
		core.set(x, a+1)
	case OP_DEC:
		core.set(x, a-1)
	case OP_NOT:
		core.set(x, ^a)
	case OP_NEG:
		core.set(x, -a)
	case OP_AND:
		core.set(x, a&b)
	case OP_OR:
		core.set(x, a|b)
	case OP_XOR:
		core.set(x, a^b)
	case OP_SHR:
		core.set(x, a>>b)
	case OP_SHL:
		core.set(x, a<<b)
	case OP_ROR:
		core.set(x, bits.RotateLeft16(a, -int(b%16)))
	case OP_ROL:
		core.set(x, bits.RotateLeft16(a, int(b%16)))
	case OP_JMP:
		core.jump(a)
	case OP_CMP:
		core.Register[REG_CF] = compare(a, b)
	case OP_JE, OP_JNE, OP_JLT, OP_JGT, OP_JLE, OP_JGE:
		if core.condition(op) {
			core.jump(a)
		}
	case OP_BL:
		core.branchLink(a)
	case OP_RET:
		core.ret()
	case OP_INT:
		core.interrupt(a)
	case OP_INTSET:
		err := core.Interrupts.Set(a, b)
		if err != nil {
			core.fault(TERM_BAD_ACCESS, err)
		}
	case OP_INTRET:
		core.interruptReturn()
	case OP_PPCNT:
		core.set(x, uint16(core.Memory.PageCount()))
	case OP_PPKTRRSET:
		err := core.Memory.Protect(a, mpu.Flag(b))
		if err != nil {
			core.fault(TERM_PERMISSION, err)
		}
	case OP_VPSET:
		if !core.checkPage(a) {
			return
		}
		if int(b) >= core.Memory.PageCount() {
			core.fault(TERM_PERMISSION, mpu.ErrPageRange)
			return
		}
		_ = core.Mapping.Set(a, b)
	case OP_VPGET:
		if !core.checkPage(b) {
			return
		}
		ppage, _ := core.Mapping.Get(b)
		core.set(x, ppage)
	case OP_VPFLGSET:
		if !core.checkPage(a) {
			return
		}
		_ = core.Mapping.SetFlags(a, mpu.Flag(b))
	case OP_VPFLGGET:
		if !core.checkPage(b) {
			return
		}
		flags, _ := core.Mapping.Flags(b)
		core.set(x, uint16(flags))
	case OP_VPADDR:
		phys, err := core.Memory.Translate(&core.Mapping, false, a, mpu.FLAG_NONE)
		if err != nil {
			phys = 0
		}
		core.set(x, uint16(phys))
	}
}
