// Copyright 2024, cr4zyengineer

package cpu

import (
	"fmt"
)

const (
	CODE_WIDTH = 4 // Bytes per instruction word.

	codeModeShift = 13
	codeRegAShift = 8
	codeRegBShift = 16
	codeImmShift  = 16
	codeImm8Shift = 24

	codeOpMask   = 0xff
	codeModeMask = 0x7
	codeRegMask  = 0x1f
	codeImmMask  = 0xffff
	codeImm8Mask = 0xff
)

// Code is a single instruction word.
//
//	bits  0..7   opcode
//	bits  8..12  register A (operand b of imm16,reg)
//	bits 13..15  coding combination
//	bits 16..20  register B (reg,reg)
//	bits 16..31  imm16
//	bits 16..23  imm8 A, bits 24..31 imm8 B (imm8,imm8)
//
// In memory the word is stored little-endian, so byte 0 is the opcode.
type Code uint32

func makeCode(op Opcode, mode Mode, rest uint32) Code {
	return Code(uint32(op) | (uint32(mode&codeModeMask) << codeModeShift) | rest)
}

func regField(reg Register, shift int) uint32 {
	return (uint32(reg) & codeRegMask) << shift
}

// MakeCodeNone creates an instruction without operands.
func MakeCodeNone(op Opcode) Code {
	return makeCode(op, MODE_NONE, 0)
}

// MakeCodeReg creates a single register instruction.
func MakeCodeReg(op Opcode, reg Register) Code {
	return makeCode(op, MODE_REG, regField(reg, codeRegAShift))
}

// MakeCodeRegReg creates a register, register instruction.
func MakeCodeRegReg(op Opcode, rega, regb Register) Code {
	return makeCode(op, MODE_REG_REG, regField(rega, codeRegAShift)|regField(regb, codeRegBShift))
}

// MakeCodeImm creates a single 16-bit immediate instruction.
func MakeCodeImm(op Opcode, imm uint16) Code {
	return makeCode(op, MODE_IMM16, uint32(imm)<<codeImmShift)
}

// MakeCodeImmReg creates an immediate, register instruction.
func MakeCodeImmReg(op Opcode, imm uint16, reg Register) Code {
	return makeCode(op, MODE_IMM16_REG, regField(reg, codeRegAShift)|uint32(imm)<<codeImmShift)
}

// MakeCodeRegImm creates a register, immediate instruction.
func MakeCodeRegImm(op Opcode, reg Register, imm uint16) Code {
	return makeCode(op, MODE_REG_IMM16, regField(reg, codeRegAShift)|uint32(imm)<<codeImmShift)
}

// MakeCodeImm8 creates an 8-bit immediate, 8-bit immediate instruction.
func MakeCodeImm8(op Opcode, imma, immb uint8) Code {
	return makeCode(op, MODE_IMM8_IMM8, uint32(imma)<<codeImmShift|uint32(immb)<<codeImm8Shift)
}

// MakeCode encodes an instruction from its operand slot values.
//
// Slot a is the first operand and slot b the second; slots not used by the
// mode are ignored. Values that do not fit their field are an error.
func MakeCode(op Opcode, mode Mode, a, b uint16) (code Code, err error) {
	reg := func(value uint16) (reg Register) {
		reg = Register(value)
		if value >= REGISTER_COUNT && err == nil {
			err = ErrRegisterInvalid
		}
		return
	}

	imm8 := func(value uint16) uint8 {
		if value > codeImm8Mask && err == nil {
			err = ErrImmediateRange
		}
		return uint8(value)
	}

	switch mode {
	case MODE_NONE:
		code = MakeCodeNone(op)
	case MODE_REG:
		code = MakeCodeReg(op, reg(a))
	case MODE_REG_REG:
		code = MakeCodeRegReg(op, reg(a), reg(b))
	case MODE_IMM16:
		code = MakeCodeImm(op, a)
	case MODE_IMM16_REG:
		code = MakeCodeImmReg(op, a, reg(b))
	case MODE_REG_IMM16:
		code = MakeCodeRegImm(op, reg(a), b)
	case MODE_IMM8_IMM8:
		code = MakeCodeImm8(op, imm8(a), imm8(b))
	default:
		err = ErrModeInvalid
	}

	if err != nil {
		code = 0
	}

	return
}

// Opcode returns the opcode of the instruction.
func (code Code) Opcode() Opcode {
	return Opcode(uint32(code) & codeOpMask)
}

// Mode returns the coding combination of the instruction.
func (code Code) Mode() Mode {
	return Mode((uint32(code) >> codeModeShift) & codeModeMask)
}

func (code Code) regA() Register {
	return Register((uint32(code) >> codeRegAShift) & codeRegMask)
}

func (code Code) regB() Register {
	return Register((uint32(code) >> codeRegBShift) & codeRegMask)
}

func (code Code) imm16() uint16 {
	return uint16((uint32(code) >> codeImmShift) & codeImmMask)
}

// Decode returns the opcode, coding combination and operand slot values.
//
// Register slots hold the register id; the decoder does not judge whether
// the id is accessible, that is left to the executing core.
func (code Code) Decode() (op Opcode, mode Mode, a, b uint16) {
	op = code.Opcode()
	mode = code.Mode()

	switch mode {
	case MODE_REG:
		a = uint16(code.regA())
	case MODE_REG_REG:
		a = uint16(code.regA())
		b = uint16(code.regB())
	case MODE_IMM16:
		a = code.imm16()
	case MODE_IMM16_REG:
		a = code.imm16()
		b = uint16(code.regA())
	case MODE_REG_IMM16:
		a = uint16(code.regA())
		b = code.imm16()
	case MODE_IMM8_IMM8:
		a = uint16((uint32(code) >> codeImmShift) & codeImm8Mask)
		b = uint16((uint32(code) >> codeImm8Shift) & codeImm8Mask)
	}

	return
}

// Registers returns the register ids named by the instruction.
func (code Code) Registers() (regs []Register) {
	switch code.Mode() {
	case MODE_REG, MODE_IMM16_REG, MODE_REG_IMM16:
		regs = []Register{code.regA()}
	case MODE_REG_REG:
		regs = []Register{code.regA(), code.regB()}
	}
	return
}

// Bytes returns the in-memory form of the instruction.
func (code Code) Bytes() [CODE_WIDTH]byte {
	return [CODE_WIDTH]byte{
		byte(code), byte(code >> 8), byte(code >> 16), byte(code >> 24),
	}
}

// CodeOf returns the instruction stored in the first CODE_WIDTH bytes.
func CodeOf(data []byte) Code {
	_ = data[CODE_WIDTH-1]
	return Code(uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16 | uint32(data[3])<<24)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op, mode, a, b := code.Decode()

	out = op.String()

	switch mode {
	case MODE_NONE:
	case MODE_REG:
		out += fmt.Sprintf(" %v", Register(a))
	case MODE_REG_REG:
		out += fmt.Sprintf(" %v, %v", Register(a), Register(b))
	case MODE_IMM16:
		out += fmt.Sprintf(" 0x%04x", a)
	case MODE_IMM16_REG:
		out += fmt.Sprintf(" 0x%04x, %v", a, Register(b))
	case MODE_REG_IMM16:
		out += fmt.Sprintf(" %v, 0x%04x", Register(a), b)
	case MODE_IMM8_IMM8:
		out += fmt.Sprintf(" 0x%02x, 0x%02x", a, b)
	default:
		out += fmt.Sprintf(" <%v>", mode)
	}

	return
}
