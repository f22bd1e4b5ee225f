// Package cpu implements the instruction codec, assembler and execution
// core of the LA16 16-bit machine.
//
// An LA16 core has 32 addressable 16-bit registers: the special registers
// pc, sp, fp and cf, the general registers r0-r24 and rr, and the privileged
// registers el and elb. Every instruction is a fixed 4 byte word whose
// first byte is the opcode. The next 3 bits select one of the operand coding
// combinations.
//
// Cores run at one of two elevation levels. EL1 (kernel) accesses physical
// memory directly. EL0 (user) is translated and checked through the core's
// MPU mapping, and cannot use kernel-only opcodes or privileged registers.
//
// The assembler is a two pass assembler with sections, scoped labels,
// named constants, compile-time expressions and a register-hazard aware
// `call` calling-convention macro.
package cpu
