package cpu

// Register is a 5-bit register id.
type Register uint8

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_PC  = Register(0)  // pc
	REG_SP  = Register(1)  // sp
	REG_FP  = Register(2)  // fp
	REG_CF  = Register(3)  // cf
	REG_R0  = Register(4)  // r0
	REG_R1  = Register(5)  // r1
	REG_R2  = Register(6)  // r2
	REG_R3  = Register(7)  // r3
	REG_R4  = Register(8)  // r4
	REG_R5  = Register(9)  // r5
	REG_R6  = Register(10) // r6
	REG_R7  = Register(11) // r7
	REG_R8  = Register(12) // r8
	REG_R9  = Register(13) // r9
	REG_R10 = Register(14) // r10
	REG_R11 = Register(15) // r11
	REG_R12 = Register(16) // r12
	REG_R13 = Register(17) // r13
	REG_R14 = Register(18) // r14
	REG_R15 = Register(19) // r15
	REG_R16 = Register(20) // r16
	REG_R17 = Register(21) // r17
	REG_R18 = Register(22) // r18
	REG_R19 = Register(23) // r19
	REG_R20 = Register(24) // r20
	REG_R21 = Register(25) // r21
	REG_R22 = Register(26) // r22
	REG_R23 = Register(27) // r23
	REG_R24 = Register(28) // r24
	REG_RR  = Register(29) // rr
	REG_EL  = Register(30) // el
	REG_ELB = Register(31) // elb

	REGISTER_COUNT = 32
)

// Tier is the capability class of a register.
type Tier int

//go:generate go tool stringer -linecomment -type=Tier
const (
	TIER_SPECIAL    = Tier(0) // special
	TIER_GENERAL    = Tier(1) // general
	TIER_PRIVILEGED = Tier(2) // privileged
)

// Level is an elevation (privilege) level.
type Level uint16

//go:generate go tool stringer -linecomment -type=Level
const (
	EL0 = Level(0) // el0
	EL1 = Level(1) // el1
)

// Valid returns true if the id fits the register id space.
func (reg Register) Valid() bool {
	return reg < REGISTER_COUNT
}

// Tier returns the capability tier of the register.
func (reg Register) Tier() Tier {
	switch {
	case reg <= REG_CF:
		return TIER_SPECIAL
	case reg <= REG_RR:
		return TIER_GENERAL
	default:
		return TIER_PRIVILEGED
	}
}

// Accessible returns true if the register may be named by an instruction
// executing at the given elevation level.
func (reg Register) Accessible(level Level) bool {
	if !reg.Valid() {
		return false
	}
	return level >= EL1 || reg.Tier() != TIER_PRIVILEGED
}

// registerMap maps assembler register names to registers.
var registerMap = func() map[string]Register {
	regs := make(map[string]Register, REGISTER_COUNT)
	for n := range REGISTER_COUNT {
		reg := Register(n)
		regs[reg.String()] = reg
	}
	return regs
}()

// LookupRegister returns the register of an assembler name.
func LookupRegister(name string) (reg Register, ok bool) {
	reg, ok = registerMap[name]
	return
}
