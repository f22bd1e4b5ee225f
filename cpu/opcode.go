package cpu

// Opcode is the instruction opcode, stored in byte 0 of every instruction.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HLT       = Opcode(0)  // hlt
	OP_NOP       = Opcode(1)  // nop
	OP_IN        = Opcode(2)  // in
	OP_OUT       = Opcode(3)  // out
	OP_LDB       = Opcode(4)  // ldb
	OP_STB       = Opcode(5)  // stb
	OP_LDW       = Opcode(6)  // ldw
	OP_STW       = Opcode(7)  // stw
	OP_CASB      = Opcode(8)  // casb
	OP_CASW      = Opcode(9)  // casw
	OP_FAAB      = Opcode(10) // faab
	OP_FAAW      = Opcode(11) // faaw
	OP_FENCE     = Opcode(12) // fence
	OP_MOV       = Opcode(13) // mov
	OP_SWP       = Opcode(14) // swp
	OP_SWPZ      = Opcode(15) // swpz
	OP_PUSH      = Opcode(16) // push
	OP_POP       = Opcode(17) // pop
	OP_ADD       = Opcode(18) // add
	OP_SUB       = Opcode(19) // sub
	OP_MUL       = Opcode(20) // mul
	OP_DIV       = Opcode(21) // div
	OP_IDIV      = Opcode(22) // idiv
	OP_INC       = Opcode(23) // inc
	OP_DEC       = Opcode(24) // dec
	OP_NOT       = Opcode(25) // not
	OP_AND       = Opcode(26) // and
	OP_OR        = Opcode(27) // or
	OP_XOR       = Opcode(28) // xor
	OP_SHR       = Opcode(29) // shr
	OP_SHL       = Opcode(30) // shl
	OP_ROR       = Opcode(31) // ror
	OP_ROL       = Opcode(32) // rol
	OP_JMP       = Opcode(33) // jmp
	OP_CMP       = Opcode(34) // cmp
	OP_JE        = Opcode(35) // je
	OP_JNE       = Opcode(36) // jne
	OP_JLT       = Opcode(37) // jlt
	OP_JGT       = Opcode(38) // jgt
	OP_JLE       = Opcode(39) // jle
	OP_JGE       = Opcode(40) // jge
	OP_BL        = Opcode(41) // bl
	OP_RET       = Opcode(42) // ret
	OP_INT       = Opcode(43) // int
	OP_INTSET    = Opcode(44) // intset
	OP_INTRET    = Opcode(45) // intret
	OP_PPCNT     = Opcode(46) // ppcnt
	OP_PPKTRRSET = Opcode(47) // ppktrrset
	OP_VPSET     = Opcode(48) // vpset
	OP_VPGET     = Opcode(49) // vpget
	OP_VPFLGSET  = Opcode(50) // vpflgset
	OP_VPFLGGET  = Opcode(51) // vpflgget
	OP_VPADDR    = Opcode(52) // vpaddr
	OP_NEG       = Opcode(53) // neg

	OP_COUNT = 54 // Number of assigned opcodes.
)

// Mode is the operand coding combination of an instruction.
type Mode uint8

//go:generate go tool stringer -linecomment -type=Mode
const (
	MODE_NONE      = Mode(0) // none
	MODE_REG       = Mode(1) // reg
	MODE_REG_REG   = Mode(2) // reg,reg
	MODE_IMM16     = Mode(3) // imm16
	MODE_IMM16_REG = Mode(4) // imm16,reg
	MODE_REG_IMM16 = Mode(5) // reg,imm16
	MODE_IMM8_IMM8 = Mode(6) // imm8,imm8
	MODE_RESERVED  = Mode(7) // reserved
)

// modeSet is a bit set of legal modes.
type modeSet uint8

func setOf(modes ...Mode) (set modeSet) {
	for _, mode := range modes {
		set |= 1 << mode
	}
	return
}

// Has returns true if the mode is in the set.
func (set modeSet) Has(mode Mode) bool {
	return set&(1<<mode) != 0
}

var (
	modesNone   = setOf(MODE_NONE)
	modesReg    = setOf(MODE_REG)
	modesTarget = setOf(MODE_REG, MODE_IMM16)
	modesRegReg = setOf(MODE_REG_REG)
	modesDst    = setOf(MODE_REG_REG, MODE_REG_IMM16)
	modesBinary = setOf(MODE_REG_REG, MODE_REG_IMM16, MODE_IMM16_REG, MODE_IMM8_IMM8)
)

// opcodeInfo describes the assembler and privilege rules of an opcode.
type opcodeInfo struct {
	modes  modeSet // Legal coding combinations.
	kernel bool    // Only executable at EL1.
}

var opcodeTable = [OP_COUNT]opcodeInfo{
	OP_HLT:       {modes: modesNone},
	OP_NOP:       {modes: modesNone},
	OP_IN:        {modes: modesDst, kernel: true},
	OP_OUT:       {modes: modesBinary, kernel: true},
	OP_LDB:       {modes: modesDst},
	OP_STB:       {modes: modesBinary},
	OP_LDW:       {modes: modesDst},
	OP_STW:       {modes: modesBinary},
	OP_CASB:      {modes: modesBinary},
	OP_CASW:      {modes: modesBinary},
	OP_FAAB:      {modes: modesBinary},
	OP_FAAW:      {modes: modesBinary},
	OP_FENCE:     {modes: modesNone},
	OP_MOV:       {modes: modesDst},
	OP_SWP:       {modes: modesRegReg},
	OP_SWPZ:      {modes: modesRegReg},
	OP_PUSH:      {modes: modesTarget},
	OP_POP:       {modes: modesReg},
	OP_ADD:       {modes: modesDst},
	OP_SUB:       {modes: modesDst},
	OP_MUL:       {modes: modesDst},
	OP_DIV:       {modes: modesDst},
	OP_IDIV:      {modes: modesDst},
	OP_INC:       {modes: modesReg},
	OP_DEC:       {modes: modesReg},
	OP_NOT:       {modes: modesReg},
	OP_AND:       {modes: modesDst},
	OP_OR:        {modes: modesDst},
	OP_XOR:       {modes: modesDst},
	OP_SHR:       {modes: modesDst},
	OP_SHL:       {modes: modesDst},
	OP_ROR:       {modes: modesDst},
	OP_ROL:       {modes: modesDst},
	OP_JMP:       {modes: modesTarget},
	OP_CMP:       {modes: modesBinary},
	OP_JE:        {modes: modesTarget},
	OP_JNE:       {modes: modesTarget},
	OP_JLT:       {modes: modesTarget},
	OP_JGT:       {modes: modesTarget},
	OP_JLE:       {modes: modesTarget},
	OP_JGE:       {modes: modesTarget},
	OP_BL:        {modes: modesTarget},
	OP_RET:       {modes: modesNone},
	OP_INT:       {modes: modesTarget},
	OP_INTSET:    {modes: modesBinary, kernel: true},
	OP_INTRET:    {modes: modesNone, kernel: true},
	OP_PPCNT:     {modes: modesReg, kernel: true},
	OP_PPKTRRSET: {modes: modesBinary, kernel: true},
	OP_VPSET:     {modes: modesBinary, kernel: true},
	OP_VPGET:     {modes: modesDst, kernel: true},
	OP_VPFLGSET:  {modes: modesBinary, kernel: true},
	OP_VPFLGGET:  {modes: modesDst, kernel: true},
	OP_VPADDR:    {modes: modesReg, kernel: true},
	OP_NEG:       {modes: modesReg},
}

// Valid returns true if the opcode is assigned.
func (op Opcode) Valid() bool {
	return int(op) < OP_COUNT
}

// Kernel returns true if the opcode may only be executed at EL1.
func (op Opcode) Kernel() bool {
	return op.Valid() && opcodeTable[op].kernel
}

// Accepts returns true if mode is a legal coding combination for the opcode.
func (op Opcode) Accepts(mode Mode) bool {
	return op.Valid() && opcodeTable[op].modes.Has(mode)
}

// opcodeMap maps assembler mnemonics to opcodes.
var opcodeMap = func() map[string]Opcode {
	ops := make(map[string]Opcode, OP_COUNT)
	for n := range OP_COUNT {
		op := Opcode(n)
		ops[op.String()] = op
	}
	return ops
}()

// LookupOpcode returns the opcode of a mnemonic.
func LookupOpcode(mnemonic string) (op Opcode, ok bool) {
	op, ok = opcodeMap[mnemonic]
	return
}
