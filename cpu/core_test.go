package cpu

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cr4zyengineer/la16/io"
	"github.com/cr4zyengineer/la16/mpu"
)

// boot assembles a program and readies core 0 to run it.
func boot(t *testing.T, source string) (core *Core) {
	img := assemble(t, source)

	mem := mpu.NewMemory(mpu.MEMORY_SIZE)
	if !assert.NoError(t, mem.Load(0, img.Bytes)) {
		t.FailNow()
	}

	core = NewCore(0, mem, NewInterrupts())
	core.Reset(img.Entry, STACK_TOP)
	return
}

// userMode maps the first page for execution and the last page as the
// stack, onto physical page 0x80, then drops to EL0.
const userMode = `
_start:
  vpset 0, 0
  vpflgset 0, 11
  vpset 0xff, 0x80
  vpflgset 0xff, 7
  mov el, 0
`

func TestCore_Halt(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
_start:
  mov r0, 5
  add r0, 3
  hlt
  mov r0, 0
`)

	assert.NoError(core.Run())
	assert.Equal(TERM_HALT, core.Term)
	assert.Equal(uint16(12), core.Pc())
	assert.Equal(uint16(8), core.Register[REG_R0])
	assert.Equal(3, core.Ticks)
	assert.Nil(core.Fault())
	assert.False(core.Running())
	assert.True(strings.HasPrefix(core.String(), "core 0: halted, el1, 3 ticks\n"))

	// A halted core stays halted.
	done, err := core.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(3, core.Ticks)
}

func TestCore_Arithmetic(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		source string
		want   uint16
	}{
		{"mov r0, 7\ndiv r0, 2", 3},
		{"mov r0, 7\ndiv r0, 0", 0xffff},
		{"mov r0, 7\nidiv r0, 0", 0xffff},
		{"mov r0, -7\nidiv r0, 2", 0xfffd},
		{"mov r0, 0x8000\nidiv r0, -1", 0x8000},
		{"mov r0, 3\nmov r1, 4\nmul r0, r1", 12},
		{"mov r0, 3\nsub r0, 4", 0xffff},
		{"dec r0", 0xffff},
		{"mov r0, 5\nneg r0", 0xfffb},
		{"mov r0, 0xf0\nnot r0", 0xff0f},
		{"mov r0, 0x0f\nxor r0, 0xff", 0xf0},
		{"mov r0, 0x0f\nand r0, 0x3c", 0x0c},
		{"mov r0, 0x0f\nor r0, 0x30", 0x3f},
		{"mov r0, 1\nshl r0, 4", 0x10},
		{"mov r0, 0x80\nshr r0, 3", 0x10},
		{"mov r0, 0x8001\nror r0, 1", 0xc000},
		{"mov r0, 0x8001\nrol r0, 17", 0x0003},
		{"mov r0, 1\nmov r1, 2\nswp r0, r1", 2},
		{"mov r1, 9\nswpz r0, r1\nadd r0, r1", 9},
		{"mov r0, 'a'\ninc r0", 'b'},
		{"mov r0, -1\ncmp r0, 1\njlt .yes\nhlt\n.yes: mov r0, 1", 1},
		{"mov r0, 2\ncmp r0, 1\njgt .yes\nhlt\n.yes: mov r0, 1", 1},
		{"cmp 5, 5\nje .yes\nmov r0, 9\nhlt\n.yes: mov r0, 1", 1},
		{"cmp 5, 6\nje .yes\nmov r0, 9\nhlt\n.yes: mov r0, 1", 9},
		{"cmp r0, 0\njge .yes\nmov r0, 9\nhlt\n.yes: mov r0, 1", 1},
		{"cmp r0, 0\njle .yes\nmov r0, 9\nhlt\n.yes: mov r0, 1", 1},
		{"cmp r0, 0\njne .yes\nmov r0, 9\nhlt\n.yes: mov r0, 1", 9},
		{"mov r0, 3\n.loop: dec r0\ncmp r0, 0\njne .loop\nmov r0, cf", CF_Z},
		{"mov r1, .next\njmp r1\nmov r0, 9\n.next: mov r0, 1", 1},
		{"push 0x1234\npush 0x5678\npop r0\npop r1\nsub r0, r1", 0x4444},
		{"mov r0, sp\npush 1\nsub r0, sp", 2},
		{"ppcnt r0", mpu.PAGE_COUNT},
		{"in r0, 7", 0},
		{"mov r0, 0xff\nstb r0, 0x100\nmov r1, 0x101\nstb 0x12, r1\nldw r0, 0x100", 0x12ff},
		{"mov r1, 0x1234\nstw r1, 0x100\nldb r0, 0x101", 0x12},
		{"mov r1, 0x200\nstw 0xabcd, r1\nldw r0, r1", 0xabcd},
		{"vpset 3, 0x42\nvpflgset 3, 7\nmov r0, 0x0310\nvpaddr r0", 0x4210},
		{"vpset 3, 0x42\nvpget r0, 3", 0x42},
		{"vpflgset 3, 0x1f\nvpflgget r0, 3", 0x0f},
		{"mov r0, 0x0310\nvpaddr r0", 0},
		{"mov r0, 0x100\nmov rr, 0\ncasw r0, 9\nldw r0, 0x100", 9},
		{"mov r0, 0x100\nmov rr, 1\ncasw r0, 9\nmov r0, cf", CF_G},
		{"mov r1, 0x100\nstw 0x0a, r1\nfaaw r1, 3\nldw r0, r1\nadd r0, rr", 23},
	}

	for _, tc := range table {
		core := boot(t, "_start:\n"+tc.source+"\nhlt\n")
		assert.NoError(core.Run(), tc.source)
		assert.Equal(tc.want, core.Register[REG_R0], tc.source)
	}
}

func TestCore_CallWindow(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
_start:
  mov r0, 1
  mov r5, 5
  mov r24, 24
  cmp r0, 0
  call f, 10
  mov r1, rr
  mov r2, cf
  hlt
f:
  mov rr, r0
  add rr, 100
  mov r5, 0
  mov r24, 0
  cmp r5, 1
  push 7
  ret
`)

	assert.NoError(core.Run())
	assert.Equal(uint16(1), core.Register[REG_R0])
	assert.Equal(uint16(110), core.Register[REG_R1])
	assert.Equal(CF_G, core.Register[REG_R2])
	assert.Equal(uint16(5), core.Register[REG_R5])
	assert.Equal(uint16(24), core.Register[REG_R24])
	assert.Equal(uint16(STACK_TOP), core.Register[REG_SP])
	assert.Equal(uint16(0), core.Register[REG_FP])
}

func TestCore_CompareAndSwap(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
section .data
lock: dw 5
_start:
  mov r0, lock
  mov rr, 5
  casw r0, 9
  mov r1, cf
  mov r2, rr
  casw r0, 7
  mov r3, cf
  mov r4, rr
  ldw r5, lock
  faaw r0, 3
  mov r6, rr
  mov rr, 0x10c
  casb r0, 1
  mov r7, cf
  ldw r8, lock
  faab r0, 0xff
  mov r9, rr
  ldw r10, lock
  hlt
`)

	assert.NoError(core.Run())

	want := map[Register]uint16{
		REG_R1:  CF_Z,
		REG_R2:  5,
		REG_R3:  CF_L,
		REG_R4:  9,
		REG_R5:  9,
		REG_R6:  9,
		REG_R7:  CF_Z,
		REG_R8:  1,
		REG_R9:  1,
		REG_R10: 0,
	}
	for reg, value := range want {
		assert.Equal(value, core.Register[reg], reg.String())
	}
}

func TestCore_Ports(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
_start:
  mov r2, 0x55
  mov r5, 0x55
  out 1, 'h'
  out 1, 'i'
  in r0, 1
  in r1, 1
  in r2, 1
  out 0, r0
  out 0, r1
  in r4, 0
  in r5, 0
  out 9, 'x'
  hlt
`)

	var output bytes.Buffer
	core.Attach(io.PORT_SERIAL, &io.Serial{Input: strings.NewReader("Z"), Output: &output})
	core.Attach(io.PORT_FIFO, io.NewFifo(16))

	assert.NoError(core.Run())
	assert.Equal(uint16('h'), core.Register[REG_R0])
	assert.Equal(uint16('i'), core.Register[REG_R1])
	assert.Equal(uint16(0x55), core.Register[REG_R2])
	assert.Equal(uint16('Z'), core.Register[REG_R4])
	assert.Equal(uint16(0x55), core.Register[REG_R5])
	assert.Equal("hi", output.String())
}

func TestCore_Faults(t *testing.T) {
	assert := assert.New(t)

	type fault struct {
		term  Term
		cause error
	}

	table := map[string]fault{
		"ldw r0, 0xffff":               {TERM_BAD_ACCESS, mpu.ErrBounds},
		"int 5":                        {TERM_BAD_ACCESS, ErrInterruptUnset},
		"mov r0, 300\nint r0":          {TERM_BAD_ACCESS, ErrInterruptInvalid},
		"mov r0, 300\nintset r0, 4":    {TERM_BAD_ACCESS, ErrInterruptInvalid},
		"mov r0, 256\nvpset r0, 1":     {TERM_PERMISSION, mpu.ErrPageRange},
		"mov r0, 256\nvpset 1, r0":     {TERM_PERMISSION, mpu.ErrPageRange},
		"mov r0, 256\nvpget r1, r0":    {TERM_PERMISSION, mpu.ErrPageRange},
		"mov r0, 256\nvpflgset r0, 1":  {TERM_PERMISSION, mpu.ErrPageRange},
		"mov r0, 256\nvpflgget r1, r0": {TERM_PERMISSION, mpu.ErrPageRange},
		"mov r0, 300\nppktrrset r0, 7": {TERM_PERMISSION, mpu.ErrPageRange},
	}

	for snippet, want := range table {
		core := boot(t, "_start:\n"+snippet+"\nhlt\n")
		err := core.Run()
		assert.Equal(want.term, core.Term, snippet)
		assert.ErrorIs(err, want.cause, snippet)

		var fe *ErrFault
		if assert.ErrorAs(err, &fe, snippet) {
			assert.Equal(want.term, fe.Term)
			assert.Equal(core.Pc(), fe.Pc)
		}

		switch want.term {
		case TERM_BAD_ACCESS:
			assert.ErrorIs(err, ErrBadAccess, snippet)
		case TERM_PERMISSION:
			assert.ErrorIs(err, ErrPermission, snippet)
		}

		// The program counter stays on the faulting instruction.
		lines := strings.Count(snippet, "\n")
		assert.Equal(uint16(4+lines*CODE_WIDTH), core.Pc(), snippet)
	}
}

func TestCore_User(t *testing.T) {
	assert := assert.New(t)

	table := map[string]error{
		"mov r0, 1":                      nil,
		"push 1\npop r0":                 nil,
		"stw r0, 0xff00\nldw r0, 0xff00": nil,
		"ldw r1, 0x0100":                 mpu.ErrUnmapped,
		"stw r0, 0x0010":                 mpu.ErrProtection,
		"jmp 0x0100":                     mpu.ErrUnmapped,
		"in r0, 0":                       ErrPermission,
		"intret":                         ErrPermission,
		"mov r0, el":                     ErrRegisterInvalid,
		"mov elb, 1":                     ErrRegisterInvalid,
	}

	for snippet, want := range table {
		core := boot(t, userMode+snippet+"\nhlt\n")
		err := core.Run()
		assert.Equal(EL0, core.Level(), snippet)
		if want == nil {
			assert.NoError(err, snippet)
			assert.Equal(TERM_HALT, core.Term, snippet)
			continue
		}
		assert.ErrorIs(err, want, snippet)
	}
}

func TestCore_Protect(t *testing.T) {
	assert := assert.New(t)

	// Kernel accesses bypass physical protection.
	core := boot(t, "_start:\nppktrrset 0x80, 2\nmov r0, 0x8000\nstw 1, r0\nhlt\n")
	assert.NoError(core.Run())

	core = boot(t, "_start:\nppktrrset 0x80, 2\n"+userMode[len("\n_start:\n"):]+"push 1\nhlt\n")
	err := core.Run()
	assert.Equal(TERM_BAD_ACCESS, core.Term)
	assert.ErrorIs(err, mpu.ErrProtection)
	assert.ErrorIs(err, ErrBadAccess)
}

func TestCore_Interrupt(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
_start:
  mov r0, handler
  intset 3, r0
  mov r1, 7
  int 3
  mov r2, rr
  hlt
handler:
  mov rr, r1
  add rr, 1
  mov r1, 0
  intret
`)

	assert.NoError(core.Run())
	assert.Equal(uint16(7), core.Register[REG_R1])
	assert.Equal(uint16(8), core.Register[REG_R2])
	assert.Equal(uint16(STACK_TOP), core.Register[REG_SP])
	assert.Equal(EL1, core.Level())
}

func TestCore_InterruptUser(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, `
_start:
  mov r0, handler
  intset 3, r0
  vpset 0, 0
  vpflgset 0, 11
  vpset 0xff, 0x80
  vpflgset 0xff, 7
  mov el, 0
  mov r1, 7
  int 3
  mov r2, rr
  hlt
handler:
  mov rr, el
  add rr, elb
  add rr, r1
  intret
`)

	assert.NoError(core.Run())
	assert.Equal(EL0, core.Level())
	assert.Equal(uint16(8), core.Register[REG_R2])
	assert.Equal(uint16(STACK_TOP), core.Register[REG_SP])

	// The saved stack pointer went to the physical stack page.
	assert.Equal([]byte{0xfe, 0xff}, core.Memory.Peek(0x80fe, 2))
}

func TestCore_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := map[string][]byte{
		"opcode": {0x40, 0x00, 0x00, 0x00},
		"mode":   {byte(OP_NOP), 0xe0, 0x00, 0x00},
	}

	for name, code := range table {
		mem := mpu.NewMemory(mpu.MEMORY_SIZE)
		assert.NoError(mem.Load(0, []byte{4, 0, 0, 0}))
		assert.NoError(mem.Load(4, code))

		core := NewCore(0, mem, NewInterrupts())
		core.Reset(4, STACK_TOP)
		assert.NoError(core.Run(), name)
		assert.Equal(TERM_HALT, core.Term, name)
		assert.Equal(uint16(4), core.Pc(), name)
	}
}

func TestCore_Terminate(t *testing.T) {
	assert := assert.New(t)

	core := boot(t, "_start: jmp _start\n")

	done := make(chan error)
	go func() {
		done <- core.Run()
	}()

	for !core.Running() {
		runtime.Gosched()
	}
	assert.ErrorIs(core.Run(), ErrCoreRunning)

	core.Terminate()
	assert.NoError(<-done)
	assert.Equal(TERM_HALT, core.Term)
	assert.Equal(uint16(4), core.Pc())

	core.Reset(4, STACK_TOP)
	assert.Equal(TERM_NONE, core.Term)
	assert.Equal(EL1, core.Level())
	assert.Equal(uint16(STACK_TOP), core.Register[REG_SP])

	done2, err := core.Tick()
	assert.False(done2)
	assert.NoError(err)
	assert.Equal(uint16(4), core.Pc())
	assert.Nil(core.Fault())
}
