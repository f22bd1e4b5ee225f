package emulator

import (
	"bytes"
	"context"
	"maps"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cr4zyengineer/la16/cpu"
	"github.com/cr4zyengineer/la16/io"
)

// boot assembles a program with the machine defines and loads it.
func boot(t *testing.T, mach *Machine, source string) {
	img, err := mach.Assembler().Assemble(source)
	if !assert.NoError(t, err) {
		t.FailNow()
	}

	if !assert.NoError(t, mach.Load(img)) {
		t.FailNow()
	}
}

func TestMachine(t *testing.T) {
	assert := assert.New(t)

	_, err := NewMachine(0, nil)
	assert.ErrorIs(err, ErrCoreCount)

	_, err = NewMachine(CORE_MAX+1, nil)
	assert.ErrorIs(err, ErrCoreCount)

	mach, err := NewMachine(2, nil)
	assert.NoError(err)
	assert.False(mach.Verbose)
	assert.Len(mach.Cores, 2)
	assert.NotNil(mach.Serial)
	assert.ErrorIs(mach.Run(2), ErrCoreIndex)

	defines := maps.Collect(mach.Defines())
	for _, name := range []string{"CORE_MAX", "PAGE_SIZE", "PAGE_COUNT", "STACK_TOP", "PORT_SERIAL", "PORT_FIFO", "CF_Z"} {
		assert.Contains(defines, name)
	}
	assert.Equal("0x100", defines["PAGE_SIZE"])
	assert.Equal("0xfffe", defines["STACK_TOP"])
}

func TestMachine_Defines(t *testing.T) {
	assert := assert.New(t)

	mach, err := NewMachine(1, nil)
	assert.NoError(err)

	var source strings.Builder
	source.WriteString("_start:\n")
	for _, name := range slices.Sorted(maps.Keys(maps.Collect(mach.Defines()))) {
		source.WriteString("  mov r1, " + name + "\n")
	}
	source.WriteString("  mov r0, PAGE_READ\n  or r0, PAGE_EXEC\n  hlt\n")

	boot(t, mach, source.String())
	assert.NoError(mach.Run(0))
	assert.Equal(uint16(0xa), mach.Cores[0].Register[cpu.REG_R0])
}

func TestMachine_Hello(t *testing.T) {
	assert := assert.New(t)

	var output bytes.Buffer
	mach, err := NewMachine(1, &io.Serial{Input: strings.NewReader("!"), Output: &output})
	assert.NoError(err)

	boot(t, mach, `
section .data
msg: db "hello", 0
_start:
  mov r0, msg
.next:
  ldb r1, r0
  cmp r1, 0
  je .done
  out PORT_SERIAL, r1
  inc r0
  jmp .next
.done:
  in r1, PORT_SERIAL
  out PORT_SERIAL, r1
  out PORT_FIFO, 'x'
  hlt
`)

	assert.NoError(mach.Run(0))
	assert.Equal("hello!", output.String())
	assert.Equal(cpu.TERM_HALT, mach.Cores[0].Term)

	c, err := mach.Fifo.ReadByte()
	assert.NoError(err)
	assert.Equal(byte('x'), c)

	// Loading again resets memory, vectors, ports and cores.
	boot(t, mach, "_start: hlt\n")
	assert.Equal(cpu.TERM_NONE, mach.Cores[0].Term)
	assert.Equal(uint16(4), mach.Cores[0].Pc())
	assert.Equal([]byte{0, 0}, mach.Memory.Peek(8, 2))
	_, err = mach.Fifo.ReadByte()
	assert.ErrorIs(err, io.ErrPortEmpty)
}

func TestMachine_Fault(t *testing.T) {
	assert := assert.New(t)

	mach, err := NewMachine(1, nil)
	assert.NoError(err)

	boot(t, mach, `_start:
  mov r0, VPAGE_COUNT
  vpset r0, 0
  hlt
`)

	err = mach.Run(0)
	assert.ErrorIs(err, cpu.ErrPermission)

	var re *ErrRuntime
	if assert.ErrorAs(err, &re) {
		assert.Equal(0, re.Core)
		assert.Equal(3, re.LineNo)
	}
	assert.Equal(3, mach.LineNo(0))
	assert.Equal(0, mach.LineNo(1))
}

func TestMachine_RunAll(t *testing.T) {
	assert := assert.New(t)

	mach, err := NewMachine(4, nil)
	assert.NoError(err)

	boot(t, mach, `
section .data
counter: dw 0
_start:
  mov r0, counter
  mov r1, 100
.loop:
  faaw r0, 1
  dec r1
  cmp r1, 0
  jne .loop
  hlt
`)

	assert.NoError(mach.RunAll(context.Background()))
	assert.Equal([]byte{0x90, 0x01}, mach.Memory.Peek(4, 2))

	for n, core := range mach.Cores {
		assert.Equal(cpu.TERM_HALT, core.Term)
		assert.Equal(cpu.StackTop(n), core.Register[cpu.REG_SP])
	}
}

func TestMachine_RunAllFault(t *testing.T) {
	assert := assert.New(t)

	mach, err := NewMachine(2, nil)
	assert.NoError(err)

	// Only core 0 runs on the top stack, and only it faults.
	boot(t, mach, `_start:
  cmp sp, STACK_TOP
  je .first
  hlt
.first:
  ldw r0, 0xffff
`)

	err = mach.RunAll(context.Background())
	assert.ErrorIs(err, cpu.ErrBadAccess)

	var re *ErrRuntime
	if assert.ErrorAs(err, &re) {
		assert.Equal(0, re.Core)
		assert.Equal(6, re.LineNo)
	}

	assert.Equal(cpu.TERM_BAD_ACCESS, mach.Cores[0].Term)
	assert.Equal(cpu.TERM_HALT, mach.Cores[1].Term)
}

func TestMachine_RunAllCancel(t *testing.T) {
	assert := assert.New(t)

	mach, err := NewMachine(3, nil)
	assert.NoError(err)

	boot(t, mach, "_start: jmp _start\n")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err = mach.RunAll(ctx)
	assert.ErrorIs(err, context.DeadlineExceeded)

	for _, core := range mach.Cores {
		assert.Equal(cpu.TERM_HALT, core.Term)
		assert.False(core.Running())
	}
}
