package mpu

import (
	"errors"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	assert.Equal(MEMORY_SIZE, mem.Size())
	assert.Equal(PAGE_COUNT, mem.PageCount())

	prot, err := mem.Protection(0)
	assert.NoError(err)
	assert.Equal(FLAG_RWX, prot)

	mem = NewMemory(PAGE_SIZE + 1)
	assert.Equal(2*PAGE_SIZE, mem.Size())
	assert.Equal(2, mem.PageCount())
}

func TestMemory_Kernel(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)

	err := mem.WriteValue(nil, true, 0x1234, 2, 0xbeef)
	assert.NoError(err)
	assert.Equal([]byte{0xef, 0xbe}, mem.Peek(0x1234, 2))

	value, err := mem.ReadValue(nil, true, FLAG_READ, 0x1234, 2)
	assert.NoError(err)
	assert.Equal(uint16(0xbeef), value)

	value, err = mem.ReadValue(nil, true, FLAG_READ, 0x1235, 1)
	assert.NoError(err)
	assert.Equal(uint16(0xbe), value)

	// Kernel ignores physical protection.
	assert.NoError(mem.Protect(0x12, FLAG_NONE))
	_, err = mem.ReadValue(nil, true, FLAG_READ, 0x1234, 2)
	assert.NoError(err)

	// A word at the last byte runs off the end.
	err = mem.WriteValue(nil, true, 0xffff, 2, 0x1111)
	assert.ErrorIs(err, ErrBounds)
	assert.Equal([]byte{0x00}, mem.Peek(0xffff, 2))

	assert.NoError(mem.WriteValue(nil, true, 0xffff, 1, 0x11))

	small := NewMemory(PAGE_SIZE)
	_, err = small.ReadValue(nil, true, FLAG_READ, PAGE_SIZE, 1)
	assert.ErrorIs(err, ErrBounds)
}

func TestMemory_User(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	mp := &Mapping{}

	// Nothing is mapped yet.
	err := mem.WriteValue(mp, false, 0x0010, 1, 0x55)
	assert.ErrorIs(err, ErrUnmapped)
	assert.Equal([]byte{0}, mem.Peek(0x0010, 1))

	var access *ErrAccess
	assert.True(errors.As(err, &access))
	assert.Equal(uint16(0x0010), access.Addr)
	assert.Equal(FLAG_WRITE, access.Access)

	// Read-only mapping of vpage 0 onto ppage 0x40.
	assert.NoError(mp.Map(0, 0x40, FLAG_READ))

	err = mem.WriteValue(mp, false, 0x0010, 1, 0x55)
	assert.ErrorIs(err, ErrProtection)
	assert.Equal([]byte{0}, mem.Peek(0x4010, 1))

	_, err = mem.ReadValue(mp, false, FLAG_EXEC, 0x0010, 1)
	assert.ErrorIs(err, ErrProtection)

	// Grant write, and the same access now lands on the physical page.
	assert.NoError(mp.SetFlags(0, FLAG_MAPPED|FLAG_READ|FLAG_WRITE))
	assert.NoError(mem.WriteValue(mp, false, 0x0010, 1, 0x55))
	assert.Equal([]byte{0x55}, mem.Peek(0x4010, 1))

	value, err := mem.ReadValue(mp, false, FLAG_READ, 0x0010, 1)
	assert.NoError(err)
	assert.Equal(uint16(0x55), value)

	phys, err := mem.Translate(mp, false, 0x00ab, FLAG_READ)
	assert.NoError(err)
	assert.Equal(0x40ab, phys)

	// Physical protection bits apply too.
	assert.NoError(mem.Protect(0x40, FLAG_READ))
	err = mem.WriteValue(mp, false, 0x0010, 1, 0x66)
	assert.ErrorIs(err, ErrProtection)
	assert.Equal([]byte{0x55}, mem.Peek(0x4010, 1))
}

func TestMemory_Straddle(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	mp := &Mapping{}

	assert.NoError(mp.Map(1, 0x20, FLAG_READ|FLAG_WRITE))
	assert.NoError(mp.Map(2, 0x08, FLAG_READ))

	// Second byte is on a read-only page.
	err := mem.WriteValue(mp, false, 0x01ff, 2, 0xaabb)
	assert.ErrorIs(err, ErrProtection)
	assert.Equal([]byte{0}, mem.Peek(0x20ff, 1))

	assert.NoError(mp.SetFlags(2, FLAG_MAPPED|FLAG_READ|FLAG_WRITE))
	assert.NoError(mem.WriteValue(mp, false, 0x01ff, 2, 0xaabb))
	assert.Equal([]byte{0xbb}, mem.Peek(0x20ff, 1))
	assert.Equal([]byte{0xaa}, mem.Peek(0x0800, 1))

	value, err := mem.ReadValue(mp, false, FLAG_READ, 0x01ff, 2)
	assert.NoError(err)
	assert.Equal(uint16(0xaabb), value)

	// Off the top of the virtual address space.
	assert.NoError(mp.Map(0xff, 0x30, FLAG_RWX))
	_, err = mem.ReadValue(mp, false, FLAG_READ, 0xffff, 2)
	assert.ErrorIs(err, ErrBounds)
}

func TestMemory_PhysicalRange(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(4 * PAGE_SIZE)
	mp := &Mapping{}

	assert.NoError(mp.Map(0, 4, FLAG_RWX))
	_, err := mem.ReadValue(mp, false, FLAG_READ, 0, 1)
	assert.ErrorIs(err, ErrBounds)

	assert.ErrorIs(mem.Protect(4, FLAG_RWX), ErrPageRange)
	_, err = mem.Protection(4)
	assert.ErrorIs(err, ErrPageRange)
}

func TestMemory_Update(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(MEMORY_SIZE)
	assert.NoError(mem.WriteValue(nil, true, 0x100, 2, 41))

	old, err := mem.Update(nil, true, 0x100, 2, func(old uint16) (uint16, bool) {
		return old + 1, true
	})
	assert.NoError(err)
	assert.Equal(uint16(41), old)
	assert.Equal([]byte{42, 0}, mem.Peek(0x100, 2))

	old, err = mem.Update(nil, true, 0x100, 1, func(old uint16) (uint16, bool) {
		return 0, false
	})
	assert.NoError(err)
	assert.Equal(uint16(42), old)
	assert.Equal([]byte{42}, mem.Peek(0x100, 1))

	// Needs both read and write.
	mp := &Mapping{}
	assert.NoError(mp.Map(0, 1, FLAG_READ))
	_, err = mem.Update(mp, false, 0x00, 2, func(old uint16) (uint16, bool) {
		return 0, true
	})
	assert.ErrorIs(err, ErrProtection)
}

func TestMemory_Load(t *testing.T) {
	assert := assert.New(t)

	mem := NewMemory(PAGE_SIZE)
	assert.NoError(mem.Load(0x10, []byte{1, 2, 3}))
	assert.Equal([]byte{1, 2, 3}, mem.Peek(0x10, 3))

	assert.ErrorIs(mem.Load(PAGE_SIZE-1, []byte{1, 2}), ErrBounds)

	mem.Reset()
	assert.Equal([]byte{0, 0, 0}, mem.Peek(0x10, 3))
}

func TestMapping(t *testing.T) {
	assert := assert.New(t)

	mp := &Mapping{}

	table := [](struct {
		vpage uint16
		ppage uint16
		flags Flag
		err   error
	}){
		{0, 3, FLAG_MAPPED | FLAG_READ, nil},
		{0xff, 0xff, FLAG_MASK, nil},
		{0x100, 1, FLAG_MAPPED, ErrPageRange},
		{0xffff, 1, FLAG_MAPPED, ErrPageRange},
	}

	for _, entry := range table {
		assert.ErrorIs(mp.Set(entry.vpage, entry.ppage), entry.err)
		assert.ErrorIs(mp.SetFlags(entry.vpage, entry.flags), entry.err)
		if entry.err != nil {
			continue
		}
		ppage, err := mp.Get(entry.vpage)
		assert.NoError(err)
		assert.Equal(entry.ppage, ppage)
		flags, err := mp.Flags(entry.vpage)
		assert.NoError(err)
		assert.Equal(entry.flags, flags)
	}

	// Unknown bits are dropped.
	assert.NoError(mp.SetFlags(1, 0xff))
	flags, _ := mp.Flags(1)
	assert.Equal(FLAG_MASK, flags)

	mp.Reset()
	flags, _ = mp.Flags(0)
	assert.Equal(FLAG_NONE, flags)
}

func TestFlag_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("----", FLAG_NONE.String())
	assert.Equal("mrwx", FLAG_MASK.String())
	assert.Equal("-r-x", (FLAG_READ | FLAG_EXEC).String())
	assert.True(FLAG_RWX.Has(FLAG_READ | FLAG_WRITE))
	assert.False(FLAG_READ.Has(FLAG_READ | FLAG_WRITE))
}

func TestDefines(t *testing.T) {
	assert := assert.New(t)

	defines := maps.Collect(Defines())
	assert.Equal("0x1", defines["PAGE_MAPPED"])
	assert.Equal("0x2", defines["PAGE_READ"])
	assert.Equal("0x4", defines["PAGE_WRITE"])
	assert.Equal("0x8", defines["PAGE_EXEC"])
	assert.Equal("0x100", defines["VPAGE_COUNT"])
}
