// Copyright 2024, cr4zyengineer

package mpu

import (
	"log"
	"sync"
)

// Memory is the physical memory shared by all cores of a machine.
//
// All byte access and all protection changes are serialized by a single
// mutex, so word sized accesses are atomic with respect to other cores.
type Memory struct {
	Verbose bool // If set, logs protection changes.

	mutex sync.Mutex
	data  []byte
	prot  []Flag
}

// NewMemory allocates physical memory of size bytes, rounded up to a whole
// number of pages. Every page starts with read/write/execute protection.
func NewMemory(size int) (mem *Memory) {
	pages := (size + PAGE_MASK) >> PAGE_SHIFT
	mem = &Memory{
		data: make([]byte, pages<<PAGE_SHIFT),
		prot: make([]Flag, pages),
	}

	mem.Reset()

	return
}

// Reset zeros memory and restores full protection bits on every page.
func (mem *Memory) Reset() {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	clear(mem.data)
	for n := range mem.prot {
		mem.prot[n] = FLAG_RWX
	}
}

// Size returns the size of physical memory in bytes.
func (mem *Memory) Size() int {
	return len(mem.data)
}

// PageCount returns the number of physical pages.
func (mem *Memory) PageCount() int {
	return len(mem.prot)
}

// Protect replaces the protection bits of a physical page.
func (mem *Memory) Protect(ppage uint16, prot Flag) (err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	if int(ppage) >= len(mem.prot) {
		err = ErrPageRange
		return
	}

	if mem.Verbose {
		log.Printf("mpu: page 0x%02x protection %v", ppage, prot&FLAG_RWX)
	}

	mem.prot[ppage] = prot & FLAG_RWX
	return
}

// Protection returns the protection bits of a physical page.
func (mem *Memory) Protection(ppage uint16) (prot Flag, err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	if int(ppage) >= len(mem.prot) {
		err = ErrPageRange
		return
	}

	prot = mem.prot[ppage]
	return
}

// Load copies data into physical memory at addr, ignoring protection.
func (mem *Memory) Load(addr int, data []byte) (err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	if addr < 0 || addr+len(data) > len(mem.data) {
		err = &ErrAccess{Addr: uint16(addr), Access: FLAG_WRITE, Err: ErrBounds}
		return
	}

	copy(mem.data[addr:], data)
	return
}

// Peek returns a copy of n bytes of physical memory at addr.
func (mem *Memory) Peek(addr int, n int) (data []byte) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	if addr < 0 || addr >= len(mem.data) {
		return
	}
	end := min(addr+n, len(mem.data))
	data = append(data, mem.data[addr:end]...)
	return
}

// translate resolves one virtual byte address. The caller holds the mutex.
func (mem *Memory) translate(mp *Mapping, kernel bool, vaddr int, access Flag) (phys int, err error) {
	if vaddr > 0xffff {
		err = ErrBounds
		return
	}

	if kernel {
		if vaddr >= len(mem.data) {
			err = ErrBounds
			return
		}
		phys = vaddr
		return
	}

	vpage := vaddr >> PAGE_SHIFT
	flags := mp.Flag[vpage]
	if !flags.Has(FLAG_MAPPED) {
		err = ErrUnmapped
		return
	}

	ppage := int(mp.Page[vpage])
	if ppage >= len(mem.prot) {
		err = ErrBounds
		return
	}

	if !flags.Has(access) || !mem.prot[ppage].Has(access) {
		err = ErrProtection
		return
	}

	phys = (ppage << PAGE_SHIFT) | (vaddr & PAGE_MASK)
	return
}

// resolve translates every byte of an access before any byte is touched,
// so a failing access never mutates memory. The caller holds the mutex.
func (mem *Memory) resolve(mp *Mapping, kernel bool, access Flag, addr uint16, width int) (phys []int, err error) {
	phys = make([]int, width)
	for n := range width {
		phys[n], err = mem.translate(mp, kernel, int(addr)+n, access)
		if err != nil {
			err = &ErrAccess{Addr: addr, Access: access, Err: err}
			return
		}
	}
	return
}

// Translate resolves a virtual address to its physical address.
//
// With kernel set the address is physical already and is only checked
// against the size of memory.
func (mem *Memory) Translate(mp *Mapping, kernel bool, addr uint16, access Flag) (phys int, err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	phys, err = mem.translate(mp, kernel, int(addr), access)
	if err != nil {
		err = &ErrAccess{Addr: addr, Access: access, Err: err}
	}
	return
}

// Read fills buf from the address space seen through mp. The access kind
// is FLAG_READ for data and FLAG_EXEC for instruction fetch.
func (mem *Memory) Read(mp *Mapping, kernel bool, access Flag, addr uint16, buf []byte) (err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	phys, err := mem.resolve(mp, kernel, access, addr, len(buf))
	if err != nil {
		return
	}

	for n, pa := range phys {
		buf[n] = mem.data[pa]
	}
	return
}

// Write stores buf into the address space seen through mp.
func (mem *Memory) Write(mp *Mapping, kernel bool, addr uint16, buf []byte) (err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	phys, err := mem.resolve(mp, kernel, FLAG_WRITE, addr, len(buf))
	if err != nil {
		return
	}

	for n, pa := range phys {
		mem.data[pa] = buf[n]
	}
	return
}

// ReadValue reads a little-endian value of width 1 or 2.
func (mem *Memory) ReadValue(mp *Mapping, kernel bool, access Flag, addr uint16, width int) (value uint16, err error) {
	var buf [2]byte
	err = mem.Read(mp, kernel, access, addr, buf[:width])
	if err != nil {
		return
	}

	value = uint16(buf[0]) | uint16(buf[1])<<8
	return
}

// WriteValue writes a little-endian value of width 1 or 2.
func (mem *Memory) WriteValue(mp *Mapping, kernel bool, addr uint16, width int, value uint16) (err error) {
	buf := [2]byte{byte(value), byte(value >> 8)}
	err = mem.Write(mp, kernel, addr, buf[:width])
	return
}

// Update performs an atomic read-modify-write of a value of width 1 or 2.
//
// The access needs both read and write permission. update receives the old
// value and returns the new one; the store is skipped when it returns false.
func (mem *Memory) Update(mp *Mapping, kernel bool, addr uint16, width int, update func(old uint16) (value uint16, store bool)) (old uint16, err error) {
	mem.mutex.Lock()
	defer mem.mutex.Unlock()

	phys, err := mem.resolve(mp, kernel, FLAG_READ|FLAG_WRITE, addr, width)
	if err != nil {
		return
	}

	for n, pa := range phys {
		old |= uint16(mem.data[pa]) << (8 * n)
	}

	value, store := update(old)
	if !store {
		return
	}

	for n, pa := range phys {
		mem.data[pa] = byte(value >> (8 * n))
	}
	return
}
