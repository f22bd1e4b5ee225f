package mpu

// Mapping is one core's view of its virtual pages.
//
// It is only consulted while the core runs at user privilege. A Mapping is
// owned by a single core and needs no locking.
type Mapping struct {
	Page [VPAGE_COUNT]uint16 // Physical page index per virtual page.
	Flag [VPAGE_COUNT]Flag   // Mapped and access flags per virtual page.
}

// Reset unmaps every virtual page.
func (mp *Mapping) Reset() {
	clear(mp.Page[:])
	clear(mp.Flag[:])
}

// Set maps vpage onto the physical page ppage, leaving its flags alone.
func (mp *Mapping) Set(vpage, ppage uint16) (err error) {
	if int(vpage) >= VPAGE_COUNT {
		err = ErrPageRange
		return
	}

	mp.Page[vpage] = ppage
	return
}

// Get returns the physical page index of vpage.
func (mp *Mapping) Get(vpage uint16) (ppage uint16, err error) {
	if int(vpage) >= VPAGE_COUNT {
		err = ErrPageRange
		return
	}

	ppage = mp.Page[vpage]
	return
}

// SetFlags replaces the flags of vpage.
func (mp *Mapping) SetFlags(vpage uint16, flags Flag) (err error) {
	if int(vpage) >= VPAGE_COUNT {
		err = ErrPageRange
		return
	}

	mp.Flag[vpage] = flags & FLAG_MASK
	return
}

// Flags returns the flags of vpage.
func (mp *Mapping) Flags(vpage uint16) (flags Flag, err error) {
	if int(vpage) >= VPAGE_COUNT {
		err = ErrPageRange
		return
	}

	flags = mp.Flag[vpage]
	return
}

// Map is a convenience for Set followed by SetFlags with FLAG_MAPPED added.
func (mp *Mapping) Map(vpage, ppage uint16, flags Flag) (err error) {
	err = mp.Set(vpage, ppage)
	if err != nil {
		return
	}

	err = mp.SetFlags(vpage, flags|FLAG_MAPPED)
	return
}
