package cpu

// callWindow is the register window saved by `bl` and restored by `ret`,
// in push order. rr is not part of the window; it carries the result.
var callWindow = func() (regs []Register) {
	regs = append(regs, REG_PC, REG_CF)
	for reg := REG_R0; reg <= REG_R24; reg++ {
		regs = append(regs, reg)
	}
	regs = append(regs, REG_FP)
	return
}()

// push stores a word at the stack pointer, then moves the stack pointer
// down. Returns false on a fault.
func (core *Core) push(value uint16) (ok bool) {
	sp := core.Register[REG_SP]
	if !core.store(sp, 2, value) {
		return
	}

	core.Register[REG_SP] = sp - 2
	ok = true
	return
}

// pop moves the stack pointer up, then loads the word at it. Returns
// false on a fault.
func (core *Core) pop() (value uint16, ok bool) {
	sp := core.Register[REG_SP] + 2
	value, ok = core.load(sp, 2)
	if !ok {
		return
	}

	core.Register[REG_SP] = sp
	return
}

// branchLink saves the call window, opens a new frame and jumps.
func (core *Core) branchLink(target uint16) (ok bool) {
	for _, reg := range callWindow {
		if !core.push(core.Register[reg]) {
			return
		}
	}

	core.Register[REG_FP] = core.Register[REG_SP]
	core.jump(target)
	ok = true
	return
}

// ret discards the frame and restores the call window.
func (core *Core) ret() (ok bool) {
	core.Register[REG_SP] = core.Register[REG_FP]

	for n := len(callWindow) - 1; n >= 0; n-- {
		var value uint16
		value, ok = core.pop()
		if !ok {
			return
		}
		core.Register[callWindow[n]] = value
	}

	return
}
