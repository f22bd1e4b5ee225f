package cpu

import (
	"fmt"
	"slices"
)

// CALL_ARGUMENTS is the maximum number of `call` arguments.
const CALL_ARGUMENTS = 7

// callRegister are the argument registers of the calling convention,
// in argument order.
var callRegister = [CALL_ARGUMENTS]string{"r0", "r1", "r2", "r3", "r4", "r5", "r6"}

// callNeeded determines which argument slots must be saved, moved and
// restored around the branch-link.
func callNeeded(args []string) (needed []bool) {
	needed = make([]bool, len(args))
	for n, arg := range args {
		needed[n] = arg != callRegister[n]
	}

	// A source that an earlier move overwrites is a hazard; save all.
	for n, arg := range args {
		if !needed[n] {
			continue
		}
		for m := range n {
			if needed[m] && arg == callRegister[m] {
				for k := range needed {
					needed[k] = true
				}
				return
			}
		}
	}

	return
}

// ExpandCall rewrites `call target, arg...` into push, mov, bl and pop
// instructions.
func ExpandCall(lineno int, text string) (tokens []Token, err error) {
	cur := NewCursor(text)
	cur.Next()

	list, err := SplitList(cur.Rest())
	if err != nil {
		return
	}
	if len(list) == 0 || len(list[0]) == 0 {
		err = ErrCallTarget
		return
	}

	target := list[0]
	args := list[1:]
	if len(args) > CALL_ARGUMENTS {
		err = ErrCallArguments
		return
	}

	emit := func(format string, values ...any) {
		line := fmt.Sprintf(format, values...)
		tokens = append(tokens, Token{
			Kind:      TOKEN_INSTRUCTION,
			LineNo:    lineno,
			Text:      line,
			Subtokens: Subtokens(line),
		})
	}

	needed := callNeeded(args)

	for n := range args {
		if needed[n] {
			emit("push %s", callRegister[n])
		}
	}
	for n, arg := range args {
		if needed[n] {
			emit("mov %s, %s", callRegister[n], arg)
		}
	}
	emit("bl %s", target)
	for n, need := range slices.Backward(needed) {
		if need {
			emit("pop %s", callRegister[n])
		}
	}

	return
}
