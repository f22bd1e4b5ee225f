package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func expandTexts(t *testing.T, text string) (texts []string) {
	tokens, err := ExpandCall(1, text)
	if !assert.NoError(t, err, text) {
		return
	}

	for _, tok := range tokens {
		assert.Equal(t, TOKEN_INSTRUCTION, tok.Kind)
		assert.Equal(t, 1, tok.LineNo)
		texts = append(texts, tok.Text)
	}
	return
}

func TestExpandCall(t *testing.T) {
	assert := assert.New(t)

	table := map[string][]string{
		// Arguments already in place need nothing saved.
		"call f":         {"bl f"},
		"call f, r0, r1": {"bl f"},
		"call f, r0, 5": {
			"push r1",
			"mov r1, 5",
			"bl f",
			"pop r1",
		},
		"call f, r3, r1, 'x'": {
			"push r0",
			"push r2",
			"mov r0, r3",
			"mov r2, 'x'",
			"bl f",
			"pop r2",
			"pop r0",
		},
		// A swap is a hazard; every slot is saved.
		"call f, r1, r0": {
			"push r0",
			"push r1",
			"mov r0, r1",
			"mov r1, r0",
			"bl f",
			"pop r1",
			"pop r0",
		},
		// r0 is overwritten before slot 2 reads it.
		"call f, 7, r1, r0": {
			"push r0",
			"push r1",
			"push r2",
			"mov r0, 7",
			"mov r1, r1",
			"mov r2, r0",
			"bl f",
			"pop r2",
			"pop r1",
			"pop r0",
		},
	}

	for text, want := range table {
		assert.Equal(want, expandTexts(t, text), text)
	}
}

func TestExpandCall_NoHazard(t *testing.T) {
	assert := assert.New(t)

	// Reading a higher slot's register is not a hazard.
	assert.Equal([]string{
		"push r0",
		"mov r0, r1",
		"bl f",
		"pop r0",
	}, expandTexts(t, "call f, r1, r1"))
}

func TestExpandCall_Errors(t *testing.T) {
	assert := assert.New(t)

	_, err := ExpandCall(1, "call")
	assert.ErrorIs(err, ErrCallTarget)

	_, err = ExpandCall(1, "call , r0")
	assert.ErrorIs(err, ErrCallTarget)

	_, err = ExpandCall(1, "call f, r0, r1, r2, r3, r4, r5, r6, r7")
	assert.ErrorIs(err, ErrCallArguments)

	tokens, err := ExpandCall(1, "call f, r0, r1, r2, r3, r4, r5, r6")
	assert.NoError(err)
	assert.Len(tokens, 1)
}
