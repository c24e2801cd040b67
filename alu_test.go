// alu_test.go - Tests for the width-parameterized ALU primitives

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAluAddFlags(t *testing.T) {
	res, flags := aluAdd(8, 0xFF, 0x01, false)
	assert.Equal(t, uint32(0x00), res)
	assert.NotZero(t, flags&FlagCF, "0xFF+0x01 must carry out of byte width")
	assert.NotZero(t, flags&FlagZF, "result is zero")
	assert.Zero(t, flags&FlagSF)

	res, flags = aluAdd(8, 0x7F, 0x01, false)
	assert.Equal(t, uint32(0x80), res)
	assert.NotZero(t, flags&FlagOF, "0x7F+1 overflows a signed byte")
	assert.NotZero(t, flags&FlagSF)
}

func TestAluSubBorrow(t *testing.T) {
	res, flags := aluSub(16, 0x0000, 0x0001, false)
	assert.Equal(t, uint32(0xFFFF), res)
	assert.NotZero(t, flags&FlagCF, "0-1 borrows")
	assert.NotZero(t, flags&FlagSF)
}

func TestAluIncDecNeverTouchCF(t *testing.T) {
	_, flags := aluInc(8, 0xFF)
	assert.Zero(t, flags&FlagCF, "INC must never set CF on its own")
	_, flags = aluDec(8, 0x00)
	assert.Zero(t, flags&FlagCF, "DEC must never set CF on its own")
}

func TestAluDivByZero(t *testing.T) {
	_, _, ok := aluDiv(16, 100, 0)
	assert.False(t, ok, "division by zero must fail, not panic")
}

func TestAluDivOverflow(t *testing.T) {
	// AL/AH both 0xFF i.e. AX=0xFFFF divided by 1 would overflow an 8-bit quotient.
	_, _, ok := aluDiv(8, 0xFFFF, 1)
	assert.False(t, ok, "quotient that doesn't fit the operand width must fault")
}

func TestAluDivExact(t *testing.T) {
	q, r, ok := aluDiv(8, 10, 3)
	assert.True(t, ok)
	assert.Equal(t, uint32(3), q)
	assert.Equal(t, uint32(1), r)
}

func TestAluRotateLeftSetsCarry(t *testing.T) {
	res, cf, _ := aluRotateLeft(8, 0x81, 1, false)
	assert.Equal(t, uint32(0x03), res, "0x81 rol 1 = 0x03")
	assert.True(t, cf)
}

func TestAluRotateLeftCarryMasksCountTo5Bits(t *testing.T) {
	// CL=33 masks to 1 on 80186+, so RCL-8 by 33 must match RCL-8 by 1,
	// not 33 mod 9 (=6).
	byOne, cfOne, _ := aluRotateLeftCarry(8, 0x01, 1, false)
	by33, cf33, _ := aluRotateLeftCarry(8, 0x01, 33, false)
	assert.Equal(t, byOne, by33)
	assert.Equal(t, cfOne, cf33)
}

func TestAluRotateRightCarryMasksCountTo5Bits(t *testing.T) {
	byOne, cfOne, _ := aluRotateRightCarry(8, 0x01, 1, true)
	by33, cf33, _ := aluRotateRightCarry(8, 0x01, 33, true)
	assert.Equal(t, byOne, by33)
	assert.Equal(t, cfOne, cf33)
}

func TestParity(t *testing.T) {
	assert.True(t, parity(0x00), "zero bits set is even parity")
	assert.True(t, parity(0x03), "two low bits set is even parity")
	assert.False(t, parity(0x01), "one bit set is odd parity")
}
