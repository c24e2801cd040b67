// state_test.go - Register aliasing and flag-word semantics

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCPU() *CPU {
	return NewCPU(NewMemory(), DefaultConfig(), nil)
}

func TestRegisterAliasing(t *testing.T) {
	c := newTestCPU()
	c.SetAX(0x1234)
	assert.Equal(t, byte(0x34), c.AL())
	assert.Equal(t, byte(0x12), c.AH())

	c.SetAH(0xFF)
	assert.Equal(t, uint16(0xFF34), c.AX())

	c.SetAL(0x00)
	assert.Equal(t, uint16(0xFF00), c.AX())
}

func TestEaxPreservesUpperWordAcrossAxWrites(t *testing.T) {
	c := newTestCPU()
	c.eax = 0xDEAD0000
	c.SetAX(0xBEEF)
	assert.Equal(t, uint32(0xDEADBEEF), c.eax, "16-bit AX write must not disturb the upper 16 bits of EAX")
}

func TestFlagsReservedBits(t *testing.T) {
	c := newTestCPU()
	c.SetFlags(0)
	assert.NotZero(t, c.Flags()&flagsReservedOn, "bit 1 always reads as 1 on an 8086")
}

func TestResetState(t *testing.T) {
	c := newTestCPU()
	c.SetAX(0x1111)
	c.SetCS(0x2222)
	c.Halted = true
	c.Reset()

	assert.Equal(t, uint16(0), c.AX())
	assert.Equal(t, uint16(0), c.CS())
	assert.False(t, c.Halted)
	assert.True(t, c.IF(), "IF must be set after reset")
}

func TestSegmentAccessors(t *testing.T) {
	c := newTestCPU()
	c.setSeg(SegDS, 0x3000)
	assert.Equal(t, uint16(0x3000), c.getSeg(SegDS))
	assert.Equal(t, uint16(0x3000), c.DS())
}

func TestGetSetReg16ByModRMIndex(t *testing.T) {
	c := newTestCPU()
	c.SetSP(0xFFFE)
	assert.Equal(t, uint16(0xFFFE), c.getReg16(4)) // index 4 = SP
	c.setReg16(5, 0x0100)                          // index 5 = BP
	assert.Equal(t, uint16(0x0100), c.BP())
}

func TestClearPrefixesResetsCaches(t *testing.T) {
	c := newTestCPU()
	c.modrmLoaded = true
	c.sibLoaded = true
	c.memAddrLoaded = true
	c.prefixSeg = SegES

	c.clearPrefixes()

	assert.False(t, c.modrmLoaded)
	assert.False(t, c.sibLoaded)
	assert.False(t, c.memAddrLoaded)
	assert.Equal(t, noOverride, c.prefixSeg)
}
