// modrm_test.go - ModR/M/SIB decode and the cached-memory-address invariant

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModRMDisp16OnlyAddressing(t *testing.T) {
	// MOV [0x1234], AL ; HLT - mod=00 rm=110 is the disp16-only special
	// case (no base register at all) in the 16-bit addressing table.
	// 88 /0: ModR/M 0x06 = mod00 reg000(AL) rm110.
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x88, 0x06, 0x34, 0x12, 0xF4})

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetAL(0x99)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, byte(0x99), mem.Read8(physicalAddress(0, 0x1234)))
}

func TestModRMDisp8SignExtendsNegative(t *testing.T) {
	// MOV [BX-2], AL ; HLT with BX=0x0210 must land on 0x020E, not wrap
	// positive: mod=01 rm=111(BX) with disp8=0xFE (-2).
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x88, 0x47, 0xFE, 0xF4})

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetAL(0x42)
	cpu.SetBX(0x0210)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, byte(0x42), mem.Read8(physicalAddress(0, 0x020E)))
}

func TestModRMBpDefaultsToStackSegment(t *testing.T) {
	// MOV [BP], AL ; HLT - mod=01 rm=110(BP) defaults its segment to SS,
	// not DS, per the classic 8086 addressing table.
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x88, 0x46, 0x00, 0xF4})

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetAL(0x77)
	cpu.SetBP(0x0050)
	cpu.SetSS(0x4000)
	cpu.SetDS(0x5000)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, byte(0x77), mem.Read8(physicalAddress(0x4000, 0x0050)))
	assert.Equal(t, byte(0), mem.Read8(physicalAddress(0x5000, 0x0050)), "must not have written through DS")
}

func TestModRMSegmentOverrideRedirectsMemoryOperand(t *testing.T) {
	// ES: MOV [BX], AL ; HLT - the 0x26 prefix redirects the default DS
	// access to ES for this one instruction.
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x26, 0x88, 0x07, 0xF4})

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetAL(0x33)
	cpu.SetBX(0x0010)
	cpu.SetDS(0x1000)
	cpu.SetES(0x2000)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, byte(0x33), mem.Read8(physicalAddress(0x2000, 0x0010)))
	assert.Equal(t, byte(0), mem.Read8(physicalAddress(0x1000, 0x0010)))
}
