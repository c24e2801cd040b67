// scenarios_test.go - end-to-end behaviors a correct core must exhibit,
// independent of any single module's unit tests.

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryRoundTripWrapsAt1MiB(t *testing.T) {
	mem := NewMemory()
	addr := physicalAddress(0xFFFF, 0x0010) // wraps past the 1 MiB boundary
	mem.Write16(addr, 0xABCD)
	assert.Equal(t, uint16(0xABCD), mem.Read16(addr))
	assert.Equal(t, byte(0xCD), mem.Read8(addr), "little-endian: low byte first")
	assert.Equal(t, byte(0xAB), mem.Read8(addr+1))
}

func TestAluFlagsArePureFunctionsOfInputs(t *testing.T) {
	r1, f1 := aluAdd(16, 0x7FFF, 1, false)
	r2, f2 := aluAdd(16, 0x7FFF, 1, false)
	assert.Equal(t, r1, r2)
	assert.Equal(t, f1, f2)

	withCarry, _ := aluAdd(16, 5, 5, true)
	withoutCarry, _ := aluAdd(16, 5, 5, false)
	assert.Equal(t, uint32(11), withCarry, "ADC's incoming carry must be added in")
	assert.Equal(t, uint32(10), withoutCarry)
}

func TestRepeatedSegmentOverridePrefixCollapsesToOne(t *testing.T) {
	// ES: ES: MOV AL, [BX] ; HLT - two identical override prefixes in a
	// row must still resolve to exactly one ES-relative access.
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x26, 0x26, 0x8A, 0x07, 0xF4})
	mem.Write8(physicalAddress(0x2000, 0x0010), 0x5A)

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetBX(0x0010)
	cpu.SetES(0x2000)
	cpu.SetDS(0x3000)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, byte(0x5A), cpu.AL())
}

func TestRepMovsbAccountingFromDisjointBuffers(t *testing.T) {
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0xF3, 0xA4, 0xF4})
	mem.LoadAt(physicalAddress(0x1000, 0x0000), []byte{0x41, 0x42, 0x43})

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetDS(0x1000)
	cpu.SetSI(0x0000)
	cpu.SetES(0x2000)
	cpu.SetDI(0x0000)
	cpu.SetCX(3)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.Equal(t, uint16(0), cpu.CX())
	assert.Equal(t, uint16(3), cpu.SI())
	assert.Equal(t, uint16(3), cpu.DI())
	assert.Equal(t, []byte{0x41, 0x42, 0x43}, mem.GetData(physicalAddress(0x2000, 0x0000), 3))
}

func TestSoftwareInterruptPushesStateAndClearsIF(t *testing.T) {
	mem := NewMemory()
	mem.Write16(0x21*4, 0x0100)
	mem.Write16(0x21*4+2, 0x0080)
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0xF4}) // HLT at handler entry

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0x2000)
	cpu.SetIP(0x0050)
	cpu.SetSS(0x3000)
	cpu.SetSP(0x0100)
	cpu.setFlag(FlagIF, true)

	err := cpu.interrupt(0x21, false)

	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0080), cpu.CS())
	assert.Equal(t, uint16(0x0100), cpu.IP())
	assert.False(t, cpu.IF())
	assert.Equal(t, uint16(0x0050), mem.Read16(physicalAddress(0x3000, 0x00FA)))
	assert.Equal(t, uint16(0x2000), mem.Read16(physicalAddress(0x3000, 0x00FC)))
}

func TestDivByZeroLeavesIPAtFaultingInstructionAndDispatchesInt0(t *testing.T) {
	mem := NewMemory()
	mem.Write16(0, 0x0050) // IVT[0] offset
	mem.Write16(2, 0x0000) // IVT[0] segment

	code := []byte{
		0xB8, 0x0A, 0x00, // MOV AX, 10
		0xB9, 0x00, 0x00, // MOV CX, 0
		0xF7, 0xF1, // DIV CX
	}
	mem.LoadAt(physicalAddress(0, 0x0200), code)

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0206) // DIV CX starts here after the two 3-byte MOVs
	cpu.SetSS(0x4000)
	cpu.SetSP(0xFFFE)

	err := cpu.Step()

	assert.NoError(t, err)
	assert.Equal(t, uint16(0x0050), cpu.IP(), "must have vectored to the INT 0 handler")
	// SP started at 0xFFFE; three pushes (flags, cs, ip) land IP lowest at
	// 0xFFF8, cs at 0xFFFA, flags at 0xFFFC.
	assert.Equal(t, uint16(0x0206), mem.Read16(physicalAddress(0x4000, 0xFFF8)),
		"the pushed return IP must be the DIV instruction's own start, not past it")
}

func TestSegmentOverrideDoesNotOutliveItsInstruction(t *testing.T) {
	// ES: MOV AL, [BX] ; MOV AL, [BX] ; HLT - only the first MOV should
	// read through ES; the second, unprefixed, must fall back to DS.
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x26, 0x8A, 0x07, 0x8A, 0x07, 0xF4})
	mem.Write8(physicalAddress(0x1000, 0x0004), 0x55)
	mem.Write8(physicalAddress(0x2000, 0x0004), 0x66)

	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetBX(0x0004)
	cpu.SetES(0x1000)
	cpu.SetDS(0x2000)

	err := cpu.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x55), cpu.AL(), "first MOV honors the ES: override")

	err = cpu.Step()
	assert.NoError(t, err)
	assert.Equal(t, byte(0x66), cpu.AL(), "second MOV must not inherit the expired override")
}
