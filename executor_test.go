// executor_test.go - End-to-end fetch/decode/execute over small programs

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func loadAndRun(t *testing.T, code []byte) *CPU {
	t.Helper()
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), code)
	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	err := cpu.Run()
	assert.NoError(t, err)
	return cpu
}

func TestMovImmediateThenHalt(t *testing.T) {
	// MOV AL, 0x42 ; HLT
	cpu := loadAndRun(t, []byte{0xB0, 0x42, 0xF4})
	assert.Equal(t, byte(0x42), cpu.AL())
	assert.True(t, cpu.Halted)
}

func TestAddAlImm8SetsFlags(t *testing.T) {
	// MOV AL,0xFF ; ADD AL,1 ; HLT
	cpu := loadAndRun(t, []byte{0xB0, 0xFF, 0x04, 0x01, 0xF4})
	assert.Equal(t, byte(0x00), cpu.AL())
	assert.True(t, cpu.ZF())
	assert.True(t, cpu.CF())
}

func TestJmpShortSkipsBytes(t *testing.T) {
	// JMP +2 ; MOV AL,0x11 (skipped) ; MOV AL,0x22 ; HLT
	cpu := loadAndRun(t, []byte{0xEB, 0x02, 0xB0, 0x11, 0xB0, 0x22, 0xF4})
	assert.Equal(t, byte(0x22), cpu.AL())
}

func TestJccTakenAndNotTaken(t *testing.T) {
	// XOR AL,AL ; JZ +2 ; MOV AL,0x11 (skipped) ; MOV AL,0x22 ; HLT
	cpu := loadAndRun(t, []byte{0x30, 0xC0, 0x74, 0x02, 0xB0, 0x11, 0xB0, 0x22, 0xF4})
	assert.Equal(t, byte(0x22), cpu.AL())

	// MOV AL,0x01 ; OR AL,AL ; JZ +2 (not taken) ; MOV AL,0x11 ; HLT
	cpu = loadAndRun(t, []byte{0xB0, 0x01, 0x08, 0xC0, 0x74, 0x02, 0xB0, 0x11, 0xF4})
	assert.Equal(t, byte(0x11), cpu.AL())
}

func TestCallNearThenRet(t *testing.T) {
	// 0100: CALL rel16=+1 -> target 0104 (rel is relative to 0103, the
	// byte right after the 3-byte CALL instruction)
	// 0103: HLT (the return address RET lands back on)
	// 0104: MOV AL,0x55 ; RET
	code := []byte{
		0xE8, 0x01, 0x00, // CALL rel16=+1 -> target 0104
		0xF4,       // HLT - return address
		0xB0, 0x55, // MOV AL, 0x55
		0xC3, // RET
	}
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), code)
	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)
	cpu.SetSS(0x2000)
	cpu.SetSP(0xFFFE)
	err := cpu.Run()

	assert.NoError(t, err)
	assert.True(t, cpu.Halted)
	assert.Equal(t, byte(0x55), cpu.AL())

	info := cpu.fnNormal.Functions()[pack(0, 0x0104)]
	assert.NotNil(t, info)
	assert.Equal(t, 1, info.CallCount)
}

func TestInvalidOpcodeFaults(t *testing.T) {
	mem := NewMemory()
	mem.LoadAt(physicalAddress(0, 0x0100), []byte{0x0F, 0xFF}) // undefined 0F FF
	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0100)

	err := cpu.Run()
	assert.Error(t, err)
	var fs *FaultState
	assert.ErrorAs(t, err, &fs)
	var inv *InvalidOpcodeError
	assert.ErrorAs(t, err, &inv)
}

func TestDivideByZeroFaultsAndRestarts(t *testing.T) {
	// MOV AX,10 ; MOV CL,0 ; DIV CL (F6 /6) ; would fault -> INT 0 -> no
	// handler installed (segment:offset 0:0), loops back to 0:0 which is
	// itself the start of this same DIV sequence's IVT-less target; use a
	// harmless target instead: point vector 0 at a HLT so the test
	// terminates deterministically.
	mem := NewMemory()
	mem.Write16(0, 0x0010)   // IVT[0].offset
	mem.Write16(2, 0x0000)   // IVT[0].segment
	mem.Write8(physicalAddress(0, 0x0010), 0xF4) // HLT at the vector-0 handler

	code := []byte{
		0xB8, 0x0A, 0x00, // MOV AX, 10
		0xB1, 0x00, // MOV CL, 0
		0xF6, 0xF1, // DIV CL
		0xF4, // HLT (never reached directly; INT 0 redirects first)
	}
	mem.LoadAt(physicalAddress(0, 0x0200), code)
	cpu := NewCPU(mem, DefaultConfig(), nil)
	cpu.SetCS(0)
	cpu.SetIP(0x0200)
	cpu.SetSS(0x3000)
	cpu.SetSP(0xFFFE)

	err := cpu.Run()
	assert.NoError(t, err)
	assert.True(t, cpu.Halted)
	assert.Equal(t, uint16(0x0011), cpu.IP(), "must have vectored through INT 0 and halted at the handler's HLT (0x0010), not past the faulting DIV")
}
