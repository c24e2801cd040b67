// fpu_stub.go - x87 escape opcodes, reported as an absent coprocessor
//
// Rather than emulate x87 arithmetic, 0xD8-0xDF decode just enough of
// their ModR/M/displacement to keep instruction length correct and then
// do nothing - architecturally identical to a real machine with no math
// coprocessor installed and EM/MP left at their reset values, where the
// escape opcodes execute as NOPs against the FPU's internal state rather
// than trapping.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func opFpuEscape(c *CPU) error {
	mod, _, _ := c.modRM()
	if mod != 3 {
		c.getMemoryAddress() // consume any displacement/SIB, discard result
	}
	return nil
}
