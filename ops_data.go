// ops_data.go - Data movement: MOV family, LEA, XCHG, PUSH/POP, segment
// loads, sign/zero extension.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func opMovEbGb(c *CPU) error { c.setRm8(c.getReg8Field()); return nil }
func opMovGbEb(c *CPU) error { c.setReg8Field(c.getRm8()); return nil }

func opMovEvGv(c *CPU) error {
	w := c.vWidth()
	if w == 32 {
		c.setRm32(c.getReg32Field())
	} else {
		c.setRm16(c.getReg16Field())
	}
	return nil
}

func opMovGvEv(c *CPU) error {
	w := c.vWidth()
	_, reg, _ := c.modRM()
	if w == 32 {
		c.setReg32(reg, c.getRm32ForCurrentModRM())
	} else {
		c.setReg16(reg, c.getRm16ForCurrentModRM())
	}
	return nil
}

// opMovEwSw / opMovSwEw: MOV between a segment register and Ew (0x8C/0x8E).
func opMovEwSw(c *CPU) error {
	c.setRm16(c.getSeg(int(c.getSegField())))
	return nil
}

func opMovSwEw(c *CPU) error {
	c.setSeg(int(c.getSegField()), c.getRm16())
	return nil
}

func opLEA(c *CPU) error {
	// Resolve against DS so the offset can be recovered by subtracting
	// DS's base; LEA never touches memory, so the segment choice is free.
	saved := c.prefixSeg
	c.prefixSeg = SegDS
	addr := c.getMemoryAddress()
	c.prefixSeg = saved
	off := (addr - uint32(c.ds)<<4) & 0xFFFF // LEA reports the offset, not the physical addr
	_, reg, _ := c.modRM()
	if c.vWidth() == 32 {
		c.setReg32(reg, off)
	} else {
		c.setReg16(reg, uint16(off))
	}
	return nil
}

func opMovEbIb(c *CPU) error { c.setRm8(c.fetch8()); return nil }

func opMovEvIv(c *CPU) error {
	w := c.vWidth()
	if w == 32 {
		c.setRm32(c.fetch32())
	} else {
		c.setRm16(c.fetch16())
	}
	return nil
}

// opMovRegImm8/opMovRegImmV build the MOV reg,imm handlers for opcodes
// 0xB0-0xB7 and 0xB8-0xBF.
func opMovRegImm8(reg byte) opFunc {
	return func(c *CPU) error {
		c.setReg8(reg, c.fetch8())
		return nil
	}
}

func opMovRegImmV(reg byte) opFunc {
	return func(c *CPU) error {
		if c.vWidth() == 32 {
			c.setReg32(reg, c.fetch32())
		} else {
			c.setReg16(reg, c.fetch16())
		}
		return nil
	}
}

// opMovALOffs/opMovOffsAL: MOV AL,[moffs] / MOV [moffs],AL (0xA0/0xA2),
// and the AX/eAX variants (0xA1/0xA3). The displacement is always 16-bit
// regardless of address size, matching real hardware's moffs encoding.
func opMovALOffs(c *CPU) error {
	off := c.fetch16()
	seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
	c.SetAL(c.bus.Read8(physicalAddress(seg, off)))
	return nil
}

func opMovOffsAL(c *CPU) error {
	off := c.fetch16()
	seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
	c.bus.Write8(physicalAddress(seg, off), c.AL())
	return nil
}

func opMovAxOffs(c *CPU) error {
	off := c.fetch16()
	seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
	addr := physicalAddress(seg, off)
	if c.vWidth() == 32 {
		c.eax = c.bus.Read32(addr)
	} else {
		c.SetAX(c.bus.Read16(addr))
	}
	return nil
}

func opMovOffsAx(c *CPU) error {
	off := c.fetch16()
	seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
	addr := physicalAddress(seg, off)
	if c.vWidth() == 32 {
		c.bus.Write32(addr, c.eax)
	} else {
		c.bus.Write16(addr, c.AX())
	}
	return nil
}

// -----------------------------------------------------------------------
// XCHG
// -----------------------------------------------------------------------

func opXchgEbGb(c *CPU) error {
	a, b := c.getRm8(), c.getReg8Field()
	c.setRm8(b)
	c.setReg8Field(a)
	return nil
}

func opXchgEvGv(c *CPU) error {
	w := c.vWidth()
	if w == 32 {
		a, b := c.getRm32(), c.getReg32Field()
		c.setRm32(b)
		c.setReg32Field(a)
	} else {
		a, b := c.getRm16(), c.getReg16Field()
		c.setRm16(b)
		c.setReg16Field(a)
	}
	return nil
}

func opNOP(c *CPU) error { return nil }

func opXchgAxReg(reg byte) opFunc {
	return func(c *CPU) error {
		if c.vWidth() == 32 {
			a := c.eax
			c.eax = c.getReg32(reg)
			c.setReg32(reg, a)
		} else {
			a := c.AX()
			c.SetAX(c.getReg16(reg))
			c.setReg16(reg, a)
		}
		return nil
	}
}

// -----------------------------------------------------------------------
// PUSH/POP of general and segment registers
// -----------------------------------------------------------------------

func opPushReg(reg byte) opFunc {
	return func(c *CPU) error {
		c.pushOperand(c.loadRegByIndex(c.vWidth(), reg))
		return nil
	}
}

func opPopReg(reg byte) opFunc {
	return func(c *CPU) error {
		c.storeRegByIndex(c.vWidth(), reg, c.popOperand())
		return nil
	}
}

func opPushSeg(idx int) opFunc {
	return func(c *CPU) error {
		c.push16(c.getSeg(idx))
		return nil
	}
}

func opPopSeg(idx int) opFunc {
	return func(c *CPU) error {
		c.setSeg(idx, c.pop16())
		return nil
	}
}

func opPopEv(c *CPU) error {
	v := c.popOperand()
	c.storeRm(c.vWidth(), v)
	return nil
}

func opPushImm(signExtendByte bool) opFunc {
	return func(c *CPU) error {
		var v uint32
		if signExtendByte {
			v = uint32(int32(int8(c.fetch8())))
		} else if c.vWidth() == 32 {
			v = c.fetch32()
		} else {
			v = uint32(c.fetch16())
		}
		c.pushOperand(v)
		return nil
	}
}

// opPushA/opPopA: PUSHA/POPA (80186+), pushing/popping all eight GPRs.
func opPushA(c *CPU) error {
	sp := c.SP()
	order := []uint16{c.AX(), c.CX(), c.DX(), c.BX(), sp, c.BP(), c.SI(), c.DI()}
	for _, v := range order {
		c.push16(v)
	}
	return nil
}

func opPopA(c *CPU) error {
	c.SetDI(c.pop16())
	c.SetSI(c.pop16())
	c.SetBP(c.pop16())
	c.pop16() // discard saved SP
	c.SetBX(c.pop16())
	c.SetDX(c.pop16())
	c.SetCX(c.pop16())
	c.SetAX(c.pop16())
	return nil
}

func opPushF(c *CPU) error { c.pushOperand(c.Flags()); return nil }

func opPopF(c *CPU) error {
	v := c.popOperand()
	c.SetFlags(v)
	return nil
}

func opSAHF(c *CPU) error {
	keep := c.Flags() &^ 0xFF
	c.SetFlags(keep | uint32(c.AH()))
	return nil
}

func opLAHF(c *CPU) error {
	c.SetAH(byte(c.Flags()))
	return nil
}

// -----------------------------------------------------------------------
// Size conversions
// -----------------------------------------------------------------------

func opCBW(c *CPU) error {
	if c.vWidth() == 32 {
		c.eax = c.eax&0xFFFF0000 | uint32(uint16(int16(int8(c.AL()))))
	} else {
		c.SetAX(uint16(int16(int8(c.AL()))))
	}
	return nil
}

func opCWD(c *CPU) error {
	if c.vWidth() == 32 {
		if c.eax&0x80000000 != 0 {
			c.edx = 0xFFFFFFFF
		} else {
			c.edx = 0
		}
	} else {
		if c.AX()&0x8000 != 0 {
			c.SetDX(0xFFFF)
		} else {
			c.SetDX(0)
		}
	}
	return nil
}

func opXLAT(c *CPU) error {
	seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
	addr := physicalAddress(seg, c.BX()+uint16(c.AL()))
	c.SetAL(c.bus.Read8(addr))
	return nil
}

// opLoadFarPtr builds LES/LDS: load a far pointer from memory into a
// GPR:segment pair.
func opLoadFarPtr(segIdx int) opFunc {
	return func(c *CPU) error {
		addr := c.getMemoryAddress()
		off := c.bus.Read16(addr)
		seg := c.bus.Read16(addr + 2)
		_, reg, _ := c.modRM()
		c.setReg16(reg, off)
		c.setSeg(segIdx, seg)
		return nil
	}
}

// -----------------------------------------------------------------------
// MOVZX/MOVSX (0F B6/B7/BE/BF)
// -----------------------------------------------------------------------

func opMovzxGvEb(c *CPU) error {
	v := uint32(c.getRm8())
	if c.vWidth() == 32 {
		c.setReg32Field(v)
	} else {
		c.setReg16Field(uint16(v))
	}
	return nil
}

func opMovzxGvEw(c *CPU) error {
	v := uint32(c.getRm16())
	c.setReg32Field(v)
	return nil
}

func opMovsxGvEb(c *CPU) error {
	v := uint32(int32(int8(c.getRm8())))
	if c.vWidth() == 32 {
		c.setReg32Field(v)
	} else {
		c.setReg16Field(uint16(v))
	}
	return nil
}

func opMovsxGvEw(c *CPU) error {
	v := uint32(int32(int16(c.getRm16())))
	c.setReg32Field(v)
	return nil
}
