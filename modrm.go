// modrm.go - ModR/M and SIB decoding, effective-address computation
//
// Every memory operand resolves to a segment:offset pair via
// effectiveSegment/physicalAddress (physaddr.go) before it ever touches
// the bus, rather than being used as a bare 32-bit address.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// modRM splits the cached ModR/M byte into mod/reg/rm fields.
func (c *CPU) modRM() (mod, reg, rm byte) {
	if !c.modrmLoaded {
		c.modrm = c.fetch8()
		c.modrmLoaded = true
	}
	b := c.modrm
	return b >> 6, (b >> 3) & 7, b & 7
}

func (c *CPU) sibByte() byte {
	if !c.sibLoaded {
		c.sib = c.fetch8()
		c.sibLoaded = true
	}
	return c.sib
}

// operand is a decoded ModR/M operand: either a register (isReg true) or
// a memory location already resolved to a physical address.
type operand struct {
	isReg bool
	reg   byte
	addr  uint32
}

// getMemoryAddress resolves the current ModR/M's r/m field as a memory
// operand, honoring the 16-bit and 32-bit (addr-size-prefixed) addressing
// mode tables and any active segment override. The result is cached for
// the rest of the instruction: read-modify-write opcodes (e.g. Grp1's
// ADD r/m,imm) read the operand and later write it back, and displacement
// bytes must only ever be consumed from the instruction stream once.
func (c *CPU) getMemoryAddress() uint32 {
	if c.memAddrLoaded {
		return c.memAddr
	}
	mod, _, rm := c.modRM()
	if c.prefixAddrSize {
		c.memAddr = c.effectiveAddr32(mod, rm)
	} else {
		c.memAddr = c.effectiveAddr16(mod, rm)
	}
	c.memAddrLoaded = true
	return c.memAddr
}

// effectiveAddr16 implements the classic 8086 addressing-mode table.
func (c *CPU) effectiveAddr16(mod, rm byte) uint32 {
	defaultSeg := SegDS
	var off uint16

	switch rm {
	case 0:
		off = c.BX() + c.SI()
	case 1:
		off = c.BX() + c.DI()
	case 2:
		off = c.BP() + c.SI()
		defaultSeg = SegSS
	case 3:
		off = c.BP() + c.DI()
		defaultSeg = SegSS
	case 4:
		off = c.SI()
	case 5:
		off = c.DI()
	case 6:
		if mod == 0 {
			off = c.fetch16() // disp16, no base register
		} else {
			off = c.BP()
			defaultSeg = SegSS
		}
	case 7:
		off = c.BX()
	}

	switch mod {
	case 1:
		off += uint16(int16(int8(c.fetch8())))
	case 2:
		off += c.fetch16()
	}

	seg := c.getSeg(effectiveSegment(defaultSeg, c.prefixSeg))
	return physicalAddress(seg, off)
}

// effectiveAddr32 implements the 80386-class 32-bit addressing table,
// including the SIB byte for rm==4.
func (c *CPU) effectiveAddr32(mod, rm byte) uint32 {
	defaultSeg := SegDS
	var base uint32
	var hasDisp32Only bool

	if rm == 4 {
		sib := c.sibByte()
		scale := uint32(1) << (sib >> 6)
		index := (sib >> 3) & 7
		baseSel := sib & 7

		var idxVal uint32
		if index != 4 {
			idxVal = c.getReg32(index) * scale
		}

		if baseSel == 5 && mod == 0 {
			base = c.fetch32()
		} else {
			if baseSel == 4 || baseSel == 5 {
				defaultSeg = SegSS
			}
			base = c.getReg32(baseSel)
		}
		base += idxVal
	} else if rm == 5 && mod == 0 {
		base = c.fetch32()
		hasDisp32Only = true
	} else {
		if rm == 5 {
			defaultSeg = SegSS
		}
		base = c.getReg32(rm)
	}

	switch mod {
	case 1:
		base += uint32(int32(int8(c.fetch8())))
	case 2:
		base += uint32(int32(c.fetch32()))
	}
	_ = hasDisp32Only

	seg := c.getSeg(effectiveSegment(defaultSeg, c.prefixSeg))
	return physicalAddress(seg, uint16(base))
}

// -----------------------------------------------------------------------
// rm/reg accessors used by opcode handlers
// -----------------------------------------------------------------------

func (c *CPU) getRm8() byte {
	mod, _, rm := c.modRM()
	if mod == 3 {
		return c.getReg8(rm)
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessRead, Size8)
	return c.bus.Read8(addr)
}

func (c *CPU) setRm8(v byte) {
	mod, _, rm := c.modRM()
	if mod == 3 {
		c.setReg8(rm, v)
		return
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessWrite, Size8)
	c.bus.Write8(addr, v)
}

func (c *CPU) getRm16() uint16 {
	mod, _, rm := c.modRM()
	if mod == 3 {
		return c.getReg16(rm)
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessRead, Size16)
	return c.bus.Read16(addr)
}

func (c *CPU) setRm16(v uint16) {
	mod, _, rm := c.modRM()
	if mod == 3 {
		c.setReg16(rm, v)
		return
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessWrite, Size16)
	c.bus.Write16(addr, v)
}

func (c *CPU) getRm32() uint32 {
	mod, _, rm := c.modRM()
	if mod == 3 {
		return c.getReg32(rm)
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessRead, Size32)
	return c.bus.Read32(addr)
}

func (c *CPU) setRm32(v uint32) {
	mod, _, rm := c.modRM()
	if mod == 3 {
		c.setReg32(rm, v)
		return
	}
	addr := c.getMemoryAddress()
	c.rec.Touch(addr, AccessWrite, Size32)
	c.bus.Write32(addr, v)
}

func (c *CPU) getRegField() byte {
	_, reg, _ := c.modRM()
	return reg
}

func (c *CPU) getReg8Field() byte  { return c.getReg8(c.getRegField()) }
func (c *CPU) setReg8Field(v byte) { c.setReg8(c.getRegField(), v) }

func (c *CPU) getReg16Field() uint16  { return c.getReg16(c.getRegField()) }
func (c *CPU) setReg16Field(v uint16) { c.setReg16(c.getRegField(), v) }

func (c *CPU) getReg32Field() uint32  { return c.getReg32(c.getRegField()) }
func (c *CPU) setReg32Field(v uint32) { c.setReg32(c.getRegField(), v) }

// getSegField reads the reg field as a segment-register index, used by
// MOV Sw,Ew / MOV Ev,Sw and PUSH/POP of a segment register.
func (c *CPU) getSegField() byte {
	_, reg, _ := c.modRM()
	return reg & 7
}

// -----------------------------------------------------------------------
// Instruction fetch, CS:workingIP relative
// -----------------------------------------------------------------------

func (c *CPU) fetch8() byte {
	addr := physicalAddress(c.cs, uint16(c.workingIP))
	c.rec.Touch(addr, AccessRead, Size8)
	b := c.bus.Read8(addr)
	c.workingIP++
	return b
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) fetch32() uint32 {
	lo := c.fetch16()
	hi := c.fetch16()
	return uint32(lo) | uint32(hi)<<16
}
