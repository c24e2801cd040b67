// ops_arith.go - ADD/OR/ADC/SBB/AND/SUB/XOR/CMP families, INC/DEC,
// TEST, IMUL, and the decimal-adjust opcodes.
//
// The eight arithmetic/logic opcodes share one ModR/M encoding pattern
// (Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev / AL,ib / eAX,iv at +0..+5 from a common
// base), so aluOp centralizes the actual operation and opAlu* centralizes
// each operand-form rather than expanding one function per opcode.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func (c *CPU) vWidth() int {
	if c.prefixOpSize {
		return 32
	}
	return 16
}

// aluOp applies one of the eight ADD/OR/ADC/SBB/AND/SUB/XOR/CMP
// operations, indexed the same way the ModR/M reg field indexes them in
// Grp1.
func (c *CPU) aluOp(idx int, width int, a, b uint32) (result, flags uint32, isCompare bool) {
	switch idx {
	case 0:
		result, flags = aluAdd(width, a, b, false)
	case 1:
		result, flags = aluOr(width, a, b)
	case 2:
		result, flags = aluAdd(width, a, b, c.CF())
	case 3:
		result, flags = aluSub(width, a, b, c.CF())
	case 4:
		result, flags = aluAnd(width, a, b)
	case 5:
		result, flags = aluSub(width, a, b, false)
	case 6:
		result, flags = aluXor(width, a, b)
	case 7:
		result, flags = aluSub(width, a, b, false)
		isCompare = true
	}
	return result, flags, isCompare
}

func (c *CPU) applyAluFlags(flags uint32) {
	c.SetFlags((c.Flags() &^ aluFlagMask) | flags)
}

func (c *CPU) opAluEbGb(idx int) opFunc {
	return func(c *CPU) error {
		a := uint32(c.getRm8())
		b := uint32(c.getReg8Field())
		result, flags, cmp := c.aluOp(idx, 8, a, b)
		c.applyAluFlags(flags)
		if !cmp {
			c.setRm8(byte(result))
		}
		return nil
	}
}

func (c *CPU) opAluEvGv(idx int) opFunc {
	return func(c *CPU) error {
		w := c.vWidth()
		a := c.loadRm(w)
		var b uint32
		if w == 32 {
			b = c.getReg32Field()
		} else {
			b = uint32(c.getReg16Field())
		}
		result, flags, cmp := c.aluOp(idx, w, a, b)
		c.applyAluFlags(flags)
		if !cmp {
			c.storeRm(w, result)
		}
		return nil
	}
}

func (c *CPU) opAluGbEb(idx int) opFunc {
	return func(c *CPU) error {
		a := uint32(c.getReg8Field())
		b := uint32(c.getRm8())
		result, flags, cmp := c.aluOp(idx, 8, a, b)
		c.applyAluFlags(flags)
		if !cmp {
			c.setReg8Field(byte(result))
		}
		return nil
	}
}

func (c *CPU) opAluGvEv(idx int) opFunc {
	return func(c *CPU) error {
		w := c.vWidth()
		// Gv,Ev: destination is the reg field, source is r/m.
		_, reg, _ := c.modRM()
		var dst, src uint32
		if w == 32 {
			dst = c.getReg32(reg)
			src = c.getRm32ForCurrentModRM()
		} else {
			dst = uint32(c.getReg16(reg))
			src = uint32(c.getRm16ForCurrentModRM())
		}
		result, flags, cmp := c.aluOp(idx, w, dst, src)
		c.applyAluFlags(flags)
		if !cmp {
			if w == 32 {
				c.setReg32(reg, result)
			} else {
				c.setReg16(reg, uint16(result))
			}
		}
		return nil
	}
}

func (c *CPU) opAluALib(idx int) opFunc {
	return func(c *CPU) error {
		a := uint32(c.AL())
		b := uint32(c.fetch8())
		result, flags, cmp := c.aluOp(idx, 8, a, b)
		c.applyAluFlags(flags)
		if !cmp {
			c.SetAL(byte(result))
		}
		return nil
	}
}

func (c *CPU) opAluEaxIv(idx int) opFunc {
	return func(c *CPU) error {
		w := c.vWidth()
		a := c.accumulator(w)
		var b uint32
		if w == 32 {
			b = c.fetch32()
		} else {
			b = uint32(c.fetch16())
		}
		result, flags, cmp := c.aluOp(idx, w, a, b)
		c.applyAluFlags(flags)
		if !cmp {
			c.setAccumulator(w, result)
		}
		return nil
	}
}

func (c *CPU) accumulator(width int) uint32 {
	if width == 32 {
		return c.eax
	}
	return uint32(c.AX())
}

func (c *CPU) setAccumulator(width int, v uint32) {
	if width == 32 {
		c.eax = v
	} else {
		c.SetAX(uint16(v))
	}
}

// getRm32ForCurrentModRM/getRm16ForCurrentModRM read the r/m operand
// without re-consuming the ModR/M byte a second time; the Gv,Ev encoding
// already cached mod/reg/rm via modRM() before this is called.
func (c *CPU) getRm32ForCurrentModRM() uint32 {
	mod, _, rm := c.modRM()
	if mod == 3 {
		return c.getReg32(rm)
	}
	return c.bus.Read32(c.getMemoryAddress())
}

func (c *CPU) getRm16ForCurrentModRM() uint16 {
	mod, _, rm := c.modRM()
	if mod == 3 {
		return c.getReg16(rm)
	}
	return c.bus.Read16(c.getMemoryAddress())
}

// -----------------------------------------------------------------------
// INC/DEC reg (0x40-0x4F)
// -----------------------------------------------------------------------

func (c *CPU) opIncReg(reg byte) opFunc {
	return func(c *CPU) error {
		w := c.vWidth()
		val := c.loadRegByIndex(w, reg)
		result, flags := aluInc(w, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.storeRegByIndex(w, reg, result)
		return nil
	}
}

func (c *CPU) opDecReg(reg byte) opFunc {
	return func(c *CPU) error {
		w := c.vWidth()
		val := c.loadRegByIndex(w, reg)
		result, flags := aluDec(w, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.storeRegByIndex(w, reg, result)
		return nil
	}
}

func (c *CPU) loadRegByIndex(width int, reg byte) uint32 {
	if width == 32 {
		return c.getReg32(reg)
	}
	return uint32(c.getReg16(reg))
}

func (c *CPU) storeRegByIndex(width int, reg byte, v uint32) {
	if width == 32 {
		c.setReg32(reg, v)
	} else {
		c.setReg16(reg, uint16(v))
	}
}

// -----------------------------------------------------------------------
// TEST (0x84/0x85, 0xA8/0xA9)
// -----------------------------------------------------------------------

func opTestEbGb(c *CPU) error {
	_, flags := aluAnd(8, uint32(c.getRm8()), uint32(c.getReg8Field()))
	c.applyAluFlags(flags)
	return nil
}

func opTestEvGv(c *CPU) error {
	w := c.vWidth()
	var b uint32
	if w == 32 {
		b = c.getReg32Field()
	} else {
		b = uint32(c.getReg16Field())
	}
	_, flags := aluAnd(w, c.loadRm(w), b)
	c.applyAluFlags(flags)
	return nil
}

func opTestALib(c *CPU) error {
	_, flags := aluAnd(8, uint32(c.AL()), uint32(c.fetch8()))
	c.applyAluFlags(flags)
	return nil
}

func opTestEaxIv(c *CPU) error {
	w := c.vWidth()
	var imm uint32
	if w == 32 {
		imm = c.fetch32()
	} else {
		imm = uint32(c.fetch16())
	}
	_, flags := aluAnd(w, c.accumulator(w), imm)
	c.applyAluFlags(flags)
	return nil
}

// -----------------------------------------------------------------------
// IMUL with an explicit immediate (0x69/0x6B) and two-operand IMUL
// (0x0F 0xAF)
// -----------------------------------------------------------------------

func opImulGvEvIv(c *CPU) error {
	w := c.vWidth()
	src := c.loadRm(w)
	var imm uint32
	if w == 32 {
		imm = c.fetch32()
	} else {
		imm = uint32(c.fetch16())
	}
	lo, _, flags := aluIMul(w, src, imm)
	c.SetFlags((c.Flags() &^ (FlagCF | FlagOF)) | flags&(FlagCF|FlagOF))
	if w == 32 {
		c.setReg32Field(lo)
	} else {
		c.setReg16Field(uint16(lo))
	}
	return nil
}

func opImulGvEvIb(c *CPU) error {
	w := c.vWidth()
	src := c.loadRm(w)
	imm := uint32(int32(int8(c.fetch8())))
	lo, _, flags := aluIMul(w, src, imm)
	c.SetFlags((c.Flags() &^ (FlagCF | FlagOF)) | flags&(FlagCF|FlagOF))
	if w == 32 {
		c.setReg32Field(lo)
	} else {
		c.setReg16Field(uint16(lo))
	}
	return nil
}

func opImulGvEv(c *CPU) error {
	w := c.vWidth()
	src := c.loadRm(w)
	dst := c.loadRegField(w)
	lo, _, flags := aluIMul(w, dst, src)
	c.SetFlags((c.Flags() &^ (FlagCF | FlagOF)) | flags&(FlagCF|FlagOF))
	if w == 32 {
		c.setReg32Field(lo)
	} else {
		c.setReg16Field(uint16(lo))
	}
	return nil
}

func (c *CPU) loadRegField(width int) uint32 {
	if width == 32 {
		return c.getReg32Field()
	}
	return uint32(c.getReg16Field())
}

// -----------------------------------------------------------------------
// Decimal-adjust family (rarely used outside BCD arithmetic, kept for
// completeness since real DOS binaries occasionally use AAM/AAD as a
// cheap multiply/divide-by-10 idiom).
// -----------------------------------------------------------------------

func opDAA(c *CPU) error {
	al := c.AL()
	oldAL := al
	oldCF := c.CF()
	cf := false
	if al&0x0F > 9 || c.AF() {
		carry := uint16(al) + 6 > 0xFF
		al += 6
		c.setFlag(FlagAF, true)
		cf = oldCF || carry
	} else {
		c.setFlag(FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al += 0x60
		cf = true
	}
	c.setFlag(FlagCF, cf)
	c.SetAL(al)
	c.setFlag(FlagZF, al == 0)
	c.setFlag(FlagSF, al&0x80 != 0)
	c.setFlag(FlagPF, parity(al))
	return nil
}

func opDAS(c *CPU) error {
	al := c.AL()
	oldAL := al
	oldCF := c.CF()
	cf := false
	if al&0x0F > 9 || c.AF() {
		borrow := al < 6
		al -= 6
		c.setFlag(FlagAF, true)
		cf = oldCF || borrow
	} else {
		c.setFlag(FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al -= 0x60
		cf = true
	}
	c.setFlag(FlagCF, cf)
	c.SetAL(al)
	c.setFlag(FlagZF, al == 0)
	c.setFlag(FlagSF, al&0x80 != 0)
	c.setFlag(FlagPF, parity(al))
	return nil
}

func opAAA(c *CPU) error {
	if c.AL()&0x0F > 9 || c.AF() {
		c.SetAX(c.AX() + 0x106)
		c.setFlag(FlagAF, true)
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagAF, false)
		c.setFlag(FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
	return nil
}

func opAAS(c *CPU) error {
	if c.AL()&0x0F > 9 || c.AF() {
		c.SetAX(c.AX() - 6)
		c.SetAH(c.AH() - 1)
		c.setFlag(FlagAF, true)
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagAF, false)
		c.setFlag(FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
	return nil
}

func opAAM(c *CPU) error {
	base := c.fetch8()
	if base == 0 {
		return &DivisionFaultError{}
	}
	al := c.AL()
	c.SetAH(al / base)
	c.SetAL(al % base)
	c.setFlag(FlagZF, c.AL() == 0)
	c.setFlag(FlagSF, c.AL()&0x80 != 0)
	c.setFlag(FlagPF, parity(c.AL()))
	return nil
}

func opAAD(c *CPU) error {
	base := c.fetch8()
	al := c.AH()*base + c.AL()
	c.SetAL(al)
	c.SetAH(0)
	c.setFlag(FlagZF, al == 0)
	c.setFlag(FlagSF, al&0x80 != 0)
	c.setFlag(FlagPF, parity(al))
	return nil
}
