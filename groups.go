// groups.go - ModR/M-selected instruction groups (Grp1-Grp5)
//
// Each group switches on the ModR/M reg field and returns as soon as a
// case matches; no group ever falls through to an unconditional
// InvalidGroupIndexError after a fully-populated switch. The error is
// only reachable for a reg value the group does not define: Grp2
// sub-index 6, Grp4 sub-indices 2-7 and Grp5 sub-index 7. Grp1 and Grp3
// define all eight values.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// grp1 implements ADD/OR/ADC/SBB/AND/SUB/XOR/CMP against an immediate,
// selected by opcode 0x80-0x83.
func (c *CPU) grp1(width int, immWidth int, signExtendImm bool) error {
	reg := c.getRegField()
	var dst, imm uint32
	if width == 8 {
		dst = uint32(c.getRm8())
	} else if c.prefixOpSize {
		dst = c.getRm32()
	} else {
		dst = uint32(c.getRm16())
	}

	if immWidth == 8 {
		b := c.fetch8()
		if signExtendImm {
			imm = uint32(int32(int8(b)))
		} else {
			imm = uint32(b)
		}
	} else if c.prefixOpSize && width != 8 {
		imm = c.fetch32()
	} else {
		imm = uint32(c.fetch16())
	}

	effWidth := width
	if width != 8 && c.prefixOpSize {
		effWidth = 32
	}

	var result, flags uint32
	switch reg {
	case 0: // ADD
		result, flags = aluAdd(effWidth, dst, imm, false)
	case 1: // OR
		result, flags = aluOr(effWidth, dst, imm)
	case 2: // ADC
		result, flags = aluAdd(effWidth, dst, imm, c.CF())
	case 3: // SBB
		result, flags = aluSub(effWidth, dst, imm, c.CF())
	case 4: // AND
		result, flags = aluAnd(effWidth, dst, imm)
	case 5: // SUB
		result, flags = aluSub(effWidth, dst, imm, false)
	case 6: // XOR
		result, flags = aluXor(effWidth, dst, imm)
	case 7: // CMP - discards result
		result, flags = aluSub(effWidth, dst, imm, false)
		c.SetFlags((c.Flags() &^ aluFlagMask) | flags)
		return nil
	default:
		return &InvalidGroupIndexError{Group: 1, Index: reg, CS: c.cs, IP: c.IP()}
	}

	c.SetFlags((c.Flags() &^ aluFlagMask) | flags)
	c.storeRm(effWidth, result)
	return nil
}

const aluFlagMask = FlagCF | FlagPF | FlagAF | FlagZF | FlagSF | FlagOF

func (c *CPU) storeRm(width int, v uint32) {
	switch width {
	case 8:
		c.setRm8(byte(v))
	case 32:
		c.setRm32(v)
	default:
		c.setRm16(uint16(v))
	}
}

func (c *CPU) loadRm(width int) uint32 {
	switch width {
	case 8:
		return uint32(c.getRm8())
	case 32:
		return c.getRm32()
	default:
		return uint32(c.getRm16())
	}
}

// grp2CountImm8 and friends supply a Grp2 shift/rotate count. They are
// invoked only after the ModR/M byte (and any displacement) has already
// been consumed, since 0xC0/0xC1 encode their count as a trailing
// immediate byte that must not be read ahead of the operand.
func grp2CountImm8(c *CPU) uint { return uint(c.fetch8()) }
func grp2CountOne(c *CPU) uint  { return 1 }
func grp2CountCL(c *CPU) uint   { return uint(c.CL()) }

// grp2 implements ROL/ROR/RCL/RCR/SHL/SHR/SAL/SAR, selected by opcode
// 0xC0/0xC1 (immediate count), 0xD0/0xD1 (count==1), 0xD2/0xD3 (count in
// CL).
func (c *CPU) grp2(width int, countFn func(*CPU) uint) error {
	reg := c.getRegField()
	effWidth := width
	if width != 8 && c.prefixOpSize {
		effWidth = 32
	}
	val := c.loadRm(effWidth)
	count := countFn(c)

	var result uint32
	var cf, of bool
	var flags uint32

	switch reg {
	case 0:
		result, cf, of = aluRotateLeft(effWidth, val, count, c.CF())
	case 1:
		result, cf, of = aluRotateRight(effWidth, val, count, c.CF())
	case 2:
		result, cf, of = aluRotateLeftCarry(effWidth, val, count, c.CF())
	case 3:
		result, cf, of = aluRotateRightCarry(effWidth, val, count, c.CF())
	case 4: // SHL/SAL
		result, flags = aluShiftLeft(effWidth, val, count)
		c.applyShiftFlags(flags, count)
		c.storeRm(effWidth, result)
		return nil
	case 5:
		result, flags = aluShiftRight(effWidth, val, count)
		c.applyShiftFlags(flags, count)
		c.storeRm(effWidth, result)
		return nil
	case 7:
		result, flags = aluShiftArith(effWidth, val, count)
		c.applyShiftFlags(flags, count)
		c.storeRm(effWidth, result)
		return nil
	default:
		return &InvalidGroupIndexError{Group: 2, Index: reg, CS: c.cs, IP: c.IP()}
	}

	if count != 0 {
		c.setFlag(FlagCF, cf)
		if count == 1 {
			c.setFlag(FlagOF, of)
		}
	}
	c.storeRm(effWidth, result)
	return nil
}

func (c *CPU) applyShiftFlags(flags uint32, count uint) {
	if count == 0 {
		return
	}
	keep := uint32(FlagAF) // AF is undefined after a shift; leave the prior value
	preserved := c.Flags() & keep
	c.SetFlags((c.Flags() &^ (aluFlagMask &^ keep)) | flags | preserved&0)
}

// grp3 implements TEST/NOT/NEG/MUL/IMUL/DIV/IDIV, selected by opcode
// 0xF6/0xF7.
func (c *CPU) grp3(width int) error {
	reg := c.getRegField()
	effWidth := width
	if width != 8 && c.prefixOpSize {
		effWidth = 32
	}
	val := c.loadRm(effWidth)

	switch reg {
	case 0, 1: // TEST
		var imm uint32
		if effWidth == 8 {
			imm = uint32(c.fetch8())
		} else if effWidth == 32 {
			imm = c.fetch32()
		} else {
			imm = uint32(c.fetch16())
		}
		_, flags := aluAnd(effWidth, val, imm)
		c.SetFlags((c.Flags() &^ aluFlagMask) | flags)
	case 2: // NOT
		c.storeRm(effWidth, aluNot(effWidth, val))
	case 3: // NEG
		result, flags := aluNeg(effWidth, val)
		c.SetFlags((c.Flags() &^ aluFlagMask) | flags)
		c.storeRm(effWidth, result)
	case 4: // MUL
		c.doMul(effWidth, val, false)
	case 5: // IMUL
		c.doMul(effWidth, val, true)
	case 6: // DIV
		return c.doDiv(effWidth, val, false)
	case 7: // IDIV
		return c.doDiv(effWidth, val, true)
	default:
		return &InvalidGroupIndexError{Group: 3, Index: reg, CS: c.cs, IP: c.IP()}
	}
	return nil
}

func (c *CPU) doMul(width int, operand uint32, signed bool) {
	var lo, hi, flags uint32
	if signed {
		switch width {
		case 8:
			lo, _, flags = aluIMul(8, uint32(c.AL()), operand)
			c.SetAX(uint16(lo))
		case 32:
			lo, hi, flags = aluIMul(32, c.eax, operand)
			c.eax, c.edx = lo, hi
		default:
			lo, hi, flags = aluIMul(16, uint32(c.AX()), operand)
			c.SetAX(uint16(lo))
			c.SetDX(uint16(hi))
		}
	} else {
		switch width {
		case 8:
			lo, _, flags = aluMul(8, uint32(c.AL()), operand)
			c.SetAX(uint16(lo))
		case 32:
			lo, hi, flags = aluMul(32, c.eax, operand)
			c.eax, c.edx = lo, hi
		default:
			lo, hi, flags = aluMul(16, uint32(c.AX()), operand)
			c.SetAX(uint16(lo))
			c.SetDX(uint16(hi))
		}
	}
	c.SetFlags((c.Flags() &^ (FlagCF | FlagOF)) | flags&(FlagCF|FlagOF))
}

func (c *CPU) doDiv(width int, divisor uint32, signed bool) error {
	var quotient, remainder uint32
	var ok bool
	switch width {
	case 8:
		dividend := uint32(c.AX())
		if signed {
			quotient, remainder, ok = aluIDiv(8, int64(int16(c.AX())), int32(int8(byte(divisor))))
		} else {
			quotient, remainder, ok = aluDiv(8, uint64(dividend), divisor)
		}
		if !ok {
			return &DivisionFaultError{}
		}
		c.SetAL(byte(quotient))
		c.SetAH(byte(remainder))
	case 32:
		dividend := uint64(c.edx)<<32 | uint64(c.eax)
		if signed {
			quotient, remainder, ok = aluIDiv(32, int64(dividend), int32(divisor))
		} else {
			quotient, remainder, ok = aluDiv(32, dividend, divisor)
		}
		if !ok {
			return &DivisionFaultError{}
		}
		c.eax, c.edx = quotient, remainder
	default:
		dividend := uint32(c.DX())<<16 | uint32(c.AX())
		if signed {
			quotient, remainder, ok = aluIDiv(16, int64(int32(dividend)), int32(int16(uint16(divisor))))
		} else {
			quotient, remainder, ok = aluDiv(16, uint64(dividend), divisor)
		}
		if !ok {
			return &DivisionFaultError{}
		}
		c.SetAX(uint16(quotient))
		c.SetDX(uint16(remainder))
	}
	return nil
}

// grp4 implements INC/DEC Eb (opcode 0xFE).
func (c *CPU) grp4() error {
	reg := c.getRegField()
	val := uint32(c.getRm8())
	switch reg {
	case 0:
		result, flags := aluInc(8, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.setRm8(byte(result))
	case 1:
		result, flags := aluDec(8, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.setRm8(byte(result))
	default:
		return &InvalidGroupIndexError{Group: 4, Index: reg, CS: c.cs, IP: c.IP()}
	}
	return nil
}

// grp5 implements INC/DEC Ev, CALL/JMP (near and far, indirect), and
// PUSH Ev, selected by opcode 0xFF.
func (c *CPU) grp5() error {
	reg := c.getRegField()
	effWidth := 16
	if c.prefixOpSize {
		effWidth = 32
	}

	switch reg {
	case 0:
		val := c.loadRm(effWidth)
		result, flags := aluInc(effWidth, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.storeRm(effWidth, result)
	case 1:
		val := c.loadRm(effWidth)
		result, flags := aluDec(effWidth, val)
		c.SetFlags((c.Flags() &^ (aluFlagMask &^ FlagCF)) | flags&^FlagCF)
		c.storeRm(effWidth, result)
	case 2: // CALL near indirect
		target := c.loadRm(effWidth)
		c.callNear(uint16(target))
	case 3: // CALL far indirect, operand is a pointer in memory
		addr := c.getMemoryAddress()
		off := c.bus.Read16(addr)
		seg := c.bus.Read16(addr + 2)
		c.callFar(seg, off)
	case 4: // JMP near indirect
		target := c.loadRm(effWidth)
		c.eip = target & widthMask(effWidth)
		c.workingIP = c.eip
	case 5: // JMP far indirect
		addr := c.getMemoryAddress()
		off := c.bus.Read16(addr)
		seg := c.bus.Read16(addr + 2)
		c.cs = seg
		c.eip = uint32(off)
		c.workingIP = c.eip
	case 6: // PUSH Ev
		c.pushOperand(c.loadRm(effWidth))
	default:
		return &InvalidGroupIndexError{Group: 5, Index: reg, CS: c.cs, IP: c.IP()}
	}
	return nil
}
