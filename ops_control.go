// ops_control.go - Conditional jumps, loop opcodes, CALL/RET/JMP, software
// interrupts, and the single-bit flag-control opcodes.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func (c *CPU) condition(cc byte) bool {
	switch cc & 0x0F {
	case 0x0:
		return c.OF()
	case 0x1:
		return !c.OF()
	case 0x2:
		return c.CF()
	case 0x3:
		return !c.CF()
	case 0x4:
		return c.ZF()
	case 0x5:
		return !c.ZF()
	case 0x6:
		return c.CF() || c.ZF()
	case 0x7:
		return !c.CF() && !c.ZF()
	case 0x8:
		return c.SF()
	case 0x9:
		return !c.SF()
	case 0xA:
		return c.PF()
	case 0xB:
		return !c.PF()
	case 0xC:
		return c.SF() != c.OF()
	case 0xD:
		return c.SF() == c.OF()
	case 0xE:
		return c.ZF() || c.SF() != c.OF()
	case 0xF:
		return !c.ZF() && c.SF() == c.OF()
	}
	return false
}

// opJcc8 builds the short (rel8) conditional jump for opcode 0x70-0x7F.
func opJcc8(cc byte) opFunc {
	return func(c *CPU) error {
		rel := int32(int8(c.fetch8()))
		if c.condition(cc) {
			c.branchRel(rel)
		}
		return nil
	}
}

// opJcc16 builds the near (rel16/32) conditional jump for 0x0F 0x80-0x8F.
func opJcc16(cc byte) opFunc {
	return func(c *CPU) error {
		var rel int32
		if c.prefixOpSize {
			rel = int32(c.fetch32())
		} else {
			rel = int32(int16(c.fetch16()))
		}
		if c.condition(cc) {
			c.branchRel(rel)
		}
		return nil
	}
}

func (c *CPU) branchRel(rel int32) {
	c.workingIP = uint32(int64(c.workingIP) + int64(rel))
}

func opJmpShort(c *CPU) error {
	rel := int32(int8(c.fetch8()))
	c.branchRel(rel)
	return nil
}

func opJmpNear(c *CPU) error {
	var rel int32
	if c.prefixOpSize {
		rel = int32(c.fetch32())
	} else {
		rel = int32(int16(c.fetch16()))
	}
	c.branchRel(rel)
	return nil
}

func opJmpFar(c *CPU) error {
	off := c.fetch16()
	seg := c.fetch16()
	c.cs = seg
	c.workingIP = uint32(off)
	return nil
}

// -----------------------------------------------------------------------
// LOOP family (0xE0-0xE3)
// -----------------------------------------------------------------------

func opLoopnz(c *CPU) error {
	rel := int32(int8(c.fetch8()))
	c.SetCX(c.CX() - 1)
	if c.CX() != 0 && !c.ZF() {
		c.branchRel(rel)
	}
	return nil
}

func opLoopz(c *CPU) error {
	rel := int32(int8(c.fetch8()))
	c.SetCX(c.CX() - 1)
	if c.CX() != 0 && c.ZF() {
		c.branchRel(rel)
	}
	return nil
}

func opLoop(c *CPU) error {
	rel := int32(int8(c.fetch8()))
	c.SetCX(c.CX() - 1)
	if c.CX() != 0 {
		c.branchRel(rel)
	}
	return nil
}

func opJcxz(c *CPU) error {
	rel := int32(int8(c.fetch8()))
	if c.CX() == 0 {
		c.branchRel(rel)
	}
	return nil
}

// -----------------------------------------------------------------------
// CALL/RET, tracked through the active FunctionHandler
// -----------------------------------------------------------------------

func (c *CPU) callNear(target uint16) {
	retIP := uint16(c.workingIP)
	c.pushOperand(uint32(retIP))
	tgt := c.fnActive.call(CallKindNear, c.cs, retIP, c.cs, target)
	c.dispatchCallTarget(tgt)
}

func (c *CPU) callFar(seg, off uint16) {
	retCS, retIP := c.cs, uint16(c.workingIP)
	c.push16(retCS)
	c.pushOperand(uint32(retIP))
	tgt := c.fnActive.call(CallKindFar, retCS, retIP, seg, off)
	c.dispatchCallTarget(tgt)
}

// dispatchCallTarget commits an emulated jump or invokes a native
// override in place of entering emulated code.
func (c *CPU) dispatchCallTarget(tgt CallTarget) {
	if tgt.Kind == TargetNative {
		tgt.Native(c)
		return
	}
	c.cs = tgt.Segment
	c.workingIP = uint32(tgt.Offset)
}

func opCallNear(c *CPU) error {
	var rel int32
	if c.prefixOpSize {
		rel = int32(c.fetch32())
	} else {
		rel = int32(int16(c.fetch16()))
	}
	target := uint16(int64(c.workingIP) + int64(rel))
	c.callNear(target)
	return nil
}

func opCallFar(c *CPU) error {
	off := c.fetch16()
	seg := c.fetch16()
	c.callFar(seg, off)
	return nil
}

func opRetNear(c *CPU) error {
	ip := uint16(c.popOperand())
	c.fnActive.ret(c.cs, ip)
	c.workingIP = uint32(ip)
	return nil
}

func opRetNearImm(c *CPU) error {
	imm := c.fetch16()
	ip := uint16(c.popOperand())
	c.SetSP(c.SP() + imm)
	c.fnActive.ret(c.cs, ip)
	c.workingIP = uint32(ip)
	return nil
}

func opRetFar(c *CPU) error {
	ip := uint16(c.popOperand())
	cs := c.pop16()
	c.fnActive.ret(cs, ip)
	c.cs = cs
	c.workingIP = uint32(ip)
	return nil
}

func opRetFarImm(c *CPU) error {
	imm := c.fetch16()
	ip := uint16(c.popOperand())
	cs := c.pop16()
	c.SetSP(c.SP() + imm)
	c.fnActive.ret(cs, ip)
	c.cs = cs
	c.workingIP = uint32(ip)
	return nil
}

// -----------------------------------------------------------------------
// Software interrupts
// -----------------------------------------------------------------------

func opInt3(c *CPU) error { return c.interrupt(3, false) }

func opIntImm8(c *CPU) error {
	vector := c.fetch8()
	return c.interrupt(vector, false)
}

func opInto(c *CPU) error {
	if c.OF() {
		return c.interrupt(4, false)
	}
	return nil
}

func opIret(c *CPU) error {
	c.iret()
	return nil
}

func opHlt(c *CPU) error {
	c.Halted = true
	return nil
}

// -----------------------------------------------------------------------
// Single-bit flag control
// -----------------------------------------------------------------------

func opCMC(c *CPU) error { c.setFlag(FlagCF, !c.CF()); return nil }
func opCLC(c *CPU) error { c.setFlag(FlagCF, false); return nil }
func opSTC(c *CPU) error { c.setFlag(FlagCF, true); return nil }
func opCLI(c *CPU) error { c.setFlag(FlagIF, false); return nil }
func opSTI(c *CPU) error { c.setFlag(FlagIF, true); return nil }
func opCLD(c *CPU) error { c.setFlag(FlagDF, false); return nil }
func opSTD(c *CPU) error { c.setFlag(FlagDF, true); return nil }

// WAIT (0x9B) only matters for the x87 coprocessor, which this core
// reports as absent; it never has a pending exception to wait for.
func opWait(c *CPU) error { return nil }
