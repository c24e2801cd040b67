// ops_init.go - Opcode dispatch table construction
//
// Two tables: one for single-byte opcodes, one for the 0x0F-prefixed
// extended set, built once per CPU instance and then never mutated.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func (c *CPU) initBaseOps() {
	// ADD/OR/ADC/SBB/AND/SUB/XOR/CMP: eight families at base 0x00, 0x08,
	// 0x10, ..., 0x38, each spanning Eb,Gb / Ev,Gv / Gb,Eb / Gv,Ev /
	// AL,ib / eAX,iv at offsets +0..+5.
	for idx := 0; idx < 8; idx++ {
		base := byte(idx * 8)
		i := idx
		c.opBase[base+0] = c.opAluEbGb(i)
		c.opBase[base+1] = c.opAluEvGv(i)
		c.opBase[base+2] = c.opAluGbEb(i)
		c.opBase[base+3] = c.opAluGvEv(i)
		c.opBase[base+4] = c.opAluALib(i)
		c.opBase[base+5] = c.opAluEaxIv(i)
	}

	c.opBase[0x06] = opPushSeg(SegES)
	c.opBase[0x07] = opPopSeg(SegES)
	c.opBase[0x0E] = opPushSeg(SegCS)
	c.opBase[0x16] = opPushSeg(SegSS)
	c.opBase[0x17] = opPopSeg(SegSS)
	c.opBase[0x1E] = opPushSeg(SegDS)
	c.opBase[0x1F] = opPopSeg(SegDS)

	c.opBase[0x27] = opDAA
	c.opBase[0x2F] = opDAS
	c.opBase[0x37] = opAAA
	c.opBase[0x3F] = opAAS

	for r := byte(0); r < 8; r++ {
		reg := r
		c.opBase[0x40+reg] = c.opIncReg(reg)
		c.opBase[0x48+reg] = c.opDecReg(reg)
		c.opBase[0x50+reg] = opPushReg(reg)
		c.opBase[0x58+reg] = opPopReg(reg)
		c.opBase[0x91+reg] = opXchgAxReg(reg) // 0x91-0x97; 0x90 is plain NOP
	}
	c.opBase[0x90] = opNOP

	c.opBase[0x60] = opPushA
	c.opBase[0x61] = opPopA

	c.opBase[0x68] = opPushImm(false)
	c.opBase[0x69] = opImulGvEvIv
	c.opBase[0x6A] = opPushImm(true)
	c.opBase[0x6B] = opImulGvEvIb
	c.opBase[0x6C] = opIns(0x6C)
	c.opBase[0x6D] = opIns(0x6D)
	c.opBase[0x6E] = opOuts(0x6E)
	c.opBase[0x6F] = opOuts(0x6F)

	for cc := byte(0); cc < 16; cc++ {
		c.opBase[0x70+cc] = opJcc8(cc)
	}

	c.opBase[0x80] = func(c *CPU) error { return c.grp1(8, 8, false) }
	c.opBase[0x81] = func(c *CPU) error { return c.grp1(16, 16, false) }
	c.opBase[0x82] = func(c *CPU) error { return c.grp1(8, 8, false) }
	c.opBase[0x83] = func(c *CPU) error { return c.grp1(16, 8, true) }

	c.opBase[0x84] = opTestEbGb
	c.opBase[0x85] = opTestEvGv
	c.opBase[0x86] = opXchgEbGb
	c.opBase[0x87] = opXchgEvGv
	c.opBase[0x88] = opMovEbGb
	c.opBase[0x89] = opMovEvGv
	c.opBase[0x8A] = opMovGbEb
	c.opBase[0x8B] = opMovGvEv
	c.opBase[0x8C] = opMovEwSw
	c.opBase[0x8D] = opLEA
	c.opBase[0x8E] = opMovSwEw
	c.opBase[0x8F] = opPopEv

	c.opBase[0x98] = opCBW
	c.opBase[0x99] = opCWD
	c.opBase[0x9A] = opCallFarDirect
	c.opBase[0x9B] = opWait
	c.opBase[0x9C] = opPushF
	c.opBase[0x9D] = opPopF
	c.opBase[0x9E] = opSAHF
	c.opBase[0x9F] = opLAHF

	c.opBase[0xA0] = opMovALOffs
	c.opBase[0xA1] = opMovAxOffs
	c.opBase[0xA2] = opMovOffsAL
	c.opBase[0xA3] = opMovOffsAx
	c.opBase[0xA4] = opMovs(0xA4)
	c.opBase[0xA5] = opMovs(0xA5)
	c.opBase[0xA6] = opCmps(0xA6)
	c.opBase[0xA7] = opCmps(0xA7)
	c.opBase[0xA8] = opTestALib
	c.opBase[0xA9] = opTestEaxIv
	c.opBase[0xAA] = opStos(0xAA)
	c.opBase[0xAB] = opStos(0xAB)
	c.opBase[0xAC] = opLods(0xAC)
	c.opBase[0xAD] = opLods(0xAD)
	c.opBase[0xAE] = opScas(0xAE)
	c.opBase[0xAF] = opScas(0xAF)

	for r := byte(0); r < 8; r++ {
		reg := r
		c.opBase[0xB0+reg] = opMovRegImm8(reg)
		c.opBase[0xB8+reg] = opMovRegImmV(reg)
	}

	c.opBase[0xC0] = func(c *CPU) error { return c.grp2(8, grp2CountImm8) }
	c.opBase[0xC1] = func(c *CPU) error { return c.grp2(16, grp2CountImm8) }
	c.opBase[0xC2] = opRetNearImm
	c.opBase[0xC3] = opRetNear
	c.opBase[0xC4] = opLoadFarPtr(SegES)
	c.opBase[0xC5] = opLoadFarPtr(SegDS)
	c.opBase[0xC6] = opMovEbIb
	c.opBase[0xC7] = opMovEvIv
	c.opBase[0xC9] = opLeave
	c.opBase[0xCA] = opRetFarImm
	c.opBase[0xCB] = opRetFar
	c.opBase[0xCC] = opInt3
	c.opBase[0xCD] = opIntImm8
	c.opBase[0xCE] = opInto
	c.opBase[0xCF] = opIret

	c.opBase[0xD0] = func(c *CPU) error { return c.grp2(8, grp2CountOne) }
	c.opBase[0xD1] = func(c *CPU) error { return c.grp2(16, grp2CountOne) }
	c.opBase[0xD2] = func(c *CPU) error { return c.grp2(8, grp2CountCL) }
	c.opBase[0xD3] = func(c *CPU) error { return c.grp2(16, grp2CountCL) }
	c.opBase[0xD4] = opAAM
	c.opBase[0xD5] = opAAD
	c.opBase[0xD7] = opXLAT
	for op := byte(0xD8); op <= 0xDF; op++ {
		c.opBase[op] = opFpuEscape
	}

	c.opBase[0xE0] = opLoopnz
	c.opBase[0xE1] = opLoopz
	c.opBase[0xE2] = opLoop
	c.opBase[0xE3] = opJcxz
	c.opBase[0xE4] = opInALImm8
	c.opBase[0xE5] = opInAxImm8
	c.opBase[0xE6] = opOutImm8AL
	c.opBase[0xE7] = opOutImm8Ax
	c.opBase[0xE8] = opCallNear
	c.opBase[0xE9] = opJmpNear
	c.opBase[0xEA] = opJmpFar
	c.opBase[0xEB] = opJmpShort
	c.opBase[0xEC] = opInALDx
	c.opBase[0xED] = opInAxDx
	c.opBase[0xEE] = opOutDxAL
	c.opBase[0xEF] = opOutDxAx

	c.opBase[0xF4] = opHlt
	c.opBase[0xF5] = opCMC
	c.opBase[0xF6] = func(c *CPU) error { return c.grp3(8) }
	c.opBase[0xF7] = func(c *CPU) error { return c.grp3(16) }
	c.opBase[0xF8] = opCLC
	c.opBase[0xF9] = opSTC
	c.opBase[0xFA] = opCLI
	c.opBase[0xFB] = opSTI
	c.opBase[0xFC] = opCLD
	c.opBase[0xFD] = opSTD
	c.opBase[0xFE] = func(c *CPU) error { return c.grp4() }
	c.opBase[0xFF] = func(c *CPU) error { return c.grp5() }
}

func (c *CPU) initExtendedOps() {
	for cc := byte(0); cc < 16; cc++ {
		c.opExt[0x80+cc] = opJcc16(cc)
	}
	c.opExt[0xAF] = opImulGvEv
	c.opExt[0xB6] = opMovzxGvEb
	c.opExt[0xB7] = opMovzxGvEw
	c.opExt[0xBE] = opMovsxGvEb
	c.opExt[0xBF] = opMovsxGvEw
}

func opCallFarDirect(c *CPU) error {
	off := c.fetch16()
	seg := c.fetch16()
	c.callFar(seg, off)
	return nil
}

func opLeave(c *CPU) error {
	if c.vWidth() == 32 {
		c.esp = c.ebp
		c.ebp = c.pop32()
	} else {
		c.SetSP(c.BP())
		c.SetBP(c.pop16())
	}
	return nil
}
