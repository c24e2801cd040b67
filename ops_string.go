// ops_string.go - MOVS/CMPS/STOS/LODS/SCAS/INS/OUTS
//
// Each handler implements exactly one element's worth of the operation;
// the REP loop in executor.go is what repeats it CX times. Destination
// operands (ES:DI for MOVS/STOS/SCAS/INS) can never take a segment
// override; source operands default to DS:SI and do honor an active
// override.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func (c *CPU) stringWidth(opcode byte) int {
	if opcode&1 == 0 {
		return 8
	}
	if c.prefixOpSize {
		return 32
	}
	return 16
}

func (c *CPU) advance(reg16 func() uint16, set16 func(uint16), size int) {
	d := int32(size)
	if c.DF() {
		d = -d
	}
	set16(uint16(int32(reg16()) + d))
}

func opMovs(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		srcSeg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
		srcAddr := physicalAddress(srcSeg, c.SI())
		dstAddr := physicalAddress(c.es, c.DI())
		switch w {
		case 8:
			c.bus.Write8(dstAddr, c.bus.Read8(srcAddr))
		case 32:
			c.bus.Write32(dstAddr, c.bus.Read32(srcAddr))
		default:
			c.bus.Write16(dstAddr, c.bus.Read16(srcAddr))
		}
		size := w / 8
		c.advance(c.SI, c.SetSI, size)
		c.advance(c.DI, c.SetDI, size)
		return nil
	}
}

func opCmps(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		srcSeg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
		srcAddr := physicalAddress(srcSeg, c.SI())
		dstAddr := physicalAddress(c.es, c.DI())
		var a, b uint32
		switch w {
		case 8:
			a, b = uint32(c.bus.Read8(srcAddr)), uint32(c.bus.Read8(dstAddr))
		case 32:
			a, b = c.bus.Read32(srcAddr), c.bus.Read32(dstAddr)
		default:
			a, b = uint32(c.bus.Read16(srcAddr)), uint32(c.bus.Read16(dstAddr))
		}
		_, flags := aluSub(w, a, b, false)
		c.applyAluFlags(flags)
		size := w / 8
		c.advance(c.SI, c.SetSI, size)
		c.advance(c.DI, c.SetDI, size)
		return nil
	}
}

func opStos(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		addr := physicalAddress(c.es, c.DI())
		switch w {
		case 8:
			c.bus.Write8(addr, c.AL())
		case 32:
			c.bus.Write32(addr, c.eax)
		default:
			c.bus.Write16(addr, c.AX())
		}
		c.advance(c.DI, c.SetDI, w/8)
		return nil
	}
}

func opLods(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
		addr := physicalAddress(seg, c.SI())
		switch w {
		case 8:
			c.SetAL(c.bus.Read8(addr))
		case 32:
			c.eax = c.bus.Read32(addr)
		default:
			c.SetAX(c.bus.Read16(addr))
		}
		c.advance(c.SI, c.SetSI, w/8)
		return nil
	}
}

func opScas(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		addr := physicalAddress(c.es, c.DI())
		var a, b uint32
		switch w {
		case 8:
			a, b = uint32(c.AL()), uint32(c.bus.Read8(addr))
		case 32:
			a, b = c.eax, c.bus.Read32(addr)
		default:
			a, b = uint32(c.AX()), uint32(c.bus.Read16(addr))
		}
		_, flags := aluSub(w, a, b, false)
		c.applyAluFlags(flags)
		c.advance(c.DI, c.SetDI, w/8)
		return nil
	}
}

func opIns(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		addr := physicalAddress(c.es, c.DI())
		switch w {
		case 8:
			v, _ := c.ports.In8(c.DX())
			c.bus.Write8(addr, v)
		case 32:
			v, _ := c.ports.In32(c.DX())
			c.bus.Write32(addr, v)
		default:
			v, _ := c.ports.In16(c.DX())
			c.bus.Write16(addr, v)
		}
		c.advance(c.DI, c.SetDI, w/8)
		return nil
	}
}

func opOuts(opcode byte) opFunc {
	return func(c *CPU) error {
		w := c.stringWidth(opcode)
		seg := c.getSeg(effectiveSegment(SegDS, c.prefixSeg))
		addr := physicalAddress(seg, c.SI())
		switch w {
		case 8:
			c.ports.Out8(c.DX(), c.bus.Read8(addr))
		case 32:
			c.ports.Out32(c.DX(), c.bus.Read32(addr))
		default:
			c.ports.Out16(c.DX(), c.bus.Read16(addr))
		}
		c.advance(c.SI, c.SetSI, w/8)
		return nil
	}
}
