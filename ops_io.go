// ops_io.go - IN/OUT opcodes, routed through the port dispatcher
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

func opInALImm8(c *CPU) error {
	port := uint16(c.fetch8())
	v, err := c.ports.In8(port)
	if err != nil {
		return err
	}
	c.SetAL(v)
	return nil
}

func opInAxImm8(c *CPU) error {
	port := uint16(c.fetch8())
	if c.vWidth() == 32 {
		v, err := c.ports.In32(port)
		if err != nil {
			return err
		}
		c.eax = v
	} else {
		v, err := c.ports.In16(port)
		if err != nil {
			return err
		}
		c.SetAX(v)
	}
	return nil
}

func opOutImm8AL(c *CPU) error {
	port := uint16(c.fetch8())
	return c.ports.Out8(port, c.AL())
}

func opOutImm8Ax(c *CPU) error {
	port := uint16(c.fetch8())
	if c.vWidth() == 32 {
		return c.ports.Out32(port, c.eax)
	}
	return c.ports.Out16(port, c.AX())
}

func opInALDx(c *CPU) error {
	v, err := c.ports.In8(c.DX())
	if err != nil {
		return err
	}
	c.SetAL(v)
	return nil
}

func opInAxDx(c *CPU) error {
	if c.vWidth() == 32 {
		v, err := c.ports.In32(c.DX())
		if err != nil {
			return err
		}
		c.eax = v
	} else {
		v, err := c.ports.In16(c.DX())
		if err != nil {
			return err
		}
		c.SetAX(v)
	}
	return nil
}

func opOutDxAL(c *CPU) error { return c.ports.Out8(c.DX(), c.AL()) }

func opOutDxAx(c *CPU) error {
	if c.vWidth() == 32 {
		return c.ports.Out32(c.DX(), c.eax)
	}
	return c.ports.Out16(c.DX(), c.AX())
}
