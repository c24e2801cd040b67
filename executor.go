// executor.go - Fetch/decode/execute loop
//
// Step() snapshots IP into workingIP, folds instruction prefixes,
// dispatches through the 256-entry opcode tables initBaseOps/
// initExtendedOps construct, runs the REP loop for string opcodes, then
// commits workingIP/cycles/recorder and services any latched external
// interrupt.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import "fmt"

type opFunc func(*CPU) error

// stringOpKind marks which string opcodes REP/REPE/REPNE can repeat, and
// whether the opcode is one of the two (CMPS/SCAS) that also tests ZF
// against the REP variant's continuation condition.
type stringOpKind int

const (
	notStringOp stringOpKind = iota
	stringOpPlain
	stringOpZeroTest
)

func classifyStringOp(opcode byte) stringOpKind {
	switch opcode {
	case 0xA4, 0xA5, 0xAA, 0xAB, 0xAC, 0xAD, 0x6C, 0x6D, 0x6E, 0x6F:
		return stringOpPlain
	case 0xA6, 0xA7, 0xAE, 0xAF:
		return stringOpZeroTest
	}
	return notStringOp
}

// Run executes instructions until Halted is set or SetRunning(false)
// clears the running flag, per the
// goroutine-driven execution pattern coproc_worker_x86.go uses: the
// caller typically runs this on its own goroutine and controls it via
// PauseController.
func (c *CPU) Run() error {
	for c.running && !c.Halted {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step executes exactly one architectural instruction (a REP-prefixed
// string opcode still counts as one Step, since the processor treats it
// as a single instruction that merely iterates internally).
func (c *CPU) Step() error {
	c.pause.checkpoint(c.cs, c.IP())

	c.clearPrefixes()
	c.rec.Discard()
	c.workingIP = c.eip

	opcode, err := c.decodePrefixes()
	if err != nil {
		return c.fault(err)
	}

	table := &c.opBase
	if opcode == 0x0F {
		opcode = c.fetch8()
		table = &c.opExt
	}

	handler := table[opcode]
	if handler == nil {
		return c.fault(&InvalidOpcodeError{Opcode: opcode, CS: c.cs, IP: c.IP(), AfterPrefix: c.prefixSeg != noOverride || c.prefixOpSize || c.prefixAddrSize || c.lockActive || c.continueZero != czUnset})
	}

	if c.cfg.loggingEnabled() {
		c.instrName = fmt.Sprintf("%02X", opcode)
	}

	kind := classifyStringOp(opcode)
	repActive := c.continueZero != czUnset && kind != notStringOp

	if repActive {
		for c.CX() != 0 {
			if err := handler(c); err != nil {
				return c.handleStepError(err)
			}
			c.SetCX(c.CX() - 1)
			if kind == stringOpZeroTest {
				want := c.continueZero == czTrue
				if c.ZF() != want {
					break
				}
			}
		}
	} else {
		if err := handler(c); err != nil {
			return c.handleStepError(err)
		}
	}

	c.Cycles++
	c.rec.Commit()
	c.eip = c.workingIP
	c.intr.serviceExternal()
	return nil
}

// decodePrefixes folds instruction-prefix bytes: a recognized prefix byte
// is consumed silently; only the terminating non-prefix byte is returned
// as the opcode to dispatch.
func (c *CPU) decodePrefixes() (byte, error) {
	for {
		b := c.fetch8()
		switch b {
		case 0x26:
			c.prefixSeg = SegES
		case 0x2E:
			c.prefixSeg = SegCS
		case 0x36:
			c.prefixSeg = SegSS
		case 0x3E:
			c.prefixSeg = SegDS
		case 0x64:
			c.prefixSeg = SegFS
		case 0x65:
			c.prefixSeg = SegGS
		case 0x66:
			c.prefixOpSize = true
		case 0x67:
			c.prefixAddrSize = true
		case 0xF0:
			c.lockActive = true
		case 0xF2:
			c.continueZero = czFalse
		case 0xF3:
			c.continueZero = czTrue
		default:
			return b, nil
		}
		if c.cfg.loggingEnabled() {
			c.prefixLabel += fmt.Sprintf("%02X ", b)
		}
	}
}

// handleStepError distinguishes a recoverable divide fault - which
// restarts the current instruction at its original CS:IP and dispatches
// INT 0, never reaching the caller - from every other error, which is
// fatal and wrapped into a FaultState.
func (c *CPU) handleStepError(err error) error {
	if _, isDivide := err.(*DivisionFaultError); isDivide {
		c.rec.Discard()
		// eip still points at DIV's first byte (workingIP has moved past
		// it): faultDivide resets workingIP to eip, its interrupt() pushes
		// that CS:IP and jumps CS:IP to the vector 0 handler itself, so
		// nothing here touches eip afterward.
		c.faultDivide()
		return nil
	}
	return c.fault(err)
}

// fault wraps an error with the architectural state at the point of
// failure. eip is never advanced for a faulting instruction, so the
// reported IP is the instruction's first byte and a caller that logs and
// continues doesn't desynchronize IP from CS.
func (c *CPU) fault(err error) error {
	c.rec.Discard()
	return &FaultState{
		Err:          err,
		CS:           c.cs,
		IP:           c.IP(),
		Regs:         c.Snapshot(),
		Flags:        c.Flags(),
		LastPrefixes: c.prefixLabel,
	}
}
