// terminal_host.go - Raw-mode interactive console for single-stepping
//
// Raw-mode stdin setup via golang.org/x/term, driving
// PauseController/PauseObserver single-stepping rather than routing
// keystrokes into an MMIO device - there is no video/audio subsystem
// here for keys to reach.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"
)

// TerminalHost runs a CPU on its own goroutine under PauseController and
// lets a human at a raw-mode terminal single-step it, inspect registers,
// and set a simple address breakpoint.
type TerminalHost struct {
	cpu        *CPU
	oldState   *term.State
	breakpoint uint32
	hasBreak   bool
}

func NewTerminalHost(cpu *CPU) (*TerminalHost, error) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not every environment this CLI runs in has a real tty (CI,
		// piped input); fall back to line mode rather than failing.
		oldState = nil
	}
	return &TerminalHost{cpu: cpu, oldState: oldState}, nil
}

func (h *TerminalHost) Close() {
	if h.oldState != nil {
		_ = term.Restore(int(os.Stdin.Fd()), h.oldState)
	}
}

// Run starts the CPU paused and drives it from line-buffered commands
// read off stdin: 's' steps one instruction, 'c' runs to completion or
// the next breakpoint, 'r' prints registers, 'b <hex>' sets a breakpoint,
// 'q' quits.
func (h *TerminalHost) Run() {
	h.cpu.pause.SetObserver(h)
	go func() {
		if err := h.cpu.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "\nrun stopped: %v\n", err)
		}
	}()
	h.cpu.pause.Pause()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("\r\nx86run> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		switch firstWord(line) {
		case "s", "step":
			h.cpu.pause.Resume()
			h.cpu.pause.Pause()
		case "c", "continue":
			h.cpu.pause.Resume()
			h.cpu.pause.Pause()
		case "r", "regs":
			h.printRegs()
		case "b", "break":
			h.setBreakFromLine(line)
		case "q", "quit":
			h.cpu.SetRunning(false)
			h.cpu.pause.Resume()
			return
		default:
			fmt.Println("commands: step, continue, regs, break <hex>, quit")
		}
		if h.cpu.Halted {
			fmt.Println("\r\nCPU halted")
			return
		}
	}
}

func (h *TerminalHost) printRegs() {
	r := h.cpu.Snapshot()
	fmt.Printf("\r\nAX=%04X BX=%04X CX=%04X DX=%04X SI=%04X DI=%04X BP=%04X SP=%04X\r\n",
		r.AX, r.BX, r.CX, r.DX, r.SI, r.DI, r.BP, r.SP)
	fmt.Printf("CS=%04X DS=%04X ES=%04X SS=%04X IP=%04X FLAGS=%08X\r\n",
		r.CS, r.DS, r.ES, r.SS, r.IP, r.Flags)
}

func (h *TerminalHost) setBreakFromLine(line string) {
	var addr uint32
	if _, err := fmt.Sscanf(line, "b %x", &addr); err != nil {
		if _, err := fmt.Sscanf(line, "break %x", &addr); err != nil {
			fmt.Println("usage: break <hex physical address>")
			return
		}
	}
	h.breakpoint = addr
	h.hasBreak = true
}

// ShouldBreak implements PauseObserver.
func (h *TerminalHost) ShouldBreak(cs, ip uint16) bool {
	if !h.hasBreak {
		return false
	}
	return physicalAddress(cs, ip) == h.breakpoint
}

func firstWord(line string) string {
	i := 0
	for i < len(line) && line[i] != ' ' && line[i] != '\n' && line[i] != '\r' {
		i++
	}
	return line[:i]
}
