// observer.go - Pause/breakpoint observer, instruction-boundary handshake
//
// Grounded on cpu_six5go2.go's resetting/resetAck/executing atomic.Bool
// handshake: a CPU loop runs on its own goroutine, and Pause() requests a
// stop that the loop only honors between instructions, acknowledging via
// a second flag so the caller can block until the CPU is actually
// quiescent rather than racing it.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"runtime"
	"sync/atomic"
)

// PauseObserver is the interface a host uses to single-step or set
// breakpoints without owning the CPU's goroutine (e.g. a debugger UI
// built entirely outside this core).
type PauseObserver interface {
	// ShouldBreak is consulted once per instruction boundary with the
	// CS:IP about to execute; returning true pauses the CPU exactly as
	// if Pause() had been called.
	ShouldBreak(cs, ip uint16) bool
}

// PauseController coordinates a request to pause a CPU running on its own
// goroutine with the CPU's acknowledgment that it has actually stopped at
// an instruction boundary.
type PauseController struct {
	pauseRequested atomic.Bool
	paused         atomic.Bool
	observer       PauseObserver
}

func NewPauseController() *PauseController {
	return &PauseController{}
}

// SetObserver installs a breakpoint observer consulted every instruction
// boundary. A nil observer disables breakpoint checking without affecting
// an explicit Pause()/Resume() pair.
func (p *PauseController) SetObserver(o PauseObserver) {
	p.observer = o
}

// Pause requests a pause and blocks until the CPU acknowledges it has
// stopped at an instruction boundary.
func (p *PauseController) Pause() {
	p.pauseRequested.Store(true)
	for !p.paused.Load() {
		runtime.Gosched()
	}
}

// Resume releases a paused CPU.
func (p *PauseController) Resume() {
	p.pauseRequested.Store(false)
	p.paused.Store(false)
}

func (p *PauseController) IsPaused() bool { return p.paused.Load() }

// checkpoint is called by Step() once per instruction boundary, before
// fetching the next opcode. It blocks the calling goroutine (the CPU's
// own execution loop) while a pause is in effect.
func (p *PauseController) checkpoint(cs, ip uint16) {
	if p.observer != nil && p.observer.ShouldBreak(cs, ip) {
		p.pauseRequested.Store(true)
	}
	if !p.pauseRequested.Load() {
		return
	}
	p.paused.Store(true)
	for p.pauseRequested.Load() {
		runtime.Gosched()
	}
	p.paused.Store(false)
}
