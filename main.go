// main.go - x86run: a small CLI around the real-mode x86 core
//
// The CLI is a consumer of the four interfaces the core exposes: it owns
// the .COM loader, the interactive console, and the function-dump
// output, none of which the core itself knows anything about.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDebug            bool
	flagFailOnPort       bool
	flagStrictInterrupts bool
	flagInteractive      bool
)

func main() {
	root := &cobra.Command{
		Use:   "x86run",
		Short: "Run flat .COM-style real-mode binaries against the x86 core",
	}
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable per-instruction diagnostics")
	root.PersistentFlags().BoolVar(&flagFailOnPort, "fail-on-unhandled-port", false, "error instead of ignoring IN/OUT to an unmapped port")
	root.PersistentFlags().BoolVar(&flagStrictInterrupts, "strict-interrupts", false, "error on INT through an uninitialized IVT entry")

	runCmd := &cobra.Command{
		Use:   "run <image>",
		Short: "Load a flat binary at CS:0100 and run it to HLT",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	runCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "drop into a raw-mode console on startup")

	dumpCmd := &cobra.Command{
		Use:   "dump-functions <image>",
		Short: "Run a flat binary to HLT, then print the observed call graph",
		Args:  cobra.ExactArgs(1),
		RunE:  runDump,
	}

	root.AddCommand(runCmd, dumpCmd)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildConfig() Config {
	cfg := DefaultConfig()
	cfg.DebugMode = flagDebug
	cfg.FailOnUnhandledPort = flagFailOnPort
	cfg.ErrorOnUninitializedInterruptHandler = flagStrictInterrupts
	return cfg
}

// loadCOM places a flat binary at the conventional .COM load address
// (CS:0100h) and initializes SP to the top of the 64K segment. A real DOS
// loader also builds a PSP at 0000h-00FFh; nothing in this core's scope
// depends on the PSP's contents, so it's left zeroed.
func loadCOM(mem *Memory, cpu *CPU, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	const loadSegment = 0x0000
	const loadOffset = 0x0100
	mem.LoadAt(uint32(loadSegment)<<4+loadOffset, data)
	cpu.SetCS(loadSegment)
	cpu.SetIP(loadOffset)
	cpu.SetSS(loadSegment)
	cpu.SetSP(0xFFFE)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	mem := NewMemory()
	cfg := buildConfig()
	cpu := NewCPU(mem, cfg, nil)
	if err := loadCOM(mem, cpu, args[0]); err != nil {
		return err
	}

	if flagInteractive {
		host, err := NewTerminalHost(cpu)
		if err != nil {
			return err
		}
		defer host.Close()
		host.Run()
		return nil
	}

	if err := cpu.Run(); err != nil {
		return fmt.Errorf("run stopped: %w", err)
	}
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	mem := NewMemory()
	cfg := buildConfig()
	cpu := NewCPU(mem, cfg, nil)
	if err := loadCOM(mem, cpu, args[0]); err != nil {
		return err
	}
	if err := cpu.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "run stopped: %v\n", err)
	}
	return DumpFunctions(os.Stdout, cpu)
}
