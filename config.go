// config.go - Core configuration knobs
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

// Config enumerates the core's configurable strictness and diagnostics
// knobs. It carries no behavior of its own; main.go's buildConfig
// populates one from cobra flags and hands it to NewCPU.
type Config struct {
	// FailOnUnhandledPort makes IN/OUT to an unmapped port return an
	// UnhandledIOPortError instead of reading 0 / swallowing the write.
	FailOnUnhandledPort bool

	// ErrorOnUninitializedInterruptHandler makes interrupt() return an
	// UnhandledOperationError when the target IVT entry is CS:IP == 0:0.
	ErrorOnUninitializedInterruptHandler bool

	// DebugMode gates population of the per-instruction diagnostic
	// scratch (instruction name, accumulated prefix labels). Off by
	// default so the hot path never allocates strings.
	DebugMode bool

	// ForceLog overrides DebugMode for a single run without flipping it,
	// e.g. to log just the next N instructions from a REPL command.
	// Nil means "use DebugMode".
	ForceLog *bool
}

// loggingEnabled resolves ForceLog over DebugMode.
func (c Config) loggingEnabled() bool {
	if c.ForceLog != nil {
		return *c.ForceLog
	}
	return c.DebugMode
}

// DefaultConfig picks permissive defaults: unmapped ports read as zero,
// uninitialized interrupt vectors are followed (most DOS boot code never
// populates the full IVT before enabling interrupts).
func DefaultConfig() Config {
	return Config{
		FailOnUnhandledPort:                  false,
		ErrorOnUninitializedInterruptHandler: false,
		DebugMode:                            false,
	}
}
