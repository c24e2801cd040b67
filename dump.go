// dump.go - Function-dump text reporter
//
// A plain fmt.Fprintf-based report: a header line with the instruction
// count, then a section per function handler with one block per observed
// function; there is no footer. No disassembly is attempted here,
// only the call-graph and touch-set facts the core itself observed.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"io"
	"sort"
)

// DumpFunctions writes a human-readable report of everything the
// function handlers observed during a run: each called address, who
// called it, where it returned to, and how many times. The normal and
// external-interrupt handlers are reported as separate sections so an
// ISR's call graph is never confused with the code it interrupted.
func DumpFunctions(w io.Writer, cpu *CPU) error {
	fmt.Fprintf(w, "function dump (%d instructions executed)\n", cpu.Cycles)
	fmt.Fprintln(w, "== normal control flow ==")
	if err := dumpHandler(w, cpu.fnNormal); err != nil {
		return err
	}
	fmt.Fprintln(w, "== external interrupt servicing ==")
	if err := dumpHandler(w, cpu.fnExternal); err != nil {
		return err
	}
	return nil
}

func dumpHandler(w io.Writer, h *FunctionHandler) error {
	keys := make([]uint32, 0, len(h.Functions()))
	for k := range h.Functions() {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	for _, key := range keys {
		info := h.Functions()[key]
		if _, err := fmt.Fprintf(w, "%04X:%04X  calls=%d callers=%d returnSites=%d",
			info.Segment, info.Offset, info.CallCount, len(info.Callers), len(info.ReturnSiteCounts)); err != nil {
			return err
		}
		if info.Override != nil {
			fmt.Fprint(w, " [overridden]")
		}
		fmt.Fprintln(w)

		callers := sortedKeys(info.Callers)
		for _, c := range callers {
			fmt.Fprintf(w, "    called from %04X:%04X\n", c>>16, c&0xFFFF)
		}
		retKeys := make([]uint32, 0, len(info.ReturnSiteCounts))
		for k := range info.ReturnSiteCounts {
			retKeys = append(retKeys, k)
		}
		sort.Slice(retKeys, func(i, j int) bool { return retKeys[i] < retKeys[j] })
		for _, r := range retKeys {
			fmt.Fprintf(w, "    returned to  %04X:%04X x%d\n", r>>16, r&0xFFFF, info.ReturnSiteCounts[r])
		}
	}

	if len(h.Corruptions) > 0 {
		fmt.Fprintln(w, "  shadow-stack diagnostics:")
		for _, msg := range h.Corruptions {
			fmt.Fprintf(w, "    %s\n", msg)
		}
	}
	return nil
}

func sortedKeys(m map[uint32]struct{}) []uint32 {
	out := make([]uint32, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// DumpTouches writes the static memory-touch set the recorder
// accumulated, one line per physical address with the widest width seen,
// for a host that wants a rough code/data classification without a
// disassembler. Reads and writes are not distinguished in the output.
func DumpTouches(w io.Writer, cpu *CPU) {
	touches := cpu.rec.Snapshot()
	addrs := make([]uint32, 0, len(touches))
	for a := range touches {
		addrs = append(addrs, a)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	fmt.Fprintf(w, "%d distinct addresses touched\n", len(addrs))
	for _, a := range addrs {
		fmt.Fprintf(w, "  %05X  width=%d\n", a, touches[a])
	}
}
