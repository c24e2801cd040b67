// recorder_test.go - Pending/committed memory-touch bookkeeping

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecorderCommitKeepsLargestWidth(t *testing.T) {
	r := NewRecorder()
	r.Touch(0x1000, AccessRead, Size8)
	r.Touch(0x1000, AccessRead, Size32)
	r.Commit()

	snap := r.Snapshot()
	assert.Equal(t, Size32, snap[0x1000])
}

func TestRecorderDiscardDropsPending(t *testing.T) {
	r := NewRecorder()
	r.Touch(0x2000, AccessWrite, Size16)
	r.Discard()
	r.Commit() // nothing pending left to commit

	snap := r.Snapshot()
	_, ok := snap[0x2000]
	assert.False(t, ok, "a discarded touch must never reach the committed set")
}

func TestRecorderResetClearsCommitted(t *testing.T) {
	r := NewRecorder()
	r.Touch(0x3000, AccessRead, Size8)
	r.Commit()
	r.Reset()

	assert.Empty(t, r.Snapshot())
}

func TestRecorderReadWriteTrackedSeparately(t *testing.T) {
	r := NewRecorder()
	r.Touch(0x4000, AccessRead, Size8)
	r.Touch(0x4000, AccessWrite, Size16)
	r.Commit()

	// Snapshot collapses by address only; the committed set keeps the read
	// and the write as two distinct addrKeys.
	assert.Len(t, r.committed, 2)
	snap := r.Snapshot()
	assert.Contains(t, snap, uint32(0x4000))
}
