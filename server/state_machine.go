// Package server provides the host-side wrapper that enforces the
// ledger lifecycle state machine and routes capability-gated calls.
package server

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// phase is a step of the ledger lifecycle.
type phase uint32

const (
	// phaseInit: waiting for Handshake. Nothing else may be called.
	phaseInit phase = iota
	// phaseReady: the last block is committed (or none exists yet).
	// CheckTx, Query and Simulate may run concurrently.
	phaseReady
	// phaseExecuting: ExecuteBlock is running for committed+1.
	phaseExecuting
	// phaseExecuted: a block is staged. Commit is the only valid
	// next sequential call.
	phaseExecuted
	// phaseCommitting: Commit is running.
	phaseCommitting
)

func (p phase) String() string {
	switch p {
	case phaseInit:
		return "Init"
	case phaseReady:
		return "Ready"
	case phaseExecuting:
		return "Executing"
	case phaseExecuted:
		return "Executed"
	case phaseCommitting:
		return "Committing"
	default:
		return fmt.Sprintf("unknown(%d)", p)
	}
}

// LifecycleGuard enforces call order and block height continuity.
// Misuse is a programming error in the host and panics.
type LifecycleGuard struct {
	phase atomic.Uint32
	// seqMu serializes ExecuteBlock and Commit.
	seqMu sync.Mutex
	// open gates the concurrent calls once Handshake has completed.
	open atomic.Bool

	committed atomic.Uint64
	staged    uint64 // height being executed or awaiting commit; under seqMu
}

// NewLifecycleGuard creates a guard in the Init phase.
func NewLifecycleGuard() *LifecycleGuard {
	g := &LifecycleGuard{}
	g.phase.Store(uint32(phaseInit))
	return g
}

// State returns the current phase name.
func (g *LifecycleGuard) State() string {
	return g.current().String()
}

// Committed returns the last committed height, zero before the first
// block.
func (g *LifecycleGuard) Committed() uint64 {
	return g.committed.Load()
}

func (g *LifecycleGuard) current() phase {
	return phase(g.phase.Load())
}

// AcquireHandshake moves Init to Ready. Panics in any other phase.
func (g *LifecycleGuard) AcquireHandshake() {
	if !g.phase.CompareAndSwap(uint32(phaseInit), uint32(phaseReady)) {
		panic(fmt.Sprintf("ouh: Handshake called in phase %s (expected Init)", g.current()))
	}
}

// CompleteHandshake opens concurrent calls. committed is the height
// already applied by the application; the next block must be
// committed+1.
func (g *LifecycleGuard) CompleteHandshake(committed uint64) {
	g.committed.Store(committed)
	g.open.Store(true)
}

// FailHandshake returns to Init so the handshake can be retried.
func (g *LifecycleGuard) FailHandshake() {
	g.phase.Store(uint32(phaseInit))
}

// AcquireExecute moves Ready to Executing for height, blocking while
// another sequential call runs. Panics outside Ready or if height does
// not follow the committed height.
func (g *LifecycleGuard) AcquireExecute(height uint64) {
	g.seqMu.Lock()
	if p := g.current(); p != phaseReady {
		g.seqMu.Unlock()
		panic(fmt.Sprintf("ouh: ExecuteBlock called in phase %s (expected Ready)", p))
	}
	if want := g.committed.Load() + 1; height != want {
		g.seqMu.Unlock()
		panic(fmt.Sprintf("ouh: ExecuteBlock for height %d (expected %d)", height, want))
	}
	g.staged = height
	g.phase.Store(uint32(phaseExecuting))
}

// CompleteExecute moves Executing to Executed.
func (g *LifecycleGuard) CompleteExecute() {
	g.phase.Store(uint32(phaseExecuted))
	g.seqMu.Unlock()
}

// FailExecute returns to Ready so the same height can be retried.
func (g *LifecycleGuard) FailExecute() {
	g.staged = 0
	g.phase.Store(uint32(phaseReady))
	g.seqMu.Unlock()
}

// AcquireCommit moves Executed to Committing. Panics in any other
// phase.
func (g *LifecycleGuard) AcquireCommit() {
	g.seqMu.Lock()
	if p := g.current(); p != phaseExecuted {
		g.seqMu.Unlock()
		panic(fmt.Sprintf("ouh: Commit called in phase %s (expected Executed)", p))
	}
	g.phase.Store(uint32(phaseCommitting))
}

// CompleteCommit records the staged height as committed and returns
// to Ready.
func (g *LifecycleGuard) CompleteCommit() {
	g.committed.Store(g.staged)
	g.staged = 0
	g.phase.Store(uint32(phaseReady))
	g.seqMu.Unlock()
}

// CheckConcurrent panics unless Handshake has completed.
func (g *LifecycleGuard) CheckConcurrent() {
	if !g.open.Load() {
		panic("ouh: concurrent call before Handshake completed")
	}
}

// IsReady reports whether the guard is in the Ready phase.
func (g *LifecycleGuard) IsReady() bool {
	return g.current() == phaseReady
}
