// Package ouh defines the boundary between a block-producing host and
// the phone-indexed payments ledger program.
//
// The host schedules signed instructions into blocks and drives the
// application through [Lifecycle]. Everything the program needs from
// the host (derivation, atomic record access, signer verification and
// a clock) is provided behind this boundary; see package ledger for the
// in-process implementation.
package ouh

import (
	"context"

	"github.com/ouh-labs/ouh/types"
)

// Lifecycle is the interface every ledger application implements.
//
// The engine guarantees the following call order:
//  1. Handshake is called exactly once, before anything else.
//  2. ExecuteBlock(h) is called exactly once per committed height h.
//  3. Commit is called exactly once after each ExecuteBlock.
//  4. CheckTx, Query may be called concurrently at any time after Handshake.
type Lifecycle interface {
	// Handshake is called once on every startup.
	//
	// If LastCommitted is nil this is a fresh chain and Genesis is
	// populated; genesis may preload records.
	Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error)

	// CheckTx gate-checks a signed instruction before it is scheduled.
	// It verifies encoding and signature only, never state.
	//
	// This method MUST be safe for concurrent use.
	CheckTx(ctx context.Context, tx types.Tx, mctx types.MempoolContext) (types.GateVerdict, error)

	// ExecuteBlock runs every instruction in order. Each instruction is
	// atomic: a failed one leaves no writes behind and reports its error
	// code in the matching TxOutcome.
	//
	// This method MUST NOT make results visible to Query; that happens
	// in Commit.
	ExecuteBlock(ctx context.Context, block types.Block) (types.BlockOutcome, error)

	// Commit makes the state produced by the last ExecuteBlock current.
	Commit(ctx context.Context) (types.CommitResult, error)

	// Query reads the last committed state.
	//
	// This method MUST be safe for concurrent use, including concurrent
	// with ExecuteBlock.
	Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error)
}

// Simulator dry-runs an instruction against committed state without
// persisting anything. Clients use it as a preflight before
// submitting.
//
// Declared via: types.CapSimulation in HandshakeResponse.Capabilities
type Simulator interface {
	// This method MUST be safe for concurrent use.
	Simulate(ctx context.Context, tx types.Tx) (types.TxOutcome, error)
}

// Application is a convenience interface for applications that
// support every capability.
type Application interface {
	Lifecycle
	Simulator
}

// Connection represents a transport-agnostic connection to a ledger
// application. Both gRPC clients and in-process adapters implement this.
type Connection interface {
	Lifecycle

	// Capabilities returns the capabilities discovered at handshake.
	// Must only be called after Handshake completes.
	Capabilities() types.Capabilities

	// AsSimulator returns the Simulator interface if available.
	AsSimulator() Simulator

	// Close terminates the connection.
	Close() error
}
