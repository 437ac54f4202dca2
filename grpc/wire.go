package ledgergrpc

import "github.com/ouh-labs/ouh/types"

// CheckTxRequest carries one signed instruction for the mempool gate.
type CheckTxRequest struct {
	Tx      types.Tx             `cramberry:"1"`
	Context types.MempoolContext `cramberry:"2"`
}

// CommitRequest is empty: Commit always applies the last executed block.
type CommitRequest struct{}

// SimulateRequest carries one signed instruction to dry-run against
// committed state.
type SimulateRequest struct {
	Tx types.Tx `cramberry:"1"`
}
