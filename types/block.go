package types

// TxOutcome is the result of executing a single instruction.
type TxOutcome struct {
	// Position of this tx in the block (0-indexed).
	Index uint32 `cramberry:"1"`
	// Error code (see package ouh). 0 = success.
	Code uint32 `cramberry:"2"`
	// Human-readable result info (for debugging).
	Info string `cramberry:"3"`
	// Handler return value; the balance for get_user_balance.
	Data []byte `cramberry:"4"`
	// Events emitted by this instruction.
	Events []Event `cramberry:"5"`
}

// OK returns true if the instruction executed successfully.
func (t TxOutcome) OK() bool { return t.Code == 0 }

// BlockOutcome is the output of executing a block.
type BlockOutcome struct {
	// Per-instruction results, in block order.
	TxOutcomes []TxOutcome `cramberry:"1"`
	// State hash after this block.
	AppHash AppHash `cramberry:"2"`
}

// Block is a decided block delivered to the application for
// execution. Time is the host clock every handler in the block sees.
type Block struct {
	Height        uint64    `cramberry:"1"`
	Time          Timestamp `cramberry:"2"`
	Txs           []Tx      `cramberry:"3"`
	LastBlockHash Hash      `cramberry:"4"`
}

// CommitResult is returned after the staged state becomes current.
type CommitResult struct {
	// Minimum height the app still needs for queries.
	// 0 = no pruning preference.
	RetainHeight uint64 `cramberry:"1"`
}
