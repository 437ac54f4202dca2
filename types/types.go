// Package types defines the wire types exchanged between the host
// and the ledger application.
//
// These are plain Go structs with cramberry struct tags for
// deterministic binary serialization. Transport concerns
// (gRPC codec registration) are handled in the transport packages.
// Ledger records themselves live in package account and use their
// own fixed layout.
package types

// Hash is a 32-byte cryptographic hash.
type Hash [32]byte

// AppHash is a deterministic fingerprint of the ledger state.
type AppHash [32]byte

// Tx is an encoded SignedTx.
type Tx []byte

// QueryPath selects a state query (e.g., "/balance").
type QueryPath string

// BlockID uniquely identifies a point in the chain.
type BlockID struct {
	Height uint64 `cramberry:"1"`
	Hash   Hash   `cramberry:"2"`
}
