// Package ledgergrpc serves the ledger's lifecycle over gRPC.
//
// The host sends cramberry-encoded signed instructions (SignedTx wrapping
// an Envelope) inside CheckTxRequest, Block and SimulateRequest, and reads
// back per-instruction outcomes with their error codes and events. Balance,
// user, transaction and raw record reads go through Query against the last
// committed height.
//
// There is no protobuf schema. Messages are the structs of package types
// and the wrappers in this package, encoded by their cramberry tags under
// the "cramberry" codec, which both ends must force.
package ledgergrpc
