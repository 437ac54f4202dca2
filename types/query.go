package types

// Query paths served by the ledger.
const (
	QueryBalance     QueryPath = "/balance"
	QueryUser        QueryPath = "/user"
	QueryTransaction QueryPath = "/transaction"
	QueryConfig      QueryPath = "/config"
	QueryAccount     QueryPath = "/account"
)

// StateQuery is a request to read committed state.
type StateQuery struct {
	Path QueryPath `cramberry:"1"`
	Data []byte    `cramberry:"2"`
}

// StateQueryResult is the application's response to a state query.
// Code carries an error code as in TxOutcome.
type StateQueryResult struct {
	Code   uint32 `cramberry:"1"`
	Key    []byte `cramberry:"2"`
	Value  []byte `cramberry:"3"`
	Height uint64 `cramberry:"4"`
	Info   string `cramberry:"5"`
}
