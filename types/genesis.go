package types

// GenesisDoc is the raw genesis document for chain initialization.
type GenesisDoc struct {
	ChainID         string          `cramberry:"1"`
	GenesisTime     Timestamp       `cramberry:"2"`
	InitialHeight   uint64          `cramberry:"3"`
	ConsensusParams ConsensusParams `cramberry:"4"`
	// Cramberry-encoded GenesisState, optional.
	AppState []byte `cramberry:"5"`
}

// GenesisState preloads records at chain start.
type GenesisState struct {
	Accounts []GenesisAccount `cramberry:"1"`
}

// GenesisAccount is a raw record placed at an address before the
// first block.
type GenesisAccount struct {
	Address [32]byte `cramberry:"1"`
	Data    []byte   `cramberry:"2"`
}
