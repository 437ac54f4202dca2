// Package address derives record addresses from their keys.
//
// Addresses are Solana program-derived addresses: each record is found at
// FindProgramAddress([tag, key...], programID). The tag keeps the three
// record families apart, so a phone and a transaction id with equal bytes
// never collide.
package address

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh/account"
)

// Derivation tags.
const (
	TagConfig      = "config"
	TagUser        = "user"
	TagTransaction = "transaction"
)

// DefaultProgramID is the program the ledger answers for unless a node
// is configured otherwise.
var DefaultProgramID = solana.MustPublicKeyFromBase58("74D7UqGmgBaod2jTaKotYF8rDNd3xWv9eo43Gt5iHKxS")

// Deriver derives addresses under one program id.
type Deriver struct {
	program solana.PublicKey
}

// NewDeriver returns a Deriver bound to program.
func NewDeriver(program solana.PublicKey) Deriver {
	return Deriver{program: program}
}

// ProgramID returns the program addresses are derived under.
func (d Deriver) ProgramID() solana.PublicKey {
	return d.program
}

// Derive returns the address and bump seed for tag and keys.
func (d Deriver) Derive(tag string, keys ...[]byte) (solana.PublicKey, uint8, error) {
	seeds := make([][]byte, 0, len(keys)+1)
	seeds = append(seeds, []byte(tag))
	seeds = append(seeds, keys...)
	addr, bump, err := solana.FindProgramAddress(seeds, d.program)
	if err != nil {
		return solana.PublicKey{}, 0, fmt.Errorf("derive %s: %w", tag, err)
	}
	return addr, bump, nil
}

// Config returns the address of the configuration singleton.
func (d Deriver) Config() (solana.PublicKey, error) {
	addr, _, err := d.Derive(TagConfig)
	return addr, err
}

// User returns the address of the user registered under phone.
func (d Deriver) User(phone account.Phone) (solana.PublicKey, error) {
	addr, _, err := d.Derive(TagUser, phone[:])
	return addr, err
}

// Transaction returns the address of the transaction with id.
func (d Deriver) Transaction(id account.TxID) (solana.PublicKey, error) {
	addr, _, err := d.Derive(TagTransaction, id[:])
	return addr, err
}

// Record returns the address rec belongs at, derived from its key
// fields.
func (d Deriver) Record(rec account.Record) (solana.PublicKey, error) {
	switch r := rec.(type) {
	case *account.Config:
		return d.Config()
	case *account.User:
		return d.User(r.Phone)
	case *account.Transaction:
		return d.Transaction(r.TxID)
	default:
		return solana.PublicKey{}, fmt.Errorf("no derivation for %T", rec)
	}
}
