// Package instruction builds signed ledger instructions on the client
// side: it derives the account list each operation declares, encodes
// arguments, signs the envelope and helps pick ids and fees.
package instruction

import (
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/program"
	"github.com/ouh-labs/ouh/types"
)

// Builder builds instructions for one program id.
type Builder struct {
	deriver address.Deriver
}

// NewBuilder returns a Builder deriving addresses under programID.
func NewBuilder(programID solana.PublicKey) *Builder {
	return &Builder{deriver: address.NewDeriver(programID)}
}

// Deriver returns the builder's address deriver.
func (b *Builder) Deriver() address.Deriver { return b.deriver }

func (b *Builder) Configure(admin solana.PrivateKey, args program.ConfigureArgs) (types.Tx, error) {
	cfg, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	return Sign(types.OpConfigure, args, admin, cfg)
}

func (b *Builder) RegisterUser(user solana.PrivateKey, phone account.Phone, pin account.PinHash) (types.Tx, error) {
	addr, err := b.deriver.User(phone)
	if err != nil {
		return nil, err
	}
	return Sign(types.OpRegisterUser, program.RegisterUserArgs{Phone: phone, PinHash: pin}, user, addr)
}

func (b *Builder) CreateTransaction(user solana.PrivateKey, args program.CreateTransactionArgs) (types.Tx, error) {
	txAddr, err := b.deriver.Transaction(args.TxID)
	if err != nil {
		return nil, err
	}
	userAddr, err := b.deriver.User(args.UserPhone)
	if err != nil {
		return nil, err
	}
	cfgAddr, err := b.deriver.Config()
	if err != nil {
		return nil, err
	}
	return Sign(types.OpCreateTransaction, args, user, txAddr, userAddr, cfgAddr)
}

// CompleteTransaction needs the phone the transaction was created for
// because the user's address is part of the account list.
func (b *Builder) CompleteTransaction(authority solana.PrivateKey, id account.TxID, phone account.Phone) (types.Tx, error) {
	txAddr, err := b.deriver.Transaction(id)
	if err != nil {
		return nil, err
	}
	userAddr, err := b.deriver.User(phone)
	if err != nil {
		return nil, err
	}
	return Sign(types.OpCompleteTransaction, program.CompleteTransactionArgs{}, authority, txAddr, userAddr)
}

// GetUserBalance builds the unsigned balance instruction.
func (b *Builder) GetUserBalance(phone account.Phone) (types.Tx, error) {
	addr, err := b.deriver.User(phone)
	if err != nil {
		return nil, err
	}
	return Unsigned(types.OpGetUserBalance, program.GetUserBalanceArgs{Phone: phone}, addr)
}

// GenesisAccount encodes rec at its derived address.
func (b *Builder) GenesisAccount(rec account.Record) (types.GenesisAccount, error) {
	addr, err := b.deriver.Record(rec)
	if err != nil {
		return types.GenesisAccount{}, err
	}
	data, err := account.Encode(rec)
	if err != nil {
		return types.GenesisAccount{}, err
	}
	return types.GenesisAccount{Address: addr, Data: data}, nil
}

// GenesisState encodes recs as a GenesisDoc AppState.
func (b *Builder) GenesisState(recs ...account.Record) ([]byte, error) {
	var gs types.GenesisState
	for _, rec := range recs {
		ga, err := b.GenesisAccount(rec)
		if err != nil {
			return nil, err
		}
		gs.Accounts = append(gs.Accounts, ga)
	}
	return cramberry.Marshal(gs)
}

// Sign encodes an envelope for op and signs it with key.
func Sign(op types.Opcode, args any, key solana.PrivateKey, accounts ...solana.PublicKey) (types.Tx, error) {
	env, err := envelope(op, args, key.PublicKey(), accounts)
	if err != nil {
		return nil, err
	}
	body, err := cramberry.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	sig, err := key.Sign(body)
	if err != nil {
		return nil, fmt.Errorf("sign envelope: %w", err)
	}
	return cramberry.Marshal(types.SignedTx{Envelope: body, Signature: sig})
}

// Unsigned encodes an envelope with no signer for operations that
// require none.
func Unsigned(op types.Opcode, args any, accounts ...solana.PublicKey) (types.Tx, error) {
	env, err := envelope(op, args, solana.PublicKey{}, accounts)
	if err != nil {
		return nil, err
	}
	body, err := cramberry.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return cramberry.Marshal(types.SignedTx{Envelope: body})
}

func envelope(op types.Opcode, args any, signer solana.PublicKey, accounts []solana.PublicKey) (types.Envelope, error) {
	raw, err := cramberry.Marshal(args)
	if err != nil {
		return types.Envelope{}, fmt.Errorf("encode args: %w", err)
	}
	env := types.Envelope{Op: op, Args: raw, Signer: signer}
	for _, a := range accounts {
		env.Accounts = append(env.Accounts, a)
	}
	return env, nil
}

// NewTxID mints a random transaction id.
func NewTxID() account.TxID {
	return account.TxID(uuid.New())
}

// ParseTxID reads a UUID string as a transaction id.
func ParseTxID(s string) (account.TxID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return account.TxID{}, fmt.Errorf("parse tx id: %w", err)
	}
	return account.TxID(id), nil
}
