// Package program declares the five ledger operations and implements
// their transition handlers.
//
// Each Operation states which records it touches, how each record's
// address is derived and whether a signer is required. The host
// (package ledger) enforces all of that and loads the records before a
// Handler runs, so handlers only apply guards and write fields.
package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/types"
)

// Mode is how an operation uses a record.
type Mode uint8

const (
	// Create allocates a record at an empty address.
	Create Mode = iota + 1
	// Mutate loads an existing record and writes it back.
	Mutate
	// Read loads an existing record and never writes it.
	Read
)

func (m Mode) String() string {
	switch m {
	case Create:
		return "create"
	case Mutate:
		return "mutate"
	case Read:
		return "read"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Writes reports whether records in this mode are written back.
func (m Mode) Writes() bool { return m == Create || m == Mutate }

// AccountSpec declares one record an operation accesses.
type AccountSpec struct {
	Kind account.Kind
	Mode Mode
	// SelfKeyed records are derived from their own content. The host
	// loads them from the supplied address first and checks the
	// derivation afterwards.
	SelfKeyed bool
	// Address derives where the record must live. It may read the
	// invocation's arguments and any record declared before it.
	Address func(d address.Deriver, inv *Invocation) (solana.PublicKey, error)
}

// Handler applies an operation to loaded records. A non-nil error
// aborts the invocation and discards every write.
type Handler func(inv *Invocation) ([]byte, error)

// Operation is the full declaration of one entry point.
type Operation struct {
	Op   types.Opcode
	Name string
	// Signer names the principal that must sign; empty means the
	// operation needs no signature.
	Signer   string
	Accounts []AccountSpec
	// NewArgs returns a pointer to a zero argument struct.
	NewArgs func() any
	Handle  Handler
}

// RequiresSigner reports whether the envelope signature is checked.
func (o *Operation) RequiresSigner() bool { return o.Signer != "" }

var operations = map[types.Opcode]*Operation{
	types.OpConfigure: {
		Op:     types.OpConfigure,
		Name:   "configure",
		Signer: "admin",
		Accounts: []AccountSpec{
			{Kind: account.KindConfig, Mode: Create, Address: configAddress},
		},
		NewArgs: func() any { return &ConfigureArgs{} },
		Handle:  Configure,
	},
	types.OpRegisterUser: {
		Op:     types.OpRegisterUser,
		Name:   "register_user",
		Signer: "user",
		Accounts: []AccountSpec{
			{Kind: account.KindUser, Mode: Create, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.User(inv.Args.(*RegisterUserArgs).Phone)
			}},
		},
		NewArgs: func() any { return &RegisterUserArgs{} },
		Handle:  RegisterUser,
	},
	types.OpCreateTransaction: {
		Op:     types.OpCreateTransaction,
		Name:   "create_transaction",
		Signer: "user",
		Accounts: []AccountSpec{
			{Kind: account.KindTransaction, Mode: Create, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.Transaction(inv.Args.(*CreateTransactionArgs).TxID)
			}},
			{Kind: account.KindUser, Mode: Mutate, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.User(inv.Args.(*CreateTransactionArgs).UserPhone)
			}},
			{Kind: account.KindConfig, Mode: Read, Address: configAddress},
		},
		NewArgs: func() any { return &CreateTransactionArgs{} },
		Handle:  CreateTransaction,
	},
	types.OpCompleteTransaction: {
		Op:     types.OpCompleteTransaction,
		Name:   "complete_transaction",
		Signer: "authority",
		Accounts: []AccountSpec{
			{Kind: account.KindTransaction, Mode: Mutate, SelfKeyed: true, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.Transaction(inv.Transaction().TxID)
			}},
			{Kind: account.KindUser, Mode: Mutate, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.User(inv.Transaction().UserPhone)
			}},
		},
		NewArgs: func() any { return &CompleteTransactionArgs{} },
		Handle:  CompleteTransaction,
	},
	types.OpGetUserBalance: {
		Op:   types.OpGetUserBalance,
		Name: "get_user_balance",
		Accounts: []AccountSpec{
			{Kind: account.KindUser, Mode: Read, Address: func(d address.Deriver, inv *Invocation) (solana.PublicKey, error) {
				return d.User(inv.Args.(*GetUserBalanceArgs).Phone)
			}},
		},
		NewArgs: func() any { return &GetUserBalanceArgs{} },
		Handle:  GetUserBalance,
	},
}

func configAddress(d address.Deriver, _ *Invocation) (solana.PublicKey, error) {
	return d.Config()
}

// Lookup returns the operation for op.
func Lookup(op types.Opcode) (*Operation, bool) {
	o, ok := operations[op]
	return o, ok
}

// Invocation is the handler's view of one instruction: the verified
// signer, the host clock, decoded arguments and the declared records
// by kind.
type Invocation struct {
	Signer  solana.PublicKey
	Now     int64 // unix seconds
	Args    any
	Records map[account.Kind]account.Record
	Events  []types.Event
}

// NewInvocation returns an invocation with no records loaded.
func NewInvocation(signer solana.PublicKey, now int64, args any) *Invocation {
	return &Invocation{
		Signer:  signer,
		Now:     now,
		Args:    args,
		Records: make(map[account.Kind]account.Record),
	}
}

// Config returns the loaded Config, or nil.
func (inv *Invocation) Config() *account.Config {
	c, _ := inv.Records[account.KindConfig].(*account.Config)
	return c
}

// User returns the loaded User, or nil.
func (inv *Invocation) User() *account.User {
	u, _ := inv.Records[account.KindUser].(*account.User)
	return u
}

// Transaction returns the loaded Transaction, or nil.
func (inv *Invocation) Transaction() *account.Transaction {
	t, _ := inv.Records[account.KindTransaction].(*account.Transaction)
	return t
}

// Emit records an indexed event.
func (inv *Invocation) Emit(kind string, kv ...string) {
	e := types.Event{Kind: kind}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Attributes = append(e.Attributes, types.EventAttribute{Key: kv[i], Value: kv[i+1], Index: true})
	}
	inv.Events = append(inv.Events, e)
}
