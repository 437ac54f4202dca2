package program

import "github.com/ouh-labs/ouh/account"

// Instruction arguments travel cramberry-encoded in Envelope.Args.

type ConfigureArgs struct {
	CryptoFeeBps  uint16 `cramberry:"1"`
	AirtimeFeeBps uint16 `cramberry:"2"`
	MinLimit      uint64 `cramberry:"3"`
	MaxLimit      uint64 `cramberry:"4"`
}

type RegisterUserArgs struct {
	Phone   account.Phone   `cramberry:"1"`
	PinHash account.PinHash `cramberry:"2"`
}

// CreateTransactionArgs carries the stable amount as a value plus a
// presence flag. A zero value is omitted on the wire, so a pointer
// alone cannot tell Some(0) from None.
type CreateTransactionArgs struct {
	TxID          account.TxID            `cramberry:"1"`
	UserPhone     account.Phone           `cramberry:"2"`
	Kind          account.TransactionType `cramberry:"3"`
	AmountNGN     uint64                  `cramberry:"4"`
	AmountUSDC    uint64                  `cramberry:"5"`
	Fee           uint64                  `cramberry:"6"`
	HasAmountUSDC bool                    `cramberry:"7"` // false for airtime
}

// WithStable returns a copy of a carrying amount as its stable amount.
func (a CreateTransactionArgs) WithStable(amount uint64) CreateTransactionArgs {
	a.AmountUSDC, a.HasAmountUSDC = amount, true
	return a
}

// Stable returns the stable amount, or nil when none was given.
func (a *CreateTransactionArgs) Stable() *uint64 {
	if !a.HasAmountUSDC {
		return nil
	}
	v := a.AmountUSDC
	return &v
}

// CompleteTransactionArgs is empty: the transaction is named by the
// account list alone.
type CompleteTransactionArgs struct{}

type GetUserBalanceArgs struct {
	Phone account.Phone `cramberry:"1"`
}
