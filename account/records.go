package account

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh"
)

// MaxFeeBps is 100% in basis points.
const MaxFeeBps = 10000

// Phone is a client-canonicalized phone number. The ledger never
// parses it; shorter numbers are right-padded with zero bytes.
type Phone [14]byte

// ParsePhone pads s into a Phone. It does not validate the format.
func ParsePhone(s string) (Phone, error) {
	var p Phone
	if len(s) == 0 || len(s) > len(p) {
		return p, fmt.Errorf("phone must be 1..%d bytes, got %d", len(p), len(s))
	}
	copy(p[:], s)
	return p, nil
}

func (p Phone) String() string {
	return string(bytes.TrimRight(p[:], "\x00"))
}

// TxID is the client-chosen transaction identifier.
type TxID [16]byte

func (id TxID) String() string {
	return fmt.Sprintf("%x", id[:])
}

// PinHash is a credential hash computed by the client. It is stored
// and never compared.
type PinHash [32]byte

type UserStatus uint8

const (
	UserActive UserStatus = iota
	UserSuspended
)

func (s UserStatus) String() string {
	switch s {
	case UserActive:
		return "Active"
	case UserSuspended:
		return "Suspended"
	default:
		return fmt.Sprintf("UserStatus(%d)", uint8(s))
	}
}

type TransactionType uint8

const (
	TransactionCrypto TransactionType = iota
	TransactionAirtime
)

func (t TransactionType) String() string {
	switch t {
	case TransactionCrypto:
		return "Crypto"
	case TransactionAirtime:
		return "Airtime"
	default:
		return fmt.Sprintf("TransactionType(%d)", uint8(t))
	}
}

type TransactionStatus uint8

const (
	TransactionPending TransactionStatus = iota
	TransactionCompleted
	TransactionFailed
)

func (s TransactionStatus) String() string {
	switch s {
	case TransactionPending:
		return "Pending"
	case TransactionCompleted:
		return "Completed"
	case TransactionFailed:
		return "Failed"
	default:
		return fmt.Sprintf("TransactionStatus(%d)", uint8(s))
	}
}

// Terminal reports whether no further transition is possible.
func (s TransactionStatus) Terminal() bool {
	return s == TransactionCompleted || s == TransactionFailed
}

// Config is the singleton program configuration.
type Config struct {
	Admin         solana.PublicKey
	CryptoFeeBps  uint16
	AirtimeFeeBps uint16
	MinLimit      uint64 // minor NGN units
	MaxLimit      uint64
	Paused        bool
}

func (*Config) Kind() Kind { return KindConfig }

func (c *Config) Validate() error {
	if c.CryptoFeeBps > MaxFeeBps || c.AirtimeFeeBps > MaxFeeBps {
		return ouh.ErrInvalidInput.Withf("fee rates %d/%d exceed %d bps", c.CryptoFeeBps, c.AirtimeFeeBps, MaxFeeBps)
	}
	if c.MinLimit > c.MaxLimit {
		return ouh.ErrInvalidInput.Withf("min limit %d above max limit %d", c.MinLimit, c.MaxLimit)
	}
	return nil
}

// User is a registered phone number.
type User struct {
	Phone        Phone
	Wallet       solana.PublicKey
	PinHash      PinHash
	TotalVolume  uint64 // cumulative completed amount, minor NGN units
	RegisteredAt int64  // unix seconds
	Status       UserStatus
}

func (*User) Kind() Kind { return KindUser }

func (u *User) Validate() error {
	if u.Status > UserSuspended {
		return ouh.ErrInvalidInput.Withf("user status %d", u.Status)
	}
	return nil
}

// Transaction is a payment intent and its outcome.
type Transaction struct {
	TxID       TxID
	UserPhone  Phone
	Type       TransactionType
	AmountNGN  uint64
	AmountUSDC *uint64 // present iff Type is TransactionCrypto
	Status     TransactionStatus
	Timestamp  int64 // unix seconds
	Fee        uint64
}

func (*Transaction) Kind() Kind { return KindTransaction }

func (t *Transaction) Validate() error {
	if t.Type > TransactionAirtime {
		return ouh.ErrInvalidInput.Withf("transaction type %d", t.Type)
	}
	if t.Status > TransactionFailed {
		return ouh.ErrInvalidInput.Withf("transaction status %d", t.Status)
	}
	if (t.Type == TransactionCrypto) != (t.AmountUSDC != nil) {
		return ouh.ErrInvalidInput.Withf("%s transaction with stable amount present=%t", t.Type, t.AmountUSDC != nil)
	}
	return nil
}
