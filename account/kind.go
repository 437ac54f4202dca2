// Package account defines the three ledger records, their fixed
// storage layout and the codec that reads and writes them.
//
// Every record is stored as an 8-byte type discriminator followed by
// its fields in declaration order: little-endian integers, enums as a
// single ordinal byte, optional values behind a 1-byte presence tag.
// Records are allocated at their kind's Space and never resized.
package account

import (
	"crypto/sha256"
	"fmt"
)

// Kind identifies a record type.
type Kind uint8

const (
	KindConfig Kind = iota + 1
	KindUser
	KindTransaction
)

// Allocated sizes, discriminator included.
const (
	DiscriminatorSize = 8

	ConfigSize      = DiscriminatorSize + 32 + 2 + 2 + 8 + 8 + 1           // 61
	UserSize        = DiscriminatorSize + 14 + 32 + 32 + 8 + 8 + 1         // 103
	TransactionSize = DiscriminatorSize + 16 + 14 + 1 + 8 + 1 + 8 + 1 + 8 + 8 // 73
)

var discriminators = map[Kind][DiscriminatorSize]byte{
	KindConfig:      discriminator("Config"),
	KindUser:        discriminator("User"),
	KindTransaction: discriminator("Transaction"),
}

// discriminator is the first 8 bytes of sha256("account:<Name>").
func discriminator(name string) (d [DiscriminatorSize]byte) {
	sum := sha256.Sum256([]byte("account:" + name))
	copy(d[:], sum[:DiscriminatorSize])
	return d
}

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindUser:
		return "User"
	case KindTransaction:
		return "Transaction"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Discriminator returns the 8-byte prefix stored ahead of records of
// this kind.
func (k Kind) Discriminator() [DiscriminatorSize]byte {
	return discriminators[k]
}

// Space returns the fixed number of bytes allocated for a record of
// this kind.
func (k Kind) Space() int {
	switch k {
	case KindConfig:
		return ConfigSize
	case KindUser:
		return UserSize
	case KindTransaction:
		return TransactionSize
	default:
		return 0
	}
}

// KindOf identifies the record stored in data by its discriminator.
func KindOf(data []byte) (Kind, bool) {
	if len(data) < DiscriminatorSize {
		return 0, false
	}
	for k, d := range discriminators {
		if [DiscriminatorSize]byte(data[:DiscriminatorSize]) == d {
			return k, true
		}
	}
	return 0, false
}
