// Package state holds raw records by address.
//
// A Store is the committed or staged view of every record. A Batch
// collects one invocation's writes on top of a Store and is either
// applied whole or dropped, which is how a failed instruction leaves
// nothing behind.
package state

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh/types"
)

var encMode cbor.EncMode

func init() {
	var err error
	// Core deterministic encoding, RFC 8949 section 4.2.1.
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Errorf("cbor encoder: %w", err))
	}
}

// Reader is the read side shared by Store and Batch.
type Reader interface {
	Get(addr solana.PublicKey) ([]byte, bool)
}

// Store maps addresses to raw record bytes. It is not safe for
// concurrent mutation; the ledger clones it before staging a block.
type Store struct {
	records map[solana.PublicKey][]byte
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{records: make(map[solana.PublicKey][]byte)}
}

// Get returns the record at addr.
func (s *Store) Get(addr solana.PublicKey) ([]byte, bool) {
	data, ok := s.records[addr]
	return data, ok
}

// Put stores a copy of data at addr.
func (s *Store) Put(addr solana.PublicKey, data []byte) {
	s.records[addr] = bytes.Clone(data)
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Clone returns a deep copy of s.
func (s *Store) Clone() *Store {
	c := &Store{records: make(map[solana.PublicKey][]byte, len(s.records))}
	for addr, data := range s.records {
		c.records[addr] = bytes.Clone(data)
	}
	return c
}

// Addresses returns every address in ascending byte order.
func (s *Store) Addresses() []solana.PublicKey {
	addrs := make([]solana.PublicKey, 0, len(s.records))
	for addr := range s.records {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
	return addrs
}

type hashEntry struct {
	_       struct{} `cbor:",toarray"`
	Address []byte
	Data    []byte
}

// Hash returns the sha256 of the CBOR encoding of every (address, data)
// entry in address order.
func (s *Store) Hash() (types.AppHash, error) {
	h := sha256.New()
	enc := encMode.NewEncoder(h)
	for _, addr := range s.Addresses() {
		if err := enc.Encode(hashEntry{Address: addr[:], Data: s.records[addr]}); err != nil {
			return types.AppHash{}, fmt.Errorf("hash record %s: %w", addr, err)
		}
	}
	var out types.AppHash
	copy(out[:], h.Sum(nil))
	return out, nil
}
