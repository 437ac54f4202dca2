package state

import (
	"bytes"

	"github.com/gagliardetto/solana-go"
)

// Batch buffers writes over a base store. Reads see buffered writes
// first.
type Batch struct {
	base   *Store
	writes map[solana.PublicKey][]byte
	order  []solana.PublicKey
}

// NewBatch starts an empty batch over base.
func (s *Store) NewBatch() *Batch {
	return &Batch{base: s, writes: make(map[solana.PublicKey][]byte)}
}

func (b *Batch) Get(addr solana.PublicKey) ([]byte, bool) {
	if data, ok := b.writes[addr]; ok {
		return data, true
	}
	return b.base.Get(addr)
}

// Put buffers a copy of data at addr.
func (b *Batch) Put(addr solana.PublicKey, data []byte) {
	if _, ok := b.writes[addr]; !ok {
		b.order = append(b.order, addr)
	}
	b.writes[addr] = bytes.Clone(data)
}

// Written returns the buffered addresses in first-write order.
func (b *Batch) Written() []solana.PublicKey {
	return b.order
}

// Apply writes every buffered record to the base store.
func (b *Batch) Apply() {
	for _, addr := range b.order {
		b.base.records[addr] = b.writes[addr]
	}
	b.Discard()
}

// Discard drops every buffered write.
func (b *Batch) Discard() {
	b.writes = make(map[solana.PublicKey][]byte)
	b.order = nil
}
