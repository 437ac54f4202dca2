package ledger

import (
	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"
)

// weakSigner reports whether key is not a usable ed25519 public key:
// either it does not decode to a curve point or the point has small
// order. Signatures under such keys can verify for messages nobody
// signed.
func weakSigner(key solana.PublicKey) bool {
	p, err := new(edwards25519.Point).SetBytes(key[:])
	if err != nil {
		return true
	}
	cleared := new(edwards25519.Point).MultByCofactor(p)
	return cleared.Equal(edwards25519.NewIdentityPoint()) == 1
}
