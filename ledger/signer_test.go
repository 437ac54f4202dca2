package ledger

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func TestWeakSigner(t *testing.T) {
	identity := solana.PublicKey{0x01}

	// (0, -1): y = p - 1, order 2.
	var orderTwo solana.PublicKey
	orderTwo[0] = 0xEC
	for i := 1; i < 31; i++ {
		orderTwo[i] = 0xFF
	}
	orderTwo[31] = 0x7F

	require.True(t, weakSigner(solana.PublicKey{}), "zero key")
	require.True(t, weakSigner(identity), "identity")
	require.True(t, weakSigner(orderTwo), "order two")

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	require.False(t, weakSigner(key.PublicKey()))
}
