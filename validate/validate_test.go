package validate

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
)

func TestNotPaused(t *testing.T) {
	require.NoError(t, NotPaused(&account.Config{}))
	require.ErrorIs(t, NotPaused(&account.Config{Paused: true}), ouh.ErrContractPaused)
}

func TestWithinLimits_Boundaries(t *testing.T) {
	cfg := &account.Config{MinLimit: 1000, MaxLimit: 1_000_000}
	require.NoError(t, WithinLimits(cfg, 1000))
	require.NoError(t, WithinLimits(cfg, 1_000_000))
	require.ErrorIs(t, WithinLimits(cfg, 999), ouh.ErrTransactionLimitOutOfBounds)
	require.ErrorIs(t, WithinLimits(cfg, 1_000_001), ouh.ErrTransactionLimitOutOfBounds)
}

func TestActive(t *testing.T) {
	require.NoError(t, Active(&account.User{Status: account.UserActive}))
	require.ErrorIs(t, Active(&account.User{Status: account.UserSuspended}), ouh.ErrUserSuspended)
}

func TestKindAmount(t *testing.T) {
	v := uint64(30)
	require.NoError(t, KindAmount(account.TransactionCrypto, &v))
	require.NoError(t, KindAmount(account.TransactionAirtime, nil))
	require.ErrorIs(t, KindAmount(account.TransactionCrypto, nil), ouh.ErrInvalidInput)
	require.ErrorIs(t, KindAmount(account.TransactionAirtime, &v), ouh.ErrInvalidInput)
	require.ErrorIs(t, KindAmount(account.TransactionType(9), nil), ouh.ErrInvalidInput)
}

func TestAdmin(t *testing.T) {
	admin := solana.PublicKey{0x01}
	cfg := &account.Config{Admin: admin}
	require.NoError(t, Admin(cfg, admin))
	require.ErrorIs(t, Admin(cfg, solana.PublicKey{0x02}), ouh.ErrUnauthorized)
}

func TestPending(t *testing.T) {
	require.NoError(t, Pending(&account.Transaction{Status: account.TransactionPending}))
	require.ErrorIs(t, Pending(&account.Transaction{Status: account.TransactionCompleted}), ouh.ErrInvalidTransition)
	require.ErrorIs(t, Pending(&account.Transaction{Status: account.TransactionFailed}), ouh.ErrInvalidTransition)
}
