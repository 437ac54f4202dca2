// Package validate holds the guard predicates handlers compose before
// they write anything.
package validate

import (
	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
)

// NotPaused fails with ContractPaused while cfg is paused.
func NotPaused(cfg *account.Config) error {
	if cfg.Paused {
		return ouh.ErrContractPaused
	}
	return nil
}

// WithinLimits fails with TransactionLimitOutOfBounds unless
// MinLimit <= amount <= MaxLimit.
func WithinLimits(cfg *account.Config, amount uint64) error {
	if amount < cfg.MinLimit || amount > cfg.MaxLimit {
		return ouh.ErrTransactionLimitOutOfBounds.Withf("amount %d outside [%d, %d]", amount, cfg.MinLimit, cfg.MaxLimit)
	}
	return nil
}

// Active fails with UserSuspended unless u is Active.
func Active(u *account.User) error {
	if u.Status != account.UserActive {
		return ouh.ErrUserSuspended.Withf("user %s is %s", u.Phone, u.Status)
	}
	return nil
}

// KindAmount fails with InvalidInput when the stable amount is missing
// on a crypto transaction or present on an airtime one.
func KindAmount(kind account.TransactionType, stable *uint64) error {
	switch kind {
	case account.TransactionCrypto:
		if stable == nil {
			return ouh.ErrInvalidInput.Withf("crypto transaction requires a stable amount")
		}
	case account.TransactionAirtime:
		if stable != nil {
			return ouh.ErrInvalidInput.Withf("airtime transaction must not carry a stable amount")
		}
	default:
		return ouh.ErrInvalidInput.Withf("unknown transaction type %d", uint8(kind))
	}
	return nil
}

// Admin fails with Unauthorized unless signer is the configured admin.
func Admin(cfg *account.Config, signer solana.PublicKey) error {
	if !cfg.Admin.Equals(signer) {
		return ouh.ErrUnauthorized.Withf("%s is not the admin", signer)
	}
	return nil
}

// Pending fails with InvalidTransition once tx has left Pending.
func Pending(tx *account.Transaction) error {
	if tx.Status != account.TransactionPending {
		return ouh.ErrInvalidTransition.Withf("transaction %s is %s", tx.TxID, tx.Status)
	}
	return nil
}
