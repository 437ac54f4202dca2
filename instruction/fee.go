package instruction

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/ouh-labs/ouh/account"
)

var bpsDenominator = decimal.NewFromInt(account.MaxFeeBps)

// QuoteFee returns amount * bps / 10000, rounded down.
func QuoteFee(amount uint64, bps uint16) uint64 {
	fee := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0).
		Mul(decimal.NewFromInt(int64(bps))).
		Div(bpsDenominator).
		Floor()
	return fee.BigInt().Uint64()
}

// FeeFor quotes the fee cfg charges for a transaction of kind.
// The ledger records whatever fee the client sends; this is the value
// a well-behaved client sends.
func FeeFor(cfg *account.Config, kind account.TransactionType, amount uint64) uint64 {
	bps := cfg.AirtimeFeeBps
	if kind == account.TransactionCrypto {
		bps = cfg.CryptoFeeBps
	}
	return QuoteFee(amount, bps)
}
