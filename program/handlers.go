package program

import (
	"encoding/binary"
	"math/bits"
	"strconv"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/validate"
)

// Configure writes the configuration singleton. The signer becomes
// admin and the program starts unpaused.
func Configure(inv *Invocation) ([]byte, error) {
	args := inv.Args.(*ConfigureArgs)
	cfg := inv.Config()

	next := account.Config{
		Admin:         inv.Signer,
		CryptoFeeBps:  args.CryptoFeeBps,
		AirtimeFeeBps: args.AirtimeFeeBps,
		MinLimit:      args.MinLimit,
		MaxLimit:      args.MaxLimit,
		Paused:        false,
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}
	*cfg = next

	inv.Emit("ouh.configure",
		"admin", inv.Signer.String(),
		"min_limit", strconv.FormatUint(cfg.MinLimit, 10),
		"max_limit", strconv.FormatUint(cfg.MaxLimit, 10),
	)
	return nil, nil
}

// RegisterUser creates the user keyed by phone. The phone is stored as
// given; canonicalization is the client's job.
func RegisterUser(inv *Invocation) ([]byte, error) {
	args := inv.Args.(*RegisterUserArgs)
	*inv.User() = account.User{
		Phone:        args.Phone,
		Wallet:       inv.Signer,
		PinHash:      args.PinHash,
		TotalVolume:  0,
		RegisteredAt: inv.Now,
		Status:       account.UserActive,
	}

	inv.Emit("ouh.register_user",
		"signer", inv.Signer.String(),
		"phone", args.Phone.String(),
	)
	return nil, nil
}

// CreateTransaction records a pending payment intent. The fee is stored
// verbatim and never checked against the configured rates.
func CreateTransaction(inv *Invocation) ([]byte, error) {
	args := inv.Args.(*CreateTransactionArgs)
	cfg, user := inv.Config(), inv.User()

	if err := validate.NotPaused(cfg); err != nil {
		return nil, err
	}
	if err := validate.Active(user); err != nil {
		return nil, err
	}
	if err := validate.WithinLimits(cfg, args.AmountNGN); err != nil {
		return nil, err
	}
	if !args.HasAmountUSDC && args.AmountUSDC != 0 {
		return nil, ouh.ErrInvalidInput.Withf("stable amount %d without presence flag", args.AmountUSDC)
	}
	usdc := args.Stable()
	if err := validate.KindAmount(args.Kind, usdc); err != nil {
		return nil, err
	}

	*inv.Transaction() = account.Transaction{
		TxID:       args.TxID,
		UserPhone:  args.UserPhone,
		Type:       args.Kind,
		AmountNGN:  args.AmountNGN,
		AmountUSDC: usdc,
		Status:     account.TransactionPending,
		Timestamp:  inv.Now,
		Fee:        args.Fee,
	}

	inv.Emit("ouh.create_transaction",
		"signer", inv.Signer.String(),
		"tx_id", args.TxID.String(),
		"phone", args.UserPhone.String(),
		"kind", args.Kind.String(),
		"amount", strconv.FormatUint(args.AmountNGN, 10),
	)
	return nil, nil
}

// CompleteTransaction moves a pending transaction to Completed and
// credits its amount to the user's volume. Any signer may complete.
func CompleteTransaction(inv *Invocation) ([]byte, error) {
	tx, user := inv.Transaction(), inv.User()

	if err := validate.Pending(tx); err != nil {
		return nil, err
	}
	volume, carry := bits.Add64(user.TotalVolume, tx.AmountNGN, 0)
	if carry != 0 {
		return nil, ouh.ErrArithmeticOverflow.Withf("volume %d + amount %d", user.TotalVolume, tx.AmountNGN)
	}

	tx.Status = account.TransactionCompleted
	user.TotalVolume = volume

	inv.Emit("ouh.complete_transaction",
		"authority", inv.Signer.String(),
		"tx_id", tx.TxID.String(),
		"phone", tx.UserPhone.String(),
		"status", tx.Status.String(),
	)
	return nil, nil
}

// GetUserBalance returns the user's total volume as 8 little-endian
// bytes.
func GetUserBalance(inv *Invocation) ([]byte, error) {
	user := inv.User()
	out := binary.LittleEndian.AppendUint64(nil, user.TotalVolume)

	inv.Emit("ouh.get_user_balance",
		"phone", user.Phone.String(),
		"balance", strconv.FormatUint(user.TotalVolume, 10),
	)
	return out, nil
}
