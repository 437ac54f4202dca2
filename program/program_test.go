package program

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/types"
)

var (
	signer = solana.PublicKey{0x51}
	phone  = account.Phone{'+', '2', '3', '4', '8', '0', '0', '0', '0', '0', '0', '0', '0', '1'}
	txID   = account.TxID{0x01}
)

func u64(v uint64) *uint64 { return &v }

func invocation(args any, recs ...account.Record) *Invocation {
	inv := NewInvocation(signer, 1_700_000_000, args)
	for _, r := range recs {
		inv.Records[r.Kind()] = r
	}
	return inv
}

func testConfig() *account.Config {
	return &account.Config{CryptoFeeBps: 100, AirtimeFeeBps: 50, MinLimit: 1000, MaxLimit: 1_000_000}
}

func TestLookup_Declarations(t *testing.T) {
	cases := []struct {
		op     types.Opcode
		name   string
		signed bool
		modes  []Mode
	}{
		{types.OpConfigure, "configure", true, []Mode{Create}},
		{types.OpRegisterUser, "register_user", true, []Mode{Create}},
		{types.OpCreateTransaction, "create_transaction", true, []Mode{Create, Mutate, Read}},
		{types.OpCompleteTransaction, "complete_transaction", true, []Mode{Mutate, Mutate}},
		{types.OpGetUserBalance, "get_user_balance", false, []Mode{Read}},
	}
	for _, c := range cases {
		op, ok := Lookup(c.op)
		require.True(t, ok, c.name)
		require.Equal(t, c.name, op.Name)
		require.Equal(t, c.signed, op.RequiresSigner())
		require.Len(t, op.Accounts, len(c.modes))
		for i, m := range c.modes {
			require.Equal(t, m, op.Accounts[i].Mode, "%s account %d", c.name, i)
		}
		require.NotNil(t, op.NewArgs())
	}

	_, ok := Lookup(types.Opcode(42))
	require.False(t, ok)
}

func TestDeclarations_Addresses(t *testing.T) {
	d := address.NewDeriver(address.DefaultProgramID)
	wantUser, err := d.User(phone)
	require.NoError(t, err)
	wantTx, err := d.Transaction(txID)
	require.NoError(t, err)

	op, _ := Lookup(types.OpCreateTransaction)
	inv := invocation(&CreateTransactionArgs{TxID: txID, UserPhone: phone})
	got, err := op.Accounts[0].Address(d, inv)
	require.NoError(t, err)
	require.Equal(t, wantTx, got)
	got, err = op.Accounts[1].Address(d, inv)
	require.NoError(t, err)
	require.Equal(t, wantUser, got)

	// complete_transaction derives both addresses from the loaded record.
	op, _ = Lookup(types.OpCompleteTransaction)
	require.True(t, op.Accounts[0].SelfKeyed)
	inv = invocation(&CompleteTransactionArgs{}, &account.Transaction{TxID: txID, UserPhone: phone})
	got, err = op.Accounts[0].Address(d, inv)
	require.NoError(t, err)
	require.Equal(t, wantTx, got)
	got, err = op.Accounts[1].Address(d, inv)
	require.NoError(t, err)
	require.Equal(t, wantUser, got)
}

func TestConfigure(t *testing.T) {
	cfg := &account.Config{}
	inv := invocation(&ConfigureArgs{CryptoFeeBps: 100, AirtimeFeeBps: 50, MinLimit: 1000, MaxLimit: 1_000_000}, cfg)
	_, err := Configure(inv)
	require.NoError(t, err)
	require.Equal(t, signer, cfg.Admin)
	require.False(t, cfg.Paused)
	require.EqualValues(t, 1000, cfg.MinLimit)
	require.Len(t, inv.Events, 1)
	require.Equal(t, "ouh.configure", inv.Events[0].Kind)
}

func TestConfigure_InvalidInput(t *testing.T) {
	for _, args := range []*ConfigureArgs{
		{CryptoFeeBps: 10001, MaxLimit: 1},
		{AirtimeFeeBps: 20000, MaxLimit: 1},
		{MinLimit: 2, MaxLimit: 1},
	} {
		cfg := &account.Config{}
		_, err := Configure(invocation(args, cfg))
		require.ErrorIs(t, err, ouh.ErrInvalidInput)
		require.Equal(t, account.Config{}, *cfg, "rejected configure must not touch the record")
	}
}

func TestRegisterUser(t *testing.T) {
	u := &account.User{}
	inv := invocation(&RegisterUserArgs{Phone: phone, PinHash: account.PinHash{0x01}}, u)
	_, err := RegisterUser(inv)
	require.NoError(t, err)
	require.Equal(t, account.User{
		Phone:        phone,
		Wallet:       signer,
		PinHash:      account.PinHash{0x01},
		RegisteredAt: 1_700_000_000,
		Status:       account.UserActive,
	}, *u)

	v, ok := inv.Events[0].Attr("phone")
	require.True(t, ok)
	require.Equal(t, "+2348000000001", v)
}

func TestCreateTransaction(t *testing.T) {
	tx := &account.Transaction{}
	inv := invocation(&CreateTransactionArgs{
		TxID: txID, UserPhone: phone, Kind: account.TransactionCrypto,
		AmountNGN: 50000, AmountUSDC: 30, HasAmountUSDC: true, Fee: 500,
	}, tx, &account.User{Phone: phone}, testConfig())

	_, err := CreateTransaction(inv)
	require.NoError(t, err)
	require.Equal(t, account.TransactionPending, tx.Status)
	require.EqualValues(t, 1_700_000_000, tx.Timestamp)
	require.EqualValues(t, 500, tx.Fee)
	require.Equal(t, u64(30), tx.AmountUSDC)
	require.NoError(t, tx.Validate())
}

func TestCreateTransaction_Guards(t *testing.T) {
	paused := testConfig()
	paused.Paused = true

	cases := []struct {
		name string
		cfg  *account.Config
		user *account.User
		args CreateTransactionArgs
		want error
	}{
		{"paused", paused, &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000}, ouh.ErrContractPaused},
		{"suspended", testConfig(), &account.User{Status: account.UserSuspended}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000}, ouh.ErrUserSuspended},
		{"below min", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 999}, ouh.ErrTransactionLimitOutOfBounds},
		{"above max", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 1_000_001}, ouh.ErrTransactionLimitOutOfBounds},
		{"crypto without stable", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionCrypto, AmountNGN: 5000}, ouh.ErrInvalidInput},
		{"airtime with stable", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000, AmountUSDC: 1, HasAmountUSDC: true}, ouh.ErrInvalidInput},
		{"airtime with zero stable", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000, HasAmountUSDC: true}, ouh.ErrInvalidInput},
		{"stable without flag", testConfig(), &account.User{}, CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000, AmountUSDC: 7}, ouh.ErrInvalidInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tx := &account.Transaction{}
			args := c.args
			_, err := CreateTransaction(invocation(&args, tx, c.user, c.cfg))
			require.ErrorIs(t, err, c.want)
			require.Equal(t, account.Transaction{}, *tx)
		})
	}
}

func TestCreateTransaction_ZeroStableAmount(t *testing.T) {
	tx := &account.Transaction{}
	args := CreateTransactionArgs{TxID: txID, UserPhone: phone, Kind: account.TransactionCrypto, AmountNGN: 5000}.WithStable(0)
	_, err := CreateTransaction(invocation(&args, tx, &account.User{}, testConfig()))
	require.NoError(t, err)
	require.Equal(t, u64(0), tx.AmountUSDC)
	require.NoError(t, tx.Validate())
}

func TestCreateTransactionArgs_StableSurvivesWire(t *testing.T) {
	cases := []struct {
		name string
		args CreateTransactionArgs
		want *uint64
	}{
		{"none", CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: 5000}, nil},
		{"zero", CreateTransactionArgs{Kind: account.TransactionCrypto, AmountNGN: 5000}.WithStable(0), u64(0)},
		{"value", CreateTransactionArgs{Kind: account.TransactionCrypto, AmountNGN: 5000}.WithStable(30), u64(30)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			raw, err := cramberry.Marshal(c.args)
			require.NoError(t, err)
			var out CreateTransactionArgs
			require.NoError(t, cramberry.Unmarshal(raw, &out))
			require.Equal(t, c.want, out.Stable())
			require.Equal(t, c.args.AmountNGN, out.AmountNGN)
		})
	}
}

func TestCreateTransaction_LimitBoundaries(t *testing.T) {
	for _, amount := range []uint64{1000, 1_000_000} {
		tx := &account.Transaction{}
		args := &CreateTransactionArgs{Kind: account.TransactionAirtime, AmountNGN: amount}
		_, err := CreateTransaction(invocation(args, tx, &account.User{}, testConfig()))
		require.NoError(t, err, "amount %d", amount)
	}
}

func TestCompleteTransaction(t *testing.T) {
	tx := &account.Transaction{TxID: txID, UserPhone: phone, AmountNGN: 50000, Type: account.TransactionAirtime}
	user := &account.User{Phone: phone, TotalVolume: 100}
	inv := invocation(&CompleteTransactionArgs{}, tx, user)

	_, err := CompleteTransaction(inv)
	require.NoError(t, err)
	require.Equal(t, account.TransactionCompleted, tx.Status)
	require.EqualValues(t, 50100, user.TotalVolume)

	// Second completion is rejected and changes nothing.
	_, err = CompleteTransaction(invocation(&CompleteTransactionArgs{}, tx, user))
	require.ErrorIs(t, err, ouh.ErrInvalidTransition)
	require.EqualValues(t, 50100, user.TotalVolume)
}

func TestCompleteTransaction_Overflow(t *testing.T) {
	tx := &account.Transaction{AmountNGN: 100}
	user := &account.User{TotalVolume: math.MaxUint64 - 10}

	_, err := CompleteTransaction(invocation(&CompleteTransactionArgs{}, tx, user))
	require.ErrorIs(t, err, ouh.ErrArithmeticOverflow)
	require.Equal(t, account.TransactionPending, tx.Status)
	require.EqualValues(t, uint64(math.MaxUint64-10), user.TotalVolume)

	// Landing exactly on the maximum is not an overflow.
	tx.AmountNGN = 10
	_, err = CompleteTransaction(invocation(&CompleteTransactionArgs{}, tx, user))
	require.NoError(t, err)
	require.EqualValues(t, uint64(math.MaxUint64), user.TotalVolume)
}

func TestGetUserBalance(t *testing.T) {
	user := &account.User{Phone: phone, TotalVolume: 50000}
	out, err := GetUserBalance(invocation(&GetUserBalanceArgs{Phone: phone}, user))
	require.NoError(t, err)
	require.Len(t, out, 8)
	require.EqualValues(t, 50000, binary.LittleEndian.Uint64(out))
}
