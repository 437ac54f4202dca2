package instruction

import (
	"testing"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/program"
	"github.com/ouh-labs/ouh/types"
)

func decode(t *testing.T, tx types.Tx) (types.SignedTx, types.Envelope) {
	t.Helper()
	var signed types.SignedTx
	require.NoError(t, cramberry.Unmarshal(tx, &signed))
	var env types.Envelope
	require.NoError(t, cramberry.Unmarshal(signed.Envelope, &env))
	return signed, env
}

func TestSign_VerifiesWithSignerKey(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	b := NewBuilder(address.DefaultProgramID)

	tx, err := b.Configure(key, program.ConfigureArgs{CryptoFeeBps: 100, MaxLimit: 10})
	require.NoError(t, err)

	signed, env := decode(t, tx)
	require.Equal(t, types.OpConfigure, env.Op)
	require.Equal(t, [32]byte(key.PublicKey()), env.Signer)
	require.True(t, solana.Signature(signed.Signature).Verify(key.PublicKey(), signed.Envelope))

	cfgAddr, err := b.Deriver().Config()
	require.NoError(t, err)
	require.Equal(t, [][32]byte{cfgAddr}, env.Accounts)

	var args program.ConfigureArgs
	require.NoError(t, cramberry.Unmarshal(env.Args, &args))
	require.EqualValues(t, 100, args.CryptoFeeBps)
	require.EqualValues(t, 10, args.MaxLimit)
}

func TestCreateTransaction_AccountOrder(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	b := NewBuilder(address.DefaultProgramID)
	phone, err := account.ParsePhone("0801")
	require.NoError(t, err)
	id := NewTxID()

	tx, err := b.CreateTransaction(key, program.CreateTransactionArgs{
		TxID: id, UserPhone: phone, Kind: account.TransactionAirtime, AmountNGN: 100,
	})
	require.NoError(t, err)
	_, env := decode(t, tx)

	d := b.Deriver()
	txAddr, _ := d.Transaction(id)
	userAddr, _ := d.User(phone)
	cfgAddr, _ := d.Config()
	require.Equal(t, [][32]byte{txAddr, userAddr, cfgAddr}, env.Accounts)
}

func TestGetUserBalance_Unsigned(t *testing.T) {
	b := NewBuilder(address.DefaultProgramID)
	phone, err := account.ParsePhone("0801")
	require.NoError(t, err)

	tx, err := b.GetUserBalance(phone)
	require.NoError(t, err)
	signed, env := decode(t, tx)
	require.Equal(t, [32]byte{}, env.Signer)
	require.Equal(t, [64]byte{}, signed.Signature)
	require.Len(t, env.Accounts, 1)
}

func TestGenesisState(t *testing.T) {
	b := NewBuilder(address.DefaultProgramID)
	raw, err := b.GenesisState(&account.Config{MaxLimit: 1}, &account.User{Status: account.UserSuspended})
	require.NoError(t, err)

	var gs types.GenesisState
	require.NoError(t, cramberry.Unmarshal(raw, &gs))
	require.Len(t, gs.Accounts, 2)
	require.Len(t, gs.Accounts[0].Data, account.ConfigSize)
	require.Len(t, gs.Accounts[1].Data, account.UserSize)

	cfgAddr, _ := b.Deriver().Config()
	require.Equal(t, [32]byte(cfgAddr), gs.Accounts[0].Address)
}

func TestTxIDs(t *testing.T) {
	require.NotEqual(t, NewTxID(), NewTxID())

	id, err := ParseTxID("01020304-0506-0708-090a-0b0c0d0e0f10")
	require.NoError(t, err)
	require.Equal(t, "0102030405060708090a0b0c0d0e0f10", id.String())

	_, err = ParseTxID("not-a-uuid")
	require.Error(t, err)
}

func TestQuoteFee(t *testing.T) {
	require.EqualValues(t, 500, QuoteFee(50000, 100))
	require.EqualValues(t, 0, QuoteFee(99, 100))
	require.EqualValues(t, 1, QuoteFee(200, 50))
	require.EqualValues(t, 0, QuoteFee(199, 50))
	require.EqualValues(t, 50000, QuoteFee(50000, 10000))
	require.EqualValues(t, uint64(18446744073709551615), QuoteFee(^uint64(0), 10000))

	cfg := &account.Config{CryptoFeeBps: 100, AirtimeFeeBps: 50}
	require.EqualValues(t, 500, FeeFor(cfg, account.TransactionCrypto, 50000))
	require.EqualValues(t, 250, FeeFor(cfg, account.TransactionAirtime, 50000))
}
