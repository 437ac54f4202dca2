package local

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/instruction"
	"github.com/ouh-labs/ouh/ledger"
	"github.com/ouh-labs/ouh/program"
	"github.com/ouh-labs/ouh/types"
)

func TestLocalConnection_FullCycle(t *testing.T) {
	conn := NewConnection(ledger.New())
	defer conn.Close()

	// Handshake.
	_, err := conn.Handshake(context.Background(), types.HandshakeRequest{
		Genesis: &types.GenesisDoc{ChainID: "test"},
	})
	if err != nil {
		t.Fatalf("handshake failed: %v", err)
	}

	if !conn.Capabilities().Has(types.CapSimulation) {
		t.Errorf("expected Simulation, got %s", conn.Capabilities())
	}
	if conn.AsSimulator() == nil {
		t.Error("expected non-nil Simulator")
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	phone, _ := account.ParsePhone("+2348000000001")
	b := instruction.NewBuilder(address.DefaultProgramID)
	configure, err := b.Configure(key, program.ConfigureArgs{MinLimit: 1, MaxLimit: 100})
	if err != nil {
		t.Fatal(err)
	}
	register, err := b.RegisterUser(key, phone, account.PinHash{})
	if err != nil {
		t.Fatal(err)
	}

	// Execute and commit.
	outcome, err := conn.ExecuteBlock(context.Background(), types.Block{
		Height: 1,
		Txs:    []types.Tx{configure, register},
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	for _, o := range outcome.TxOutcomes {
		if !o.OK() {
			t.Fatalf("tx %d failed: %s", o.Index, o.Info)
		}
	}

	_, err = conn.Commit(context.Background())
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// Query.
	result, err := conn.Query(context.Background(), types.StateQuery{
		Path: types.QueryBalance,
		Data: phone[:],
	})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if result.Code != 0 {
		t.Fatalf("query code %d: %s", result.Code, result.Info)
	}
	if bal := binary.LittleEndian.Uint64(result.Value); bal != 0 {
		t.Errorf("expected balance=0, got %d", bal)
	}
}

func TestLocalConnection_CheckTxConcurrent(t *testing.T) {
	conn := NewConnection(ledger.New())

	_, err := conn.Handshake(context.Background(), types.HandshakeRequest{
		Genesis: &types.GenesisDoc{ChainID: "test"},
	})
	if err != nil {
		t.Fatalf("handshake failed: %v", err)
	}

	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatal(err)
	}
	phone, _ := account.ParsePhone("0801")
	tx, err := instruction.NewBuilder(address.DefaultProgramID).RegisterUser(key, phone, account.PinHash{})
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			v, err := conn.CheckTx(context.Background(), tx, types.MempoolFirstSeen)
			if err != nil {
				t.Errorf("CheckTx error: %v", err)
			}
			if !v.Accepted() {
				t.Errorf("CheckTx rejected: %s", v.Info)
			}
		}()
	}
	for i := 0; i < 20; i++ {
		<-done
	}
}
