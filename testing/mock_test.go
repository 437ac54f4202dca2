package ledgertest

import (
	"testing"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/types"
)

func TestMockApp_Compliance(t *testing.T) {
	RunComplianceSuite(t, func() ouh.Lifecycle {
		return &MockApp{DeclaredCapabilities: types.CapSimulation}
	})
}

func TestMockApp_CallCounters(t *testing.T) {
	app := &MockApp{DeclaredCapabilities: types.CapSimulation}
	h := NewHarness(t, app)
	h.GenesisDefault()

	h.MustAcceptTx(garbage)
	h.ExecuteAndCommit(MakeBlock(1, garbage))
	h.Query(types.QueryConfig, nil)
	h.Simulate(garbage)

	if app.HandshakeCalls.Load() != 1 || app.CheckTxCalls.Load() != 1 ||
		app.ExecuteBlockCalls.Load() != 1 || app.CommitCalls.Load() != 1 ||
		app.QueryCalls.Load() != 1 || app.SimulateCalls.Load() != 1 {
		t.Fatalf("unexpected call counts: hs=%d check=%d exec=%d commit=%d query=%d sim=%d",
			app.HandshakeCalls.Load(), app.CheckTxCalls.Load(), app.ExecuteBlockCalls.Load(),
			app.CommitCalls.Load(), app.QueryCalls.Load(), app.SimulateCalls.Load())
	}
}

func TestMakeBlock_Time(t *testing.T) {
	b := MakeBlock(3)
	if b.Time.Seconds != GenesisTime.Unix()+15 {
		t.Fatalf("expected block 3 at genesis+15s, got %d", b.Time.Seconds)
	}
	if len(b.Txs) != 0 {
		t.Fatalf("expected empty block, got %d txs", len(b.Txs))
	}
}
