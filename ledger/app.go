// Package ledger is the in-process host for the payments program.
//
// App verifies signed instructions, enforces each operation's record
// declarations, runs the handler and applies its writes only if it
// succeeds. Blocks execute against a clone of committed state that
// Commit swaps in.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/address"
	"github.com/ouh-labs/ouh/observability"
	"github.com/ouh-labs/ouh/state"
	"github.com/ouh-labs/ouh/types"
)

// Compile-time interface checks.
var (
	_ ouh.Lifecycle   = (*App)(nil)
	_ ouh.Simulator   = (*App)(nil)
	_ ouh.Application = (*App)(nil)
)

// Option configures an App.
type Option func(*App)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(app *App) { app.log = l }
}

// WithProgramID sets the program addresses are derived under.
func WithProgramID(id solana.PublicKey) Option {
	return func(app *App) { app.deriver = address.NewDeriver(id) }
}

// WithChainID makes genesis fail unless the host's chain id matches.
func WithChainID(id string) Option {
	return func(app *App) { app.wantChainID = id }
}

// WithGenesisState seeds genesis from a cramberry GenesisState when the
// host's GenesisDoc carries no AppState of its own.
func WithGenesisState(state []byte) Option {
	return func(app *App) { app.localGenesis = state }
}

type snapshot struct {
	store   *state.Store
	height  uint64
	appHash types.AppHash
}

// App is the ledger application.
type App struct {
	deriver      address.Deriver
	log          *zap.Logger
	wantChainID  string
	localGenesis []byte

	mu      sync.RWMutex
	chainID string
	current snapshot
	staged  *snapshot
}

// New creates an App with empty state.
func New(opts ...Option) *App {
	app := &App{
		deriver: address.NewDeriver(address.DefaultProgramID),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(app)
	}
	store := state.NewStore()
	h, _ := store.Hash() // empty store always hashes
	app.current = snapshot{store: store, appHash: h}
	return app
}

// Deriver returns the address deriver the app enforces.
func (app *App) Deriver() address.Deriver { return app.deriver }

func (app *App) Handshake(_ context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if req.LastCommitted == nil {
		appState := app.localGenesis
		if req.Genesis != nil {
			if app.wantChainID != "" && req.Genesis.ChainID != app.wantChainID {
				return types.HandshakeResponse{}, fmt.Errorf("genesis: chain id %q, want %q", req.Genesis.ChainID, app.wantChainID)
			}
			app.chainID = req.Genesis.ChainID
			if len(req.Genesis.AppState) > 0 {
				appState = req.Genesis.AppState
			}
		}
		if err := app.loadGenesis(appState); err != nil {
			return types.HandshakeResponse{}, fmt.Errorf("genesis: %w", err)
		}
		app.log.Info("genesis loaded",
			zap.String("chain_id", app.chainID),
			zap.Int("records", app.current.store.Len()),
			zap.String("program_id", app.deriver.ProgramID().String()),
		)
		h := app.current.appHash
		return types.HandshakeResponse{
			AppHash:      &h,
			Capabilities: types.CapSimulation,
		}, nil
	}

	h := app.current.appHash
	return types.HandshakeResponse{
		LastBlock:    &types.BlockID{Height: app.current.height},
		AppHash:      &h,
		Capabilities: types.CapSimulation,
	}, nil
}

func (app *App) CheckTx(_ context.Context, tx types.Tx, _ types.MempoolContext) (types.GateVerdict, error) {
	in, err := app.decode(tx)
	if err != nil {
		return types.GateVerdict{Code: uint32(ouh.CodeOf(err)), Info: err.Error()}, nil
	}
	return types.GateVerdict{Sender: in.signer.String()}, nil
}

func (app *App) ExecuteBlock(_ context.Context, block types.Block) (types.BlockOutcome, error) {
	start := time.Now()

	app.mu.RLock()
	store := app.current.store.Clone()
	app.mu.RUnlock()

	outcomes := make([]types.TxOutcome, len(block.Txs))
	for i, tx := range block.Txs {
		outcome, err := app.execute(store, uint32(i), tx, block.Time.Seconds)
		if err != nil {
			var corrupt *corruptError
			if errors.As(err, &corrupt) {
				app.log.Error("corrupt record", zap.Uint64("height", block.Height), zap.Error(err))
				return types.BlockOutcome{}, ouh.NewHaltError(block.Height, err.Error())
			}
			return types.BlockOutcome{}, err
		}
		outcomes[i] = outcome
	}

	h, err := store.Hash()
	if err != nil {
		return types.BlockOutcome{}, fmt.Errorf("hash state at height %d: %w", block.Height, err)
	}

	app.mu.Lock()
	app.staged = &snapshot{store: store, height: block.Height, appHash: h}
	app.mu.Unlock()

	observability.ObserveBlock(len(block.Txs), time.Since(start))
	app.log.Debug("block executed",
		zap.Uint64("height", block.Height),
		zap.Int("txs", len(block.Txs)),
		zap.Duration("took", time.Since(start)),
	)
	return types.BlockOutcome{TxOutcomes: outcomes, AppHash: h}, nil
}

func (app *App) Commit(_ context.Context) (types.CommitResult, error) {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.staged == nil {
		return types.CommitResult{}, errors.New("commit without an executed block")
	}
	app.current = *app.staged
	app.staged = nil

	observability.SetCommitted(app.current.height, app.current.store.Len())
	app.log.Debug("block committed", zap.Uint64("height", app.current.height))
	return types.CommitResult{}, nil
}

// Simulate runs tx against committed state and discards the result.
func (app *App) Simulate(_ context.Context, tx types.Tx) (types.TxOutcome, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	// Writes stay in the batch and are never applied.
	batch := app.current.store.NewBatch()
	_, data, events, err := app.run(batch, tx, time.Now().Unix())
	if err != nil && isCorrupt(err) {
		return types.TxOutcome{}, err
	}
	return outcomeOf(0, data, events, err), nil
}
