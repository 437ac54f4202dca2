package server

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/types"
)

// ErrNotSupported is returned for a capability the app did not declare.
var ErrNotSupported = errors.New("ouh: capability not supported")

// Server wraps a ledger application with lifecycle enforcement
// and capability routing. The block producer interacts with
// the application exclusively through this server.
type Server struct {
	app   ouh.Lifecycle
	guard *LifecycleGuard
	caps  types.Capabilities
	log   *zap.Logger

	// Optional interfaces (nil if not supported).
	simulator ouh.Simulator

	// Last block outcome (held between ExecuteBlock and Commit).
	mu             sync.Mutex
	lastOutcome    *types.BlockOutcome
	lastExecHeight uint64
	halt           *ouh.HaltError
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New creates a new Server wrapping the given application.
func New(app ouh.Lifecycle, opts ...Option) *Server {
	s := &Server{
		app:   app,
		guard: NewLifecycleGuard(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// Pre-discover optional interfaces (validated after handshake).
	s.simulator, _ = app.(ouh.Simulator)
	return s
}

// Handshake performs the startup handshake, validates capability
// declarations, and transitions the state machine to Ready.
func (s *Server) Handshake(ctx context.Context, req types.HandshakeRequest) (types.HandshakeResponse, error) {
	s.guard.AcquireHandshake()

	resp, err := s.app.Handshake(ctx, req)
	if err != nil {
		s.guard.FailHandshake()
		return resp, err
	}

	if err := discoverCapabilities(s.app, resp.Capabilities, s.log); err != nil {
		s.guard.FailHandshake()
		return resp, err
	}

	s.caps = resp.Capabilities
	committed := StartHeight(req, resp)
	s.guard.CompleteHandshake(committed)
	s.log.Info("handshake complete",
		zap.Bool("genesis", req.LastCommitted == nil),
		zap.Uint64("committed", committed),
		zap.Stringer("capabilities", resp.Capabilities),
	)
	return resp, nil
}

// StartHeight is the height already committed when the handshake
// completes. A fresh chain starts just below its initial height.
func StartHeight(req types.HandshakeRequest, resp types.HandshakeResponse) uint64 {
	switch {
	case resp.LastBlock != nil:
		return resp.LastBlock.Height
	case req.LastCommitted != nil:
		return req.LastCommitted.Height
	case req.Genesis != nil && req.Genesis.InitialHeight > 0:
		return req.Genesis.InitialHeight - 1
	default:
		return 0
	}
}

// CheckTx gate-checks a transaction for mempool admission.
// Safe for concurrent use.
func (s *Server) CheckTx(ctx context.Context, tx types.Tx, mctx types.MempoolContext) (types.GateVerdict, error) {
	s.guard.CheckConcurrent()
	return s.app.CheckTx(ctx, tx, mctx)
}

// ExecuteBlock executes a block. After the app reports a HaltError
// every further call returns it.
func (s *Server) ExecuteBlock(ctx context.Context, block types.Block) (types.BlockOutcome, error) {
	s.guard.AcquireExecute(block.Height)

	s.mu.Lock()
	halt := s.halt
	s.mu.Unlock()
	if halt != nil {
		s.guard.FailExecute()
		return types.BlockOutcome{}, halt
	}

	outcome, err := s.app.ExecuteBlock(ctx, block)
	if err != nil {
		if h, ok := ouh.IsHalt(err); ok {
			s.mu.Lock()
			s.halt = h
			s.mu.Unlock()
			s.log.Error("application halted", zap.Uint64("height", h.Height), zap.String("reason", h.Reason))
		}
		s.guard.FailExecute()
		return outcome, err
	}

	s.mu.Lock()
	s.lastOutcome = &outcome
	s.lastExecHeight = block.Height
	s.mu.Unlock()

	s.guard.CompleteExecute()
	return outcome, nil
}

// Commit makes the last executed block's state current.
func (s *Server) Commit(ctx context.Context) (types.CommitResult, error) {
	s.guard.AcquireCommit()

	result, err := s.app.Commit(ctx)

	s.mu.Lock()
	s.lastOutcome = nil
	height := s.lastExecHeight
	s.mu.Unlock()

	s.guard.CompleteCommit()
	if err != nil {
		s.log.Error("commit failed", zap.Uint64("height", height), zap.Error(err))
	}
	return result, err
}

// Query reads application state. Safe for concurrent use.
func (s *Server) Query(ctx context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	s.guard.CheckConcurrent()
	return s.app.Query(ctx, req)
}

// Capabilities returns the application's declared capabilities.
// Only valid after Handshake completes.
func (s *Server) Capabilities() types.Capabilities {
	return s.caps
}

// Simulate delegates to Simulator if supported.
// Safe for concurrent use.
func (s *Server) Simulate(ctx context.Context, tx types.Tx) (types.TxOutcome, error) {
	if s.AsSimulator() == nil {
		return types.TxOutcome{}, ErrNotSupported
	}
	s.guard.CheckConcurrent()
	return s.simulator.Simulate(ctx, tx)
}

// AsSimulator returns the Simulator interface or nil.
func (s *Server) AsSimulator() ouh.Simulator {
	if s.caps.Has(types.CapSimulation) {
		return s.simulator
	}
	return nil
}

// LastOutcome returns the most recent BlockOutcome (between
// ExecuteBlock and Commit). Returns nil if no outcome is pending.
func (s *Server) LastOutcome() *types.BlockOutcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOutcome
}

// State returns the lifecycle phase name.
func (s *Server) State() string {
	return s.guard.State()
}

// Committed returns the last committed height.
func (s *Server) Committed() uint64 {
	return s.guard.Committed()
}

// Close is a no-op for the server wrapper.
func (s *Server) Close() error { return nil }

// discoverCapabilities checks which optional interfaces the app
// implements and verifies consistency with declared capabilities.
func discoverCapabilities(app ouh.Lifecycle, declared types.Capabilities, log *zap.Logger) error {
	_, hasSimulator := app.(ouh.Simulator)

	if declared.Has(types.CapSimulation) && !hasSimulator {
		return errors.New("ouh: app declared CapSimulation but does not implement Simulator")
	}

	// Warn (but don't error) if the app implements an interface but didn't declare it.
	if !declared.Has(types.CapSimulation) && hasSimulator {
		log.Warn("app implements Simulator but did not declare it; capability will not be used")
	}

	return nil
}
