package ledger

import (
	"errors"
	"fmt"

	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/observability"
	"github.com/ouh-labs/ouh/program"
	"github.com/ouh-labs/ouh/state"
	"github.com/ouh-labs/ouh/types"
)

// corruptError marks committed bytes that carry a valid discriminator
// but do not decode. The block cannot proceed.
type corruptError struct {
	addr solana.PublicKey
	err  error
}

func (e *corruptError) Error() string {
	return fmt.Sprintf("record %s: %v", e.addr, e.err)
}

func (e *corruptError) Unwrap() error { return e.err }

func isCorrupt(err error) bool {
	var c *corruptError
	return errors.As(err, &c)
}

// instruction is a decoded, signature-checked transaction.
type instruction struct {
	op       *program.Operation
	signer   solana.PublicKey
	accounts []solana.PublicKey
	args     any
}

// decode performs every stateless check: encoding, opcode, signature,
// account count and argument decoding.
func (app *App) decode(tx types.Tx) (*instruction, error) {
	var signed types.SignedTx
	if err := cramberry.Unmarshal(tx, &signed); err != nil {
		return nil, ouh.ErrEncoding.Withf("signed tx: %v", err)
	}
	var env types.Envelope
	if err := cramberry.Unmarshal(signed.Envelope, &env); err != nil {
		return nil, ouh.ErrEncoding.Withf("envelope: %v", err)
	}

	op, ok := program.Lookup(env.Op)
	if !ok {
		return nil, ouh.ErrUnknownInstruction.Withf("opcode %d", env.Op)
	}

	signer := solana.PublicKey(env.Signer)
	if op.RequiresSigner() {
		if weakSigner(signer) {
			return nil, ouh.ErrInvalidSignature.Withf("%s signer %s is not a valid key", op.Name, signer)
		}
		sig := solana.Signature(signed.Signature)
		if !sig.Verify(signer, signed.Envelope) {
			return nil, ouh.ErrInvalidSignature.Withf("%s signer %s", op.Name, signer)
		}
	}

	if len(env.Accounts) != len(op.Accounts) {
		return nil, ouh.ErrAccountCountMismatch.Withf("%s takes %d accounts, got %d", op.Name, len(op.Accounts), len(env.Accounts))
	}
	accounts := make([]solana.PublicKey, len(env.Accounts))
	for i, a := range env.Accounts {
		accounts[i] = solana.PublicKey(a)
	}

	args := op.NewArgs()
	if len(env.Args) > 0 {
		if err := cramberry.Unmarshal(env.Args, args); err != nil {
			return nil, ouh.ErrEncoding.Withf("%s args: %v", op.Name, err)
		}
	}

	return &instruction{op: op, signer: signer, accounts: accounts, args: args}, nil
}

// run executes one transaction with its writes buffered in batch. The
// caller decides whether to apply the batch.
func (app *App) run(batch *state.Batch, tx types.Tx, now int64) (*instruction, []byte, []types.Event, error) {
	in, err := app.decode(tx)
	if err != nil {
		return nil, nil, nil, err
	}

	inv := program.NewInvocation(in.signer, now, in.args)
	if err := app.load(batch, in, inv); err != nil {
		return in, nil, nil, err
	}

	data, err := in.op.Handle(inv)
	if err != nil {
		return in, nil, nil, fmt.Errorf("%s: %w", in.op.Name, err)
	}

	for i, decl := range in.op.Accounts {
		if !decl.Mode.Writes() {
			continue
		}
		rec := inv.Records[decl.Kind]
		if err := rec.Validate(); err != nil {
			return in, nil, nil, fmt.Errorf("%s: %w", in.op.Name, err)
		}
		raw, err := account.Encode(rec)
		if err != nil {
			return in, nil, nil, fmt.Errorf("%s: %w", in.op.Name, err)
		}
		batch.Put(in.accounts[i], raw)
	}
	return in, data, inv.Events, nil
}

// load enforces the operation's declarations in order and fills
// inv.Records.
func (app *App) load(r state.Reader, in *instruction, inv *program.Invocation) error {
	for i, decl := range in.op.Accounts {
		addr := in.accounts[i]

		if !decl.SelfKeyed {
			if err := app.checkAddress(decl, inv, addr); err != nil {
				return err
			}
		}

		raw, exists := r.Get(addr)
		var rec account.Record
		switch decl.Mode {
		case program.Create:
			if exists {
				return ouh.ErrAccountAlreadyInUse.Withf("%s %s", decl.Kind, addr)
			}
			rec, _ = account.New(decl.Kind)
		default:
			if !exists {
				return ouh.ErrNotFound.Withf("%s %s", decl.Kind, addr)
			}
			rec, _ = account.New(decl.Kind)
			if err := account.Decode(raw, rec); err != nil {
				if errors.Is(err, ouh.ErrAccountDiscriminatorMismatch) {
					return err
				}
				return &corruptError{addr: addr, err: err}
			}
		}
		inv.Records[decl.Kind] = rec

		if decl.SelfKeyed {
			if err := app.checkAddress(decl, inv, addr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (app *App) checkAddress(decl program.AccountSpec, inv *program.Invocation, got solana.PublicKey) error {
	want, err := decl.Address(app.deriver, inv)
	if err != nil {
		return err
	}
	if !want.Equals(got) {
		return ouh.ErrConstraintSeeds.Withf("%s expected %s, got %s", decl.Kind, want, got)
	}
	return nil
}

// execute runs one block transaction against store, applying its writes
// on success. Only corrupt state is returned as an error; every other
// failure becomes the outcome's code.
func (app *App) execute(store *state.Store, index uint32, tx types.Tx, now int64) (types.TxOutcome, error) {
	batch := store.NewBatch()
	in, data, events, err := app.run(batch, tx, now)
	if err != nil {
		batch.Discard()
		if isCorrupt(err) {
			return types.TxOutcome{}, err
		}
	} else {
		batch.Apply()
	}

	outcome := outcomeOf(index, data, events, err)
	observability.ObserveInstruction(opName(in), resultName(err))
	if err != nil {
		app.log.Debug("instruction failed",
			zap.Uint32("index", index),
			zap.String("op", opName(in)),
			zap.Uint32("code", outcome.Code),
			zap.Error(err),
		)
	}
	return outcome, nil
}

func outcomeOf(index uint32, data []byte, events []types.Event, err error) types.TxOutcome {
	if err != nil {
		return types.TxOutcome{Index: index, Code: uint32(ouh.CodeOf(err)), Info: err.Error()}
	}
	return types.TxOutcome{Index: index, Data: data, Events: events}
}

func opName(in *instruction) string {
	if in == nil {
		return "unknown"
	}
	return in.op.Name
}

func resultName(err error) string {
	if err == nil {
		return "OK"
	}
	var e *ouh.Error
	if errors.As(err, &e) {
		return e.Name
	}
	return "Internal"
}
