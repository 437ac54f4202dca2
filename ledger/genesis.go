package ledger

import (
	"github.com/blockberries/cramberry/pkg/cramberry"
	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/state"
	"github.com/ouh-labs/ouh/types"
)

// loadGenesis seeds committed state from a cramberry GenesisState. Each
// record must decode, validate, fill its kind's space exactly and sit at
// the address derived from its own key. Caller holds app.mu.
func (app *App) loadGenesis(appState []byte) error {
	if len(appState) == 0 {
		return nil
	}
	var gs types.GenesisState
	if err := cramberry.Unmarshal(appState, &gs); err != nil {
		return ouh.ErrEncoding.Withf("app state: %v", err)
	}

	store := state.NewStore()
	for i, ga := range gs.Accounts {
		addr := solana.PublicKey(ga.Address)
		rec, err := account.DecodeAny(ga.Data)
		if err != nil {
			return ouh.ErrInvalidInput.Withf("account %d (%s): %v", i, addr, err)
		}
		if len(ga.Data) != rec.Kind().Space() {
			return ouh.ErrInvalidInput.Withf("account %d (%s): %s is %d bytes, want %d", i, addr, rec.Kind(), len(ga.Data), rec.Kind().Space())
		}
		if err := rec.Validate(); err != nil {
			return err
		}
		want, err := app.deriver.Record(rec)
		if err != nil {
			return err
		}
		if !want.Equals(addr) {
			return ouh.ErrConstraintSeeds.Withf("genesis %s at %s, expected %s", rec.Kind(), addr, want)
		}
		if _, dup := store.Get(addr); dup {
			return ouh.ErrAccountAlreadyInUse.Withf("genesis %s listed twice", addr)
		}
		store.Put(addr, ga.Data)
	}

	h, err := store.Hash()
	if err != nil {
		return err
	}
	app.current = snapshot{store: store, appHash: h}
	return nil
}
