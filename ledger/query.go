package ledger

import (
	"context"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"

	"github.com/ouh-labs/ouh"
	"github.com/ouh-labs/ouh/account"
	"github.com/ouh-labs/ouh/types"
)

// Query reads committed state. /balance answers with 8 little-endian
// bytes; the other paths return raw record bytes.
func (app *App) Query(_ context.Context, req types.StateQuery) (types.StateQueryResult, error) {
	app.mu.RLock()
	defer app.mu.RUnlock()

	height := app.current.height
	fail := func(err error) (types.StateQueryResult, error) {
		return types.StateQueryResult{Code: uint32(ouh.CodeOf(err)), Key: req.Data, Info: err.Error(), Height: height}, nil
	}

	addr, err := app.queryAddress(req)
	if err != nil {
		return fail(err)
	}
	raw, ok := app.current.store.Get(addr)
	if !ok {
		return fail(ouh.ErrNotFound.Withf("%s %s", req.Path, addr))
	}

	value := raw
	if req.Path == types.QueryBalance {
		var u account.User
		if err := account.Decode(raw, &u); err != nil {
			return fail(err)
		}
		value = binary.LittleEndian.AppendUint64(nil, u.TotalVolume)
	}
	return types.StateQueryResult{Key: addr.Bytes(), Value: value, Height: height}, nil
}

func (app *App) queryAddress(req types.StateQuery) (solana.PublicKey, error) {
	switch req.Path {
	case types.QueryBalance, types.QueryUser:
		var phone account.Phone
		if len(req.Data) != len(phone) {
			return solana.PublicKey{}, ouh.ErrEncoding.Withf("%s takes a %d-byte phone, got %d bytes", req.Path, len(phone), len(req.Data))
		}
		copy(phone[:], req.Data)
		return app.deriver.User(phone)
	case types.QueryTransaction:
		var id account.TxID
		if len(req.Data) != len(id) {
			return solana.PublicKey{}, ouh.ErrEncoding.Withf("%s takes a %d-byte id, got %d bytes", req.Path, len(id), len(req.Data))
		}
		copy(id[:], req.Data)
		return app.deriver.Transaction(id)
	case types.QueryConfig:
		return app.deriver.Config()
	case types.QueryAccount:
		if len(req.Data) != solana.PublicKeyLength {
			return solana.PublicKey{}, ouh.ErrEncoding.Withf("%s takes a %d-byte address, got %d bytes", req.Path, solana.PublicKeyLength, len(req.Data))
		}
		return solana.PublicKeyFromBytes(req.Data), nil
	default:
		return solana.PublicKey{}, ouh.ErrUnknownInstruction.Withf("query path %q", req.Path)
	}
}
