package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ouh-labs/ouh/ledger"
	"github.com/ouh-labs/ouh/observability"
	"github.com/ouh-labs/ouh/server"
	"github.com/ouh-labs/ouh/types"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRouter_Probes(t *testing.T) {
	srv := server.New(ledger.New())
	r := newRouter(srv)

	require.Equal(t, http.StatusOK, get(t, r, "/healthz").Code)

	rec := get(t, r, "/readyz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"state":"Init","height":0}`, rec.Body.String())

	_, err := srv.Handshake(context.Background(), types.HandshakeRequest{Genesis: &types.GenesisDoc{ChainID: "test"}})
	require.NoError(t, err)

	rec = get(t, r, "/readyz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"state":"Ready","height":0}`, rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	observability.Init()
	observability.SetCommitted(3, 2)

	rec := get(t, newRouter(server.New(ledger.New())), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ouh_committed_height 3")
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "", "warn", "error", "bogus"} {
		l, err := newLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, l)
	}
}
