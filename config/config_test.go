package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"

	"github.com/ouh-labs/ouh/address"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":26658", cfg.GRPCAddr)
	require.Equal(t, ":9090", cfg.HTTPAddr)
	require.True(t, cfg.ProgramID.Equals(address.DefaultProgramID))
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 15*time.Second, cfg.ShutdownTimeout)

	state, err := cfg.GenesisState()
	require.NoError(t, err)
	require.Nil(t, state)
}

func TestLoad_Env(t *testing.T) {
	dir := t.TempDir()
	genesis := filepath.Join(dir, "genesis.bin")
	require.NoError(t, os.WriteFile(genesis, []byte{0x01, 0x02}, 0o600))

	t.Setenv("OUH_GRPC_ADDR", "127.0.0.1:7000")
	t.Setenv("OUH_PROGRAM_ID", "11111111111111111111111111111111")
	t.Setenv("OUH_LOG_LEVEL", "debug")
	t.Setenv("OUH_CHAIN_ID", "ouh-test")
	t.Setenv("OUH_GENESIS_FILE", genesis)
	t.Setenv("OUH_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7000", cfg.GRPCAddr)
	require.True(t, cfg.ProgramID.Equals(solana.PublicKey{}))
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "ouh-test", cfg.ChainID)
	require.Equal(t, 2*time.Second, cfg.ShutdownTimeout)

	state, err := cfg.GenesisState()
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, state)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("OUH_PROGRAM_ID", "not-base58!")
	_, err := Load()
	require.ErrorContains(t, err, "OUH_PROGRAM_ID")

	t.Setenv("OUH_PROGRAM_ID", "")
	t.Setenv("OUH_SHUTDOWN_TIMEOUT", "soon")
	_, err = Load()
	require.ErrorContains(t, err, "OUH_SHUTDOWN_TIMEOUT")
}
