package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ouh-labs/ouh/address"
)

// Config holds all runtime configuration derived from environment variables.
type Config struct {
	GRPCAddr        string
	HTTPAddr        string
	ProgramID       solana.PublicKey
	LogLevel        string
	ChainID         string
	GenesisFile     string
	ShutdownTimeout time.Duration
}

// Load reads environment variables using viper and returns a typed config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	bindEnv(v, "grpc_addr", "OUH_GRPC_ADDR")
	bindEnv(v, "http_addr", "OUH_HTTP_ADDR")
	bindEnv(v, "program_id", "OUH_PROGRAM_ID")
	bindEnv(v, "log_level", "OUH_LOG_LEVEL", "LOG_LEVEL")
	bindEnv(v, "chain_id", "OUH_CHAIN_ID")
	bindEnv(v, "genesis_file", "OUH_GENESIS_FILE")
	bindEnv(v, "shutdown_timeout", "OUH_SHUTDOWN_TIMEOUT")

	v.SetDefault("grpc_addr", ":26658")
	v.SetDefault("http_addr", ":9090")
	v.SetDefault("program_id", address.DefaultProgramID.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("chain_id", "")
	v.SetDefault("genesis_file", "")
	v.SetDefault("shutdown_timeout", "15s")

	programID, err := solana.PublicKeyFromBase58(strings.TrimSpace(v.GetString("program_id")))
	if err != nil {
		return nil, fmt.Errorf("invalid OUH_PROGRAM_ID: %w", err)
	}
	shutdown, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid OUH_SHUTDOWN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		GRPCAddr:        v.GetString("grpc_addr"),
		HTTPAddr:        v.GetString("http_addr"),
		ProgramID:       programID,
		LogLevel:        v.GetString("log_level"),
		ChainID:         v.GetString("chain_id"),
		GenesisFile:     v.GetString("genesis_file"),
		ShutdownTimeout: shutdown,
	}

	if strings.TrimSpace(cfg.GRPCAddr) == "" {
		return nil, fmt.Errorf("OUH_GRPC_ADDR is required")
	}
	return cfg, nil
}

// GenesisState reads the configured genesis file. No file means no
// preloaded records.
func (c *Config) GenesisState() ([]byte, error) {
	if c.GenesisFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.GenesisFile)
	if err != nil {
		return nil, fmt.Errorf("read genesis file: %w", err)
	}
	return data, nil
}

func bindEnv(v *viper.Viper, key string, names ...string) {
	args := append([]string{key}, names...)
	_ = v.BindEnv(args...)
}
