// Command ouhd serves the payments ledger over gRPC to a block
// producer and exposes metrics and health over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/ouh-labs/ouh/config"
	ledgergrpc "github.com/ouh-labs/ouh/grpc"
	"github.com/ouh-labs/ouh/ledger"
	"github.com/ouh-labs/ouh/observability"
	"github.com/ouh-labs/ouh/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ouhd: %v\n", err)
		os.Exit(1)
	}
}

// run boots the gRPC and HTTP listeners, blocking until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	observability.Init()

	genesis, err := cfg.GenesisState()
	if err != nil {
		return err
	}

	app := ledger.New(
		ledger.WithLogger(logger.Named("ledger")),
		ledger.WithProgramID(cfg.ProgramID),
		ledger.WithChainID(cfg.ChainID),
		ledger.WithGenesisState(genesis),
	)
	gs := ledgergrpc.NewGRPCServer(app, server.WithLogger(logger.Named("server")))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	gs.Register(grpcServer)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      newRouter(gs.Server()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 2)
	go func() {
		logger.Info("grpc server starting",
			zap.String("addr", cfg.GRPCAddr),
			zap.String("program_id", cfg.ProgramID.String()),
		)
		serverErr <- grpcServer.Serve(lis)
	}()
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", zap.Error(err))
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		logger.Warn("grpc graceful stop timed out")
		grpcServer.Stop()
	}

	logger.Info("shutdown complete")
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info", "":
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return cfg.Build()
}
