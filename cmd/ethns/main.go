// Command ethns runs a standalone registrar controller backed by the
// in-memory reference registry, exposing the ens_ JSON-RPC API.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethns/ethns/core/types"
	"github.com/ethns/ethns/log"
	"github.com/ethns/ethns/registrar"
	"github.com/ethns/ethns/rpc"
)

func main() {
	cfg := registrar.DefaultConfig()

	var (
		rpcPort  = flag.Int("rpc-port", 8560, "HTTP-RPC server listening port")
		admin    = flag.String("admin", "", "administrator address for withdrawals (hex)")
		logLevel = flag.String("log-level", "info", "log verbosity (debug, info, warn, error)")
	)
	flag.StringVar(&cfg.ParentName, "parent", cfg.ParentName, "parent namespace for registrations")
	flag.Uint64Var(&cfg.MinCommitmentAge, "min-commitment-age", cfg.MinCommitmentAge, "reveal delay in seconds")
	flag.Uint64Var(&cfg.MaxCommitmentAge, "max-commitment-age", cfg.MaxCommitmentAge, "reveal deadline in seconds")
	flag.Uint64Var(&cfg.MinRegistrationDuration, "min-duration", cfg.MinRegistrationDuration, "minimum registration length in seconds")
	flag.Parse()

	if *admin != "" {
		cfg.Admin = types.HexToAddress(*admin)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.New(log.ParseLevel(*logLevel))
	log.SetDefault(logger)

	store, err := registrar.NewCommitmentStore(cfg.MinCommitmentAge, cfg.MaxCommitmentAge)
	if err != nil {
		logger.Error("failed to create commitment store", "err", err)
		os.Exit(1)
	}
	backend := registrar.NewMemoryBackend(nil)
	ctl, err := registrar.New(cfg, store, backend, logger)
	if err != nil {
		logger.Error("failed to create controller", "err", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *rpcPort),
		Handler: rpc.NewServer(ctl, logger).Handler(),
	}
	go func() {
		logger.Info("rpc server listening", "addr", srv.Addr, "parent", cfg.ParentName)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("rpc server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("received shutdown signal")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", "err", err)
		os.Exit(1)
	}
}
