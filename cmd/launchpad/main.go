// Copyright (c) 2024 The Launchpad developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/idohub/launchpad/api"
	"github.com/idohub/launchpad/contract"
	"github.com/idohub/launchpad/kv"
	"github.com/idohub/launchpad/launch"
	"github.com/idohub/launchpad/ledger"
	"github.com/idohub/launchpad/log"
	"github.com/idohub/launchpad/metrics"
	"github.com/idohub/launchpad/oracle"
)

var (
	version   string
	gitCommit string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%.8s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "launchpad",
		Usage:   "token sale platform state machine",
		Flags: []cli.Flag{
			dataDirFlag,
			memFlag,
			genesisFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			pprofFlag,
			cacheFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		server := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		defer server.Close()
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if closer, ok := store.(kv.StoreCloser); ok {
		defer func() {
			logger.Info("closing state database...")
			closer.Close()
		}()
	}

	genesisPath := ctx.String(genesisFlag.Name)
	if genesisPath == "" {
		return errors.New("genesis config is required")
	}
	cfg, nativePerUSD, err := loadGenesis(genesisPath)
	if err != nil {
		return err
	}
	rate, err := oracle.NewFixedRate(nativePerUSD)
	if err != nil {
		return err
	}

	runtime := contract.New(store, rate, noDelegation{})
	if err := runtime.Initialize(cfg); err != nil {
		if !errors.Is(err, contract.ErrAlreadyInitialized) {
			return err
		}
		logger.Info("state already initialized, keeping existing config")
	} else {
		logger.Info("initialized state from genesis", "admin", cfg.Admin)
	}

	handler := api.New(runtime, api.Options{
		AllowedOrigins: ctx.String(apiCorsFlag.Name),
		PprofOn:        ctx.Bool(pprofFlag.Name),
		EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
	})
	server := &http.Server{
		Addr:              ctx.String(apiAddrFlag.Name),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("API service started", "addr", server.Addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		logger.Info("shutting down...", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func initLogger(ctx *cli.Context) {
	level := slog.LevelInfo
	switch ctx.Int(verbosityFlag.Name) {
	case 0:
		level = slog.LevelError + 4
	case 1:
		level = slog.LevelError
	case 2:
		level = slog.LevelWarn
	case 3:
		level = slog.LevelInfo
	default:
		level = slog.LevelDebug
	}

	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.SetHandler(log.NewTextHandler(os.Stderr, level))
	} else {
		log.SetHandler(log.NewJSONHandler(os.Stderr, level))
	}
}

func openStore(ctx *cli.Context) (kv.Store, error) {
	if ctx.Bool(memFlag.Name) {
		return kv.NewMem(), nil
	}
	dir := ctx.String(dataDirFlag.Name)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "create data dir")
	}
	store, err := kv.NewLevelDB(filepath.Join(dir, "main.db"), ctx.Int(cacheFlag.Name))
	if err != nil {
		return nil, err
	}
	return store, nil
}

func startMetricsServer(addr string) *http.Server {
	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("metrics service started", "addr", addr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			logger.Warn("metrics service stopped", "err", err)
		}
	}()
	return server
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".launchpad"
	}
	return filepath.Join(home, ".launchpad")
}

// noDelegation is the staking view of a host without an attached ledger.
type noDelegation struct{}

func (noDelegation) Delegation(launch.Address) (*ledger.Delegation, error) {
	return nil, nil
}
