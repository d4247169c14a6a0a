package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"paper_trade/internal/app"
	"paper_trade/internal/infra"
	"paper_trade/internal/infra/finnhub"
	"paper_trade/internal/shell"
)

func main() {
	// 1. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		fmt.Fprintln(os.Stderr, "Bootstrapping failed:", err)
		os.Exit(1)
	}

	// 2. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bootstrap.Config
	infra.PrintBanner(os.Stdout, cfg)

	// 3. Trade stream for the watchlist (optional)
	if len(cfg.Finnhub.Watchlist) > 0 {
		bootstrap.Market.StartTickProcessor(ctx)

		worker := finnhub.NewStreamWorker(
			cfg.Finnhub.WSURL,
			cfg.Finnhub.APIKey,
			cfg.Finnhub.Watchlist,
			bootstrap.Market.TickChan(),
		)
		if err := worker.Connect(ctx); err != nil {
			slog.Warn("Trade stream unavailable", slog.Any("error", err))
		} else {
			defer worker.Disconnect()
			slog.Info("Trade stream started", slog.Int("symbols", len(cfg.Finnhub.Watchlist)))
		}
	}

	// 4. Interactive session
	opts := shell.Options{
		Profiles: bootstrap.Finnhub,
		Journal:  bootstrap.Storage,
		Saver:    bootstrap.Storage,
	}
	if bootstrap.Logos != nil {
		opts.Logos = bootstrap.Logos
	}
	sh := shell.New(os.Stdin, os.Stdout, bootstrap.Registry, bootstrap.Trades,
		bootstrap.Market, bootstrap.Finnhub, opts)

	if err := sh.Run(ctx); err != nil {
		slog.Error("Session ended with error", slog.Any("error", err))
	}

	// 5. Final snapshot before exit
	bootstrap.PersistAccounts()
	slog.Info("Goodbye")
}
