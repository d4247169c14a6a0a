package app

import (
	"log/slog"
	"time"

	"paper_trade/internal/domain"
	"paper_trade/internal/infra"
	"paper_trade/internal/infra/finnhub"
	"paper_trade/internal/infra/storage"
	"paper_trade/internal/service"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Registry *domain.Registry
	Finnhub  *finnhub.Client
	Market   *service.MarketService
	Trades   *service.TradeService
	Logos    *infra.LogoDownloader
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization: config, logger, storage,
// registry, and the trading services.
func (b *Bootstrap) Initialize() error {
	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("Database initialized")

	// 4. Rebuild the registry from the snapshot, then seed demo accounts.
	b.Registry = domain.NewRegistry()
	accounts, err := store.LoadAccounts()
	if err != nil {
		return err
	}
	for _, account := range accounts {
		b.Registry.Add(account)
	}
	slog.Info("Accounts restored", slog.Int("count", len(accounts)))

	b.seedAccounts()

	// 5. Quote source and services.
	b.Finnhub = finnhub.NewClient(
		cfg.Finnhub.BaseURL,
		cfg.Finnhub.APIKey,
		time.Duration(cfg.Finnhub.TimeoutSec)*time.Second,
	)
	b.Market = service.NewMarketService()
	b.Trades = service.NewTradeService(b.Finnhub, store)

	// 6. Logo cache is cosmetic; run without it if it cannot start.
	logos, err := infra.NewLogoDownloader()
	if err != nil {
		slog.Warn("Logo cache unavailable", slog.Any("error", err))
	} else {
		b.Logos = logos
	}

	return nil
}

// seedAccounts registers the configured demo accounts unless a snapshot of
// the same username already exists: a seed must not clobber live history.
func (b *Bootstrap) seedAccounts() {
	for _, seed := range b.Config.SeedAccounts {
		if b.Registry.Lookup(seed.Username) != nil {
			continue
		}
		account := b.Registry.Register(seed.Username, seed.Password, seed.Balance)
		if err := b.Storage.SaveAccount(account); err != nil {
			slog.Warn("Failed to persist seed account",
				slog.String("user", seed.Username), slog.Any("error", err))
		}
		slog.Info("Seed account created", slog.String("user", seed.Username))
	}
}

// PersistAccounts snapshots every registered account, typically at shutdown.
func (b *Bootstrap) PersistAccounts() {
	for _, account := range b.Registry.Accounts() {
		if err := b.Storage.SaveAccount(account); err != nil {
			slog.Error("Failed to persist account",
				slog.String("user", account.Username), slog.Any("error", err))
		}
	}
}
