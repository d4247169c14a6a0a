package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceSource is the external quote capability consumed by the trade
// service. Implementations talk to the network; the ledger never does,
// so tests can substitute a deterministic fake.
type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// ProfileSource resolves a symbol's descriptive company record.
type ProfileSource interface {
	GetProfile(ctx context.Context, symbol string) (*CompanyProfile, error)
}

// TradeJournal records completed trades for later review.
type TradeJournal interface {
	RecordTrade(trade *Trade) error
	RecentTrades(username string, limit int) ([]Trade, error)
}

// TickStream delivers last-trade updates for a set of symbols.
type TickStream interface {
	Connect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
}
