package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"paper_trade/internal/domain"
	"paper_trade/internal/infra"

	"github.com/shopspring/decimal"
)

// TradeService sequences a trade: fetch a live price, validate the request,
// mutate the account. It is the only component that touches the price
// source, keeping Account and Position pure in-memory structures.
type TradeService struct {
	source  domain.PriceSource
	journal domain.TradeJournal // optional
	metrics *infra.Metrics
}

// NewTradeService creates a trade service. The journal may be nil; trades
// then simply go unrecorded.
func NewTradeService(source domain.PriceSource, journal domain.TradeJournal) *TradeService {
	return &TradeService{
		source:  source,
		journal: journal,
		metrics: infra.GlobalMetrics,
	}
}

// ExecuteBuy buys the requested quantity at the current live price.
// Nothing is debited when the quantity is invalid, the price source fails,
// or the account refuses the trade.
func (s *TradeService) ExecuteBuy(ctx context.Context, account *domain.Account, symbol string, quantity int64) (*domain.Trade, error) {
	if quantity <= 0 {
		s.metrics.RecordTradeRejected()
		return nil, domain.ErrInvalidQuantity
	}

	price, err := s.source.GetPrice(ctx, symbol)
	if err != nil {
		s.metrics.RecordTradeRejected()
		slog.Warn("Buy aborted: price fetch failed",
			slog.String("symbol", symbol), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}

	if err := account.Buy(symbol, quantity, price); err != nil {
		s.metrics.RecordTradeRejected()
		return nil, err
	}

	trade := &domain.Trade{
		Username:   account.Username,
		Symbol:     symbol,
		Side:       domain.SideBuy,
		Quantity:   quantity,
		Price:      price,
		Value:      price.Mul(decimal.NewFromInt(quantity)),
		ExecutedAt: time.Now(),
	}
	s.finishTrade(trade)
	return trade, nil
}

// ExecuteSell sells the requested quantity at the current live price.
// Same guarantees as ExecuteBuy: failure leaves the account untouched.
func (s *TradeService) ExecuteSell(ctx context.Context, account *domain.Account, symbol string, quantity int64) (*domain.Trade, error) {
	if quantity <= 0 {
		s.metrics.RecordTradeRejected()
		return nil, domain.ErrInvalidQuantity
	}

	price, err := s.source.GetPrice(ctx, symbol)
	if err != nil {
		s.metrics.RecordTradeRejected()
		slog.Warn("Sell aborted: price fetch failed",
			slog.String("symbol", symbol), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domain.ErrPriceUnavailable, err)
	}

	proceeds, err := account.Sell(symbol, quantity, price)
	if err != nil {
		s.metrics.RecordTradeRejected()
		return nil, err
	}

	trade := &domain.Trade{
		Username:   account.Username,
		Symbol:     symbol,
		Side:       domain.SideSell,
		Quantity:   quantity,
		Price:      price,
		Value:      proceeds,
		ExecutedAt: time.Now(),
	}
	s.finishTrade(trade)
	return trade, nil
}

// finishTrade journals and counts a completed trade. Journal failures are
// logged, never surfaced: the ledger already committed.
func (s *TradeService) finishTrade(trade *domain.Trade) {
	s.metrics.RecordTradeExecuted()

	if s.journal != nil {
		if err := s.journal.RecordTrade(trade); err != nil {
			slog.Error("Failed to journal trade",
				slog.String("user", trade.Username),
				slog.String("symbol", trade.Symbol),
				slog.Any("error", err))
		}
	}

	slog.Info("Trade executed",
		slog.String("user", trade.Username),
		slog.String("symbol", trade.Symbol),
		slog.String("side", trade.Side),
		slog.Int64("quantity", trade.Quantity),
		slog.String("price", trade.Price.String()),
	)
}
