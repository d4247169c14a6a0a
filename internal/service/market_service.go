package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"paper_trade/internal/domain"

	"github.com/shopspring/decimal"
)

// SymbolView is one row of the market display: the last REST quote seen for
// a symbol plus the freshest streamed trade price, when any.
type SymbolView struct {
	Symbol    string
	Quote     *domain.Quote
	LastTrade decimal.Decimal
	TradeAt   time.Time
}

// MarketService caches market data for presentation: streamed last-trade
// prices and the quotes fetched on search. The ledger never reads from it;
// trades always hit the REST source for a fresh price.
type MarketService struct {
	mu     sync.RWMutex
	views  map[string]*SymbolView
	tickCh chan domain.Tick
}

// NewMarketService creates an empty market cache.
func NewMarketService() *MarketService {
	return &MarketService{
		views:  make(map[string]*SymbolView),
		tickCh: make(chan domain.Tick, 1000), // buffered against tick bursts
	}
}

// TickChan returns the channel the stream worker feeds.
func (s *MarketService) TickChan() chan domain.Tick {
	return s.tickCh
}

// StartTickProcessor consumes streamed ticks in the background until the
// context ends.
func (s *MarketService) StartTickProcessor(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case tick := <-s.tickCh:
				s.ProcessTick(tick)
			}
		}
	}()
}

// ProcessTick records one last-trade update. Thread-safe.
func (s *MarketService) ProcessTick(tick domain.Tick) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked(tick.Symbol)
	view.LastTrade = tick.Price
	view.TradeAt = tick.At
}

// RecordQuote caches the quote returned by a search.
func (s *MarketService) RecordQuote(quote *domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.viewLocked(quote.Symbol)
	view.Quote = quote
}

// viewLocked returns the view for a symbol, creating it if needed.
// Must be called with the lock held.
func (s *MarketService) viewLocked(symbol string) *SymbolView {
	view, ok := s.views[symbol]
	if !ok {
		view = &SymbolView{Symbol: symbol}
		s.views[symbol] = view
	}
	return view
}

// LastTrade returns the freshest streamed price for a symbol, if any.
func (s *MarketService) LastTrade(symbol string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	view, ok := s.views[symbol]
	if !ok || view.TradeAt.IsZero() {
		return decimal.Zero, false
	}
	return view.LastTrade, true
}

// Views returns copies of all cached rows sorted by symbol.
func (s *MarketService) Views() []SymbolView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]SymbolView, 0, len(s.views))
	for _, view := range s.views {
		result = append(result, *view)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})
	return result
}
