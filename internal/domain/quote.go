package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a point-in-time snapshot of a symbol from the quote provider.
type Quote struct {
	Symbol    string          `json:"symbol"`
	Current   decimal.Decimal `json:"current"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	PrevClose decimal.Decimal `json:"prev_close"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// CompanyProfile is the provider's descriptive record for a symbol.
type CompanyProfile struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
	LogoURL  string `json:"logo_url"`
}

// Tick is a single last-trade update from the streaming feed.
type Tick struct {
	Symbol string
	Price  decimal.Decimal
	At     time.Time
}

const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Trade records one executed buy or sell for the journal.
type Trade struct {
	Username   string          `json:"username"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"` // "BUY", "SELL"
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
	Value      decimal.Decimal `json:"value"` // price * quantity
	ExecutedAt time.Time       `json:"executed_at"`
}
