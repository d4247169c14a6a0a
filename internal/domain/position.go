package domain

import "github.com/shopspring/decimal"

// Position is a single ticker's holding inside one account: the share count
// and the quantity-weighted average cost of the open shares.
// Invariant: Quantity == 0 implies AvgCost == 0. A position whose quantity
// reaches zero is removed from its owning account, never kept as a zero row.
type Position struct {
	Symbol   string          `json:"symbol"`
	Quantity int64           `json:"quantity"`
	AvgCost  decimal.Decimal `json:"avg_cost"`
}

// NewPosition opens a position on the first purchase of a symbol.
func NewPosition(symbol string, quantity int64, price decimal.Decimal) *Position {
	return &Position{Symbol: symbol, Quantity: quantity, AvgCost: price}
}

// AddShares folds a purchase into the weighted average cost:
// newAvg = (qty*avg + shares*price) / (qty+shares).
// Zero or negative share counts are ignored.
func (p *Position) AddShares(shares int64, price decimal.Decimal) {
	if shares <= 0 {
		return
	}

	currentValue := decimal.NewFromInt(p.Quantity).Mul(p.AvgCost)
	totalCost := decimal.NewFromInt(shares).Mul(price)

	p.Quantity += shares
	p.AvgCost = currentValue.Add(totalCost).Div(decimal.NewFromInt(p.Quantity))
}

// RemoveShares closes part or all of the position at the given price.
// It reports false without mutating anything when shares is non-positive
// or exceeds the held quantity. On success it returns the sale proceeds.
// A fully closed position carries no cost memory: re-opening the symbol
// starts a fresh average.
func (p *Position) RemoveShares(shares int64, price decimal.Decimal) (decimal.Decimal, bool) {
	if shares <= 0 || shares > p.Quantity {
		return decimal.Zero, false
	}

	proceeds := decimal.NewFromInt(shares).Mul(price)
	p.Quantity -= shares

	if p.Quantity == 0 {
		p.AvgCost = decimal.Zero
	}

	return proceeds, true
}

// MarketValue reports the holding valued at its cost basis (quantity * avg
// cost). Live market price is deliberately not used: the simulator does not
// compute unrealized P&L.
func (p *Position) MarketValue() decimal.Decimal {
	return decimal.NewFromInt(p.Quantity).Mul(p.AvgCost)
}
