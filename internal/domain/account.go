package domain

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Account is one user's ledger: a cash balance plus the positions it owns.
// Positions are owned exclusively; they are never shared across accounts.
// Every method takes the account's own lock, so a future multi-account
// caller needs no coordination beyond holding distinct accounts.
//
// Password is an opaque string compared by plain equality. This is not
// production-grade credential handling; the simulator keeps the original
// weak-equality contract on purpose.
type Account struct {
	Username string
	Password string

	mu        sync.Mutex
	balance   decimal.Decimal
	positions map[string]*Position
}

// NewAccount creates an account with an initial cash balance.
func NewAccount(username, password string, initialBalance decimal.Decimal) *Account {
	return &Account{
		Username:  username,
		Password:  password,
		balance:   initialBalance,
		positions: make(map[string]*Position),
	}
}

// Balance returns the current cash balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// Deposit adds funds and returns the new balance. Zero or negative amounts
// are ignored. Presentation is the caller's job; no I/O happens here.
func (a *Account) Deposit(amount decimal.Decimal) decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.IsPositive() {
		a.balance = a.balance.Add(amount)
	}
	return a.balance
}

// Buy debits price*quantity from the cash balance and folds the shares into
// the symbol's position, opening one if needed. The quantity guard belongs
// to the trade service, but a direct call with quantity <= 0 would corrupt
// the average-cost math, so it is rejected here as well.
// On any failure, balance and positions are left untouched.
func (a *Account) Buy(symbol string, quantity int64, price decimal.Decimal) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	totalCost := price.Mul(decimal.NewFromInt(quantity))
	if totalCost.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}

	a.balance = a.balance.Sub(totalCost)

	if pos, ok := a.positions[symbol]; ok {
		pos.AddShares(quantity, price)
	} else {
		a.positions[symbol] = NewPosition(symbol, quantity, price)
	}
	return nil
}

// Sell removes shares from the symbol's position at the given price and
// credits the proceeds. A position emptied by the sale is deleted.
// On any failure, balance and positions are left untouched.
func (a *Account) Sell(symbol string, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.positions[symbol]
	if !ok {
		return decimal.Zero, ErrSymbolNotFound
	}

	proceeds, ok := pos.RemoveShares(quantity, price)
	if !ok {
		return decimal.Zero, ErrInsufficientShares
	}

	a.balance = a.balance.Add(proceeds)
	if pos.Quantity == 0 {
		delete(a.positions, symbol)
	}
	return proceeds, nil
}

// Position returns a copy of the holding for a symbol, if any.
func (a *Account) Position(symbol string) (Position, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	pos, ok := a.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions returns copies of all holdings sorted by symbol for consistent
// presentation.
func (a *Account) Positions() []Position {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := make([]Position, 0, len(a.positions))
	for _, pos := range a.positions {
		result = append(result, *pos)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})
	return result
}

// PortfolioValue sums every position's value at cost basis.
func (a *Account) PortfolioValue() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.portfolioValueLocked()
}

// TotalValue is portfolio value plus cash.
func (a *Account) TotalValue() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.portfolioValueLocked().Add(a.balance)
}

func (a *Account) portfolioValueLocked() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range a.positions {
		total = total.Add(pos.MarketValue())
	}
	return total
}

// RestorePosition installs a holding loaded from a snapshot. Rows that
// violate the position invariant (zero quantity) are dropped rather than
// resurrected.
func (a *Account) RestorePosition(pos Position) {
	if pos.Quantity <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.positions[pos.Symbol] = &Position{
		Symbol:   pos.Symbol,
		Quantity: pos.Quantity,
		AvgCost:  pos.AvgCost,
	}
}
