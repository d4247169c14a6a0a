package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"paper_trade/internal/domain"
	"paper_trade/internal/service"

	"github.com/shopspring/decimal"
)

type scriptedSource struct {
	prices map[string]decimal.Decimal
}

func (f *scriptedSource) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, domain.ErrPriceUnavailable
	}
	return price, nil
}

func (f *scriptedSource) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	price, err := f.GetPrice(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return &domain.Quote{
		Symbol:    symbol,
		Current:   price,
		High:      price.Add(decimal.NewFromInt(1)),
		Low:       price.Sub(decimal.NewFromInt(1)),
		PrevClose: price,
	}, nil
}

func runSession(t *testing.T, registry *domain.Registry, prices map[string]decimal.Decimal, script ...string) string {
	t.Helper()
	source := &scriptedSource{prices: prices}
	trades := service.NewTradeService(source, nil)
	market := service.NewMarketService()

	var out bytes.Buffer
	sh := New(strings.NewReader(strings.Join(script, "\n")+"\n"), &out,
		registry, trades, market, source, Options{})
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	return out.String()
}

func TestShell_FullSession(t *testing.T) {
	registry := domain.NewRegistry()
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	out := runSession(t, registry, prices,
		"2", "bob", "pw", "500", // create account
		"1", "bob", "pw", // sign in
		"2", "AAPL", "2", // buy 2 @ 100
		"4", // view portfolio
		"5", "100", // deposit
		"3", "AAPL", "1", // sell 1 @ 100
		"7", // sign out
		"3", // exit
	)

	for _, want := range []string{
		"Account created successfully!",
		"Sign in successful!",
		"Current price: 100.00",
		"Purchased 2 shares of AAPL at $100.00 per share.",
		"Total Portfolio Value: $200.00",
		"Total Account Value: $500.00",
		"Deposited $100.00. New balance: $400.00",
		"Sold 1 shares of AAPL at $100.00 per share.",
		"Proceeds: $100.00",
		"Signed out successfully!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n---\n%s", want, out)
		}
	}

	acct := registry.Lookup("bob")
	if acct == nil {
		t.Fatal("account missing after session")
	}
	if !acct.Balance().Equal(decimal.NewFromInt(500)) {
		t.Errorf("final balance = %s, want 500", acct.Balance())
	}
	pos, ok := acct.Position("AAPL")
	if !ok || pos.Quantity != 1 {
		t.Errorf("final position = %+v, want qty=1", pos)
	}
}

func TestShell_InvalidCredentials(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("bob", "pw", decimal.NewFromInt(100))

	out := runSession(t, registry, nil,
		"1", "bob", "wrong",
		"3",
	)

	if !strings.Contains(out, "Invalid credentials!") {
		t.Errorf("output missing auth failure message\n---\n%s", out)
	}
}

func TestShell_InsufficientFunds(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("bob", "pw", decimal.NewFromInt(100))
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(100)}

	out := runSession(t, registry, prices,
		"1", "bob", "pw",
		"2", "AAPL", "5", // costs 500, only 100 available
		"7", "3",
	)

	if !strings.Contains(out, "Insufficient funds!") {
		t.Errorf("output missing funds failure message\n---\n%s", out)
	}
	if !registry.Lookup("bob").Balance().Equal(decimal.NewFromInt(100)) {
		t.Error("balance changed by rejected buy")
	}
}

func TestShell_InvalidQuantityInput(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("bob", "pw", decimal.NewFromInt(100))
	prices := map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(10)}

	out := runSession(t, registry, prices,
		"1", "bob", "pw",
		"2", "AAPL", "0",
		"2", "AAPL", "abc",
		"7", "3",
	)

	if strings.Count(out, "Invalid quantity!") != 2 {
		t.Errorf("expected two quantity rejections\n---\n%s", out)
	}
}

func TestShell_PriceUnavailable(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("bob", "pw", decimal.NewFromInt(100))

	// No prices at all: search and buy both degrade gracefully.
	out := runSession(t, registry, nil,
		"1", "bob", "pw",
		"1", "AAPL",
		"2", "AAPL",
		"7", "3",
	)

	if !strings.Contains(out, "Could not fetch quote for AAPL") {
		t.Errorf("output missing quote failure message\n---\n%s", out)
	}
}

func TestShell_EmptyPortfolioAndEOF(t *testing.T) {
	registry := domain.NewRegistry()
	registry.Register("bob", "pw", decimal.NewFromInt(42))

	// Input ends mid-session; Run still returns cleanly.
	out := runSession(t, registry, nil,
		"1", "bob", "pw",
		"4",
	)

	if !strings.Contains(out, "Portfolio is empty.") {
		t.Errorf("output missing empty portfolio message\n---\n%s", out)
	}
	if !strings.Contains(out, "Current Balance: $42.00") {
		t.Errorf("output missing balance line\n---\n%s", out)
	}
}
