package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccount_Deposit(t *testing.T) {
	acct := NewAccount("user1", "pw", decimal.NewFromInt(100))

	newBalance := acct.Deposit(decimal.NewFromFloat(25.50))
	if !newBalance.Equal(decimal.NewFromFloat(125.50)) {
		t.Errorf("balance after deposit = %s, want 125.5", newBalance)
	}

	t.Run("Ignores Non-Positive Amounts", func(t *testing.T) {
		before := acct.Balance()
		acct.Deposit(decimal.Zero)
		acct.Deposit(decimal.NewFromInt(-10))
		if !acct.Balance().Equal(before) {
			t.Errorf("balance changed by non-positive deposit: %s", acct.Balance())
		}
	})
}

func TestAccount_Buy(t *testing.T) {
	t.Run("Insufficient Funds Scenario", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromFloat(500.0))

		if err := acct.Buy("AAPL", 2, decimal.NewFromFloat(100.0)); err != nil {
			t.Fatalf("first buy failed: %v", err)
		}
		if !acct.Balance().Equal(decimal.NewFromFloat(300.0)) {
			t.Errorf("balance = %s, want 300", acct.Balance())
		}
		pos, ok := acct.Position("AAPL")
		if !ok || pos.Quantity != 2 || !pos.AvgCost.Equal(decimal.NewFromFloat(100.0)) {
			t.Errorf("position = %+v, want qty=2 avg=100", pos)
		}

		// 2 * 200 = 400 > 300: the balance must never go negative.
		err := acct.Buy("AAPL", 2, decimal.NewFromFloat(200.0))
		if !errors.Is(err, ErrInsufficientFunds) {
			t.Errorf("err = %v, want ErrInsufficientFunds", err)
		}
		if !acct.Balance().Equal(decimal.NewFromFloat(300.0)) {
			t.Errorf("balance changed on failed buy: %s", acct.Balance())
		}
		pos, _ = acct.Position("AAPL")
		if pos.Quantity != 2 {
			t.Errorf("position changed on failed buy: %+v", pos)
		}
	})

	t.Run("Exact Balance Is Allowed", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(300))

		if err := acct.Buy("AAPL", 3, decimal.NewFromInt(100)); err != nil {
			t.Fatalf("buy at exact balance failed: %v", err)
		}
		if !acct.Balance().IsZero() {
			t.Errorf("balance = %s, want 0", acct.Balance())
		}
	})

	t.Run("Defensive Quantity Guard", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(100))

		if err := acct.Buy("AAPL", 0, decimal.NewFromInt(10)); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("err = %v, want ErrInvalidQuantity", err)
		}
		if err := acct.Buy("AAPL", -5, decimal.NewFromInt(10)); !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("err = %v, want ErrInvalidQuantity", err)
		}
		if !acct.Balance().Equal(decimal.NewFromInt(100)) {
			t.Errorf("balance changed on rejected buy: %s", acct.Balance())
		}
	})

	t.Run("Second Buy Folds Into Existing Position", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(1000))

		acct.Buy("AAPL", 2, decimal.NewFromInt(100))
		acct.Buy("AAPL", 2, decimal.NewFromInt(200))

		pos, _ := acct.Position("AAPL")
		if pos.Quantity != 4 || !pos.AvgCost.Equal(decimal.NewFromInt(150)) {
			t.Errorf("position = %+v, want qty=4 avg=150", pos)
		}
		if len(acct.Positions()) != 1 {
			t.Errorf("positions = %d, want 1", len(acct.Positions()))
		}
	})
}

func TestAccount_Sell(t *testing.T) {
	t.Run("Unknown Symbol", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(100))

		_, err := acct.Sell("TSLA", 1, decimal.NewFromInt(50))
		if !errors.Is(err, ErrSymbolNotFound) {
			t.Errorf("err = %v, want ErrSymbolNotFound", err)
		}
	})

	t.Run("Oversell Leaves State Unchanged", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(1000))
		acct.Buy("AAPL", 3, decimal.NewFromInt(100))
		balanceBefore := acct.Balance()

		_, err := acct.Sell("AAPL", 5, decimal.NewFromInt(120))
		if !errors.Is(err, ErrInsufficientShares) {
			t.Errorf("err = %v, want ErrInsufficientShares", err)
		}
		if !acct.Balance().Equal(balanceBefore) {
			t.Errorf("balance changed on failed sell: %s", acct.Balance())
		}
		pos, _ := acct.Position("AAPL")
		if pos.Quantity != 3 {
			t.Errorf("quantity changed on failed sell: %d", pos.Quantity)
		}
	})

	t.Run("Full Sale Removes Position", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromInt(1000))
		acct.Buy("AAPL", 3, decimal.NewFromInt(100))

		proceeds, err := acct.Sell("AAPL", 3, decimal.NewFromInt(100))
		if err != nil {
			t.Fatalf("sell failed: %v", err)
		}
		if !proceeds.Equal(decimal.NewFromInt(300)) {
			t.Errorf("proceeds = %s, want 300", proceeds)
		}
		if _, ok := acct.Position("AAPL"); ok {
			t.Error("position should be removed after full sale")
		}
	})

	t.Run("Round Trip Restores Balance", func(t *testing.T) {
		acct := NewAccount("user1", "pw", decimal.NewFromFloat(987.65))
		price := decimal.NewFromFloat(43.21)

		if err := acct.Buy("MSFT", 7, price); err != nil {
			t.Fatalf("buy failed: %v", err)
		}
		if _, err := acct.Sell("MSFT", 7, price); err != nil {
			t.Fatalf("sell failed: %v", err)
		}

		if !acct.Balance().Equal(decimal.NewFromFloat(987.65)) {
			t.Errorf("balance = %s, want 987.65 after round trip", acct.Balance())
		}
		if len(acct.Positions()) != 0 {
			t.Errorf("positions = %d, want 0 after round trip", len(acct.Positions()))
		}
	})
}

func TestAccount_Valuation(t *testing.T) {
	acct := NewAccount("user1", "pw", decimal.NewFromInt(1000))
	acct.Buy("AAPL", 2, decimal.NewFromInt(100)) // 200 at cost
	acct.Buy("MSFT", 3, decimal.NewFromInt(50))  // 150 at cost

	if !acct.PortfolioValue().Equal(decimal.NewFromInt(350)) {
		t.Errorf("PortfolioValue = %s, want 350", acct.PortfolioValue())
	}
	// 650 cash remaining + 350 at cost
	if !acct.TotalValue().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("TotalValue = %s, want 1000", acct.TotalValue())
	}

	positions := acct.Positions()
	if len(positions) != 2 || positions[0].Symbol != "AAPL" || positions[1].Symbol != "MSFT" {
		t.Errorf("Positions not sorted by symbol: %+v", positions)
	}
}

func TestAccount_RestorePosition(t *testing.T) {
	acct := NewAccount("user1", "pw", decimal.NewFromInt(100))

	acct.RestorePosition(Position{Symbol: "AAPL", Quantity: 5, AvgCost: decimal.NewFromInt(20)})
	acct.RestorePosition(Position{Symbol: "GHOST", Quantity: 0, AvgCost: decimal.Zero})

	if pos, ok := acct.Position("AAPL"); !ok || pos.Quantity != 5 {
		t.Errorf("restored position missing or wrong: %+v", pos)
	}
	if _, ok := acct.Position("GHOST"); ok {
		t.Error("zero-quantity row should not be restored")
	}
}
