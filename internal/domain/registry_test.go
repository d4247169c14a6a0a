package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRegistry_Authenticate(t *testing.T) {
	reg := NewRegistry()
	reg.Register("bob", "pw", decimal.NewFromFloat(1000.0))

	t.Run("Wrong Password", func(t *testing.T) {
		_, err := reg.Authenticate("bob", "wrong")
		if !errors.Is(err, ErrAuthFailed) {
			t.Errorf("err = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("Unknown Username", func(t *testing.T) {
		_, err := reg.Authenticate("alice", "pw")
		if !errors.Is(err, ErrAuthFailed) {
			t.Errorf("err = %v, want ErrAuthFailed", err)
		}
	})

	t.Run("Valid Credentials", func(t *testing.T) {
		acct, err := reg.Authenticate("bob", "pw")
		if err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}
		if acct.Username != "bob" || !acct.Balance().Equal(decimal.NewFromFloat(1000.0)) {
			t.Errorf("wrong account returned: %s %s", acct.Username, acct.Balance())
		}
	})
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	reg := NewRegistry()
	reg.Register("bob", "pw", decimal.NewFromInt(100))
	reg.Register("bob", "pw2", decimal.NewFromInt(999))

	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1 (last write wins)", reg.Len())
	}

	acct := reg.Lookup("bob")
	if acct == nil {
		t.Fatal("lookup returned nil")
	}
	if acct.Password != "pw2" || !acct.Balance().Equal(decimal.NewFromInt(999)) {
		t.Errorf("duplicate registration did not overwrite: %+v", acct)
	}
}

func TestRegistry_LookupAndRemove(t *testing.T) {
	reg := NewRegistry()

	if reg.Lookup("nobody") != nil {
		t.Error("Lookup of unknown username should return nil")
	}

	reg.Register("bob", "pw", decimal.NewFromInt(100))
	reg.Register("alice", "pw", decimal.NewFromInt(200))

	accounts := reg.Accounts()
	if len(accounts) != 2 || accounts[0].Username != "alice" || accounts[1].Username != "bob" {
		t.Errorf("Accounts not sorted by username: %v", accounts)
	}

	reg.Remove("bob")
	if reg.Lookup("bob") != nil {
		t.Error("removed account still present")
	}
	reg.Remove("bob") // second remove is a no-op
	if reg.Len() != 1 {
		t.Errorf("Len = %d, want 1", reg.Len())
	}
}
