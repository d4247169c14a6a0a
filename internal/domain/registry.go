package domain

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// Registry is the in-memory account book: username -> account, unique keys.
// It is an explicit dependency handed to whoever needs account access,
// never a package-level singleton.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*Account
}

// NewRegistry creates an empty account registry.
func NewRegistry() *Registry {
	return &Registry{
		accounts: make(map[string]*Account),
	}
}

// Register creates an account and inserts it. Registering an existing
// username replaces the old account (last write wins).
func (r *Registry) Register(username, password string, initialBalance decimal.Decimal) *Account {
	account := NewAccount(username, password, initialBalance)
	r.Add(account)
	return account
}

// Add inserts an already-built account, e.g. one rebuilt from a snapshot.
// Last write wins on duplicate usernames.
func (r *Registry) Add(account *Account) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[account.Username] = account
}

// Authenticate returns the account when the username exists and the stored
// credential matches exactly. Plain string equality, no hashing: the
// original weak-equality contract is preserved and is not production-grade.
func (r *Registry) Authenticate(username, password string) (*Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[username]
	if !ok || account.Password != password {
		return nil, ErrAuthFailed
	}
	return account, nil
}

// Lookup returns the account for a username, or nil when absent.
func (r *Registry) Lookup(username string) *Account {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.accounts[username]
}

// Remove deletes an account. Removing an unknown username is a no-op.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.accounts, username)
}

// Accounts returns all accounts sorted by username, for persistence walks
// and diagnostics.
func (r *Registry) Accounts() []*Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		result = append(result, account)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Username < result[j].Username
	})
	return result
}

// Len reports the number of registered accounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}
