package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// QuoteError represents a failure while talking to the quote provider.
// Transport errors and bad payloads are retriable; a symbol the provider
// does not recognize is not.
type QuoteError struct {
	Op        string // Operation that failed (e.g., "quote", "profile")
	Symbol    string
	Err       error // Underlying error
	Retriable bool
}

func (e *QuoteError) Error() string {
	return e.Op + " " + e.Symbol + ": " + e.Err.Error()
}

func (e *QuoteError) IsRetriable() bool {
	return e.Retriable
}

func (e *QuoteError) Unwrap() error {
	return e.Err
}

// NewQuoteError creates a retriable quote provider error
func NewQuoteError(op, symbol string, err error) *QuoteError {
	return &QuoteError{Op: op, Symbol: symbol, Err: err, Retriable: true}
}

// NewFatalQuoteError creates a non-retriable quote provider error
func NewFatalQuoteError(op, symbol string, err error) *QuoteError {
	return &QuoteError{Op: op, Symbol: symbol, Err: err, Retriable: false}
}

// ConfigError represents a configuration error (never retriable)
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return "config error [" + e.Field + "]: " + e.Err.Error()
}

func (e *ConfigError) IsRetriable() bool {
	return false
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	// ErrInvalidQuantity is returned when a trade requests zero or negative shares.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInsufficientFunds is returned when a buy costs more than the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares is returned when a sell exceeds the shares held.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrSymbolNotFound is returned when selling a symbol the account does not hold.
	ErrSymbolNotFound = errors.New("symbol not found in portfolio")

	// ErrPriceUnavailable is returned when the quote provider cannot supply a price.
	// The trade is not executed; the failure is never fatal to the process.
	ErrPriceUnavailable = errors.New("price unavailable")

	// ErrAuthFailed is returned on an unknown username or a credential mismatch.
	// The two cases are deliberately indistinguishable to the caller.
	ErrAuthFailed = errors.New("invalid credentials")
)
