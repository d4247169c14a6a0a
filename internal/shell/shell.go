// Package shell is the interactive menu loop. It owns all console I/O;
// ledger components only return values, so the whole surface can be driven
// by scripted input in tests.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"paper_trade/internal/domain"
	"paper_trade/internal/service"

	"github.com/shopspring/decimal"
)

// SnapshotSaver mirrors ledger changes into durable storage. Saving is
// best-effort: a failed save never blocks the session.
type SnapshotSaver interface {
	SaveAccount(account *domain.Account) error
	SaveSetting(key, value string) error
}

// LogoFetcher caches a company logo locally.
type LogoFetcher interface {
	DownloadLogo(symbol, logoURL string) (string, error)
}

// Shell runs the menu-driven session against one registry.
type Shell struct {
	in       *bufio.Scanner
	out      io.Writer
	registry *domain.Registry
	trades   *service.TradeService
	market   *service.MarketService
	quotes   domain.PriceSource
	profiles domain.ProfileSource // optional
	journal  domain.TradeJournal  // optional
	saver    SnapshotSaver        // optional
	logos    LogoFetcher          // optional

	current *domain.Account
}

// Options carries the optional collaborators of a Shell.
type Options struct {
	Profiles domain.ProfileSource
	Journal  domain.TradeJournal
	Saver    SnapshotSaver
	Logos    LogoFetcher
}

// New builds a shell reading commands from in and writing to out.
func New(in io.Reader, out io.Writer, registry *domain.Registry, trades *service.TradeService,
	market *service.MarketService, quotes domain.PriceSource, opts Options) *Shell {
	return &Shell{
		in:       bufio.NewScanner(in),
		out:      out,
		registry: registry,
		trades:   trades,
		market:   market,
		quotes:   quotes,
		profiles: opts.Profiles,
		journal:  opts.Journal,
		saver:    opts.Saver,
		logos:    opts.Logos,
	}
}

// Run drives the menu loop until the user exits or input ends. Both paths
// are a normal termination.
func (s *Shell) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if s.current == nil {
			if !s.signedOutMenu(ctx) {
				return nil
			}
		} else {
			s.signedInMenu(ctx)
		}
	}
}

// signedOutMenu returns false when the session should end.
func (s *Shell) signedOutMenu(ctx context.Context) bool {
	fmt.Fprint(s.out, "\n1. Sign In\n2. Create Account\n3. Exit\nChoice: ")
	choice, ok := s.readLine()
	if !ok {
		return false
	}

	switch choice {
	case "1":
		s.signIn()
	case "2":
		s.createAccount()
	case "3":
		return false
	default:
		fmt.Fprintln(s.out, "Invalid choice!")
	}
	return true
}

func (s *Shell) signedInMenu(ctx context.Context) {
	fmt.Fprint(s.out, "\n1. Search Stock\n2. Buy Stock\n3. Sell Stock"+
		"\n4. View Portfolio\n5. Deposit Funds\n6. Trade History\n7. Sign Out"+
		"\nChoice: ")
	choice, ok := s.readLine()
	if !ok {
		s.current = nil
		return
	}

	switch choice {
	case "1":
		s.searchStock(ctx)
	case "2":
		s.buyStock(ctx)
	case "3":
		s.sellStock(ctx)
	case "4":
		s.viewPortfolio()
	case "5":
		s.depositFunds()
	case "6":
		s.tradeHistory()
	case "7":
		s.signOut()
	default:
		fmt.Fprintln(s.out, "Invalid choice!")
	}
}

func (s *Shell) signIn() {
	username, ok := s.promptLine("Enter username: ")
	if !ok {
		return
	}
	password, ok := s.promptLine("Enter password: ")
	if !ok {
		return
	}

	account, err := s.registry.Authenticate(username, password)
	if err != nil {
		fmt.Fprintln(s.out, "Invalid credentials!")
		return
	}

	s.current = account
	fmt.Fprintln(s.out, "Sign in successful!")
	if s.saver != nil {
		if err := s.saver.SaveSetting("last_user", username); err != nil {
			slog.Debug("Failed to save last user", slog.Any("error", err))
		}
	}
}

func (s *Shell) signOut() {
	s.current = nil
	fmt.Fprintln(s.out, "Signed out successfully!")
}

func (s *Shell) createAccount() {
	username, ok := s.promptLine("Enter username: ")
	if !ok || username == "" {
		fmt.Fprintln(s.out, "Invalid username!")
		return
	}
	password, ok := s.promptLine("Enter password: ")
	if !ok {
		return
	}
	balanceStr, ok := s.promptLine("Enter initial balance: ")
	if !ok {
		return
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil || balance.IsNegative() {
		fmt.Fprintln(s.out, "Invalid balance!")
		return
	}

	account := s.registry.Register(username, password, balance)
	s.saveAccount(account)
	fmt.Fprintln(s.out, "Account created successfully!")
}

func (s *Shell) searchStock(ctx context.Context) {
	symbol, ok := s.promptSymbol()
	if !ok {
		return
	}

	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		fmt.Fprintln(s.out, "Could not fetch quote for", symbol)
		return
	}
	s.market.RecordQuote(quote)
	s.printQuote(quote)

	if last, ok := s.market.LastTrade(symbol); ok {
		fmt.Fprintf(s.out, "Last streamed trade: $%s\n", last.StringFixed(2))
	}

	if s.profiles != nil {
		profile, err := s.profiles.GetProfile(ctx, symbol)
		if err == nil {
			fmt.Fprintf(s.out, "Company: %s (%s)\n", profile.Name, profile.Exchange)
			if s.logos != nil && profile.LogoURL != "" {
				if _, err := s.logos.DownloadLogo(symbol, profile.LogoURL); err != nil {
					slog.Debug("Logo download failed", slog.String("symbol", symbol), slog.Any("error", err))
				}
			}
		}
	}
}

func (s *Shell) buyStock(ctx context.Context) {
	symbol, ok := s.promptSymbol()
	if !ok {
		return
	}

	// Show the quote before asking for a quantity, as the original does.
	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		fmt.Fprintln(s.out, "Could not fetch quote for", symbol)
		return
	}
	s.market.RecordQuote(quote)
	s.printQuote(quote)

	quantity, ok := s.promptQuantity("Enter quantity to purchase: ")
	if !ok {
		return
	}

	trade, err := s.trades.ExecuteBuy(ctx, s.current, symbol, quantity)
	if err != nil {
		s.printTradeError(err)
		return
	}

	fmt.Fprintf(s.out, "Purchased %d shares of %s at $%s per share.\n",
		trade.Quantity, trade.Symbol, trade.Price.StringFixed(2))
	s.saveAccount(s.current)
}

func (s *Shell) sellStock(ctx context.Context) {
	symbol, ok := s.promptSymbol()
	if !ok {
		return
	}

	quote, err := s.quotes.GetQuote(ctx, symbol)
	if err != nil {
		fmt.Fprintln(s.out, "Could not fetch quote for", symbol)
		return
	}
	s.market.RecordQuote(quote)
	s.printQuote(quote)

	quantity, ok := s.promptQuantity("Enter quantity to sell: ")
	if !ok {
		return
	}

	trade, err := s.trades.ExecuteSell(ctx, s.current, symbol, quantity)
	if err != nil {
		s.printTradeError(err)
		return
	}

	fmt.Fprintf(s.out, "Sold %d shares of %s at $%s per share.\n",
		trade.Quantity, trade.Symbol, trade.Price.StringFixed(2))
	fmt.Fprintf(s.out, "Proceeds: $%s\n", trade.Value.StringFixed(2))
	s.saveAccount(s.current)
}

func (s *Shell) viewPortfolio() {
	positions := s.current.Positions()
	if len(positions) == 0 {
		fmt.Fprintln(s.out, "Portfolio is empty.")
		fmt.Fprintf(s.out, "Current Balance: $%s\n", s.current.Balance().StringFixed(2))
		return
	}

	fmt.Fprintf(s.out, "\nPortfolio for %s:\n", s.current.Username)
	fmt.Fprintf(s.out, "Current Balance: $%s\n", s.current.Balance().StringFixed(2))
	fmt.Fprintln(s.out, "\nStocks:")
	for _, pos := range positions {
		fmt.Fprintf(s.out, "Symbol: %s, Quantity: %d, Average Price: $%s, Total Value: $%s\n",
			pos.Symbol, pos.Quantity, pos.AvgCost.StringFixed(2), pos.MarketValue().StringFixed(2))
	}
	fmt.Fprintf(s.out, "\nTotal Portfolio Value: $%s\n", s.current.PortfolioValue().StringFixed(2))
	fmt.Fprintf(s.out, "Total Account Value: $%s\n", s.current.TotalValue().StringFixed(2))
}

func (s *Shell) depositFunds() {
	amountStr, ok := s.promptLine("Enter amount to deposit: $")
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil || !amount.IsPositive() {
		fmt.Fprintln(s.out, "Invalid amount!")
		return
	}

	newBalance := s.current.Deposit(amount)
	fmt.Fprintf(s.out, "Deposited $%s. New balance: $%s\n",
		amount.StringFixed(2), newBalance.StringFixed(2))
	s.saveAccount(s.current)
}

func (s *Shell) tradeHistory() {
	if s.journal == nil {
		fmt.Fprintln(s.out, "Trade history is not available.")
		return
	}

	trades, err := s.journal.RecentTrades(s.current.Username, 20)
	if err != nil {
		fmt.Fprintln(s.out, "Could not load trade history.")
		slog.Warn("Trade history lookup failed", slog.Any("error", err))
		return
	}
	if len(trades) == 0 {
		fmt.Fprintln(s.out, "No trades yet.")
		return
	}

	fmt.Fprintf(s.out, "\nRecent trades for %s:\n", s.current.Username)
	for _, trade := range trades {
		fmt.Fprintf(s.out, "%s  %-4s %-6s x%-5d @ $%-10s total $%s\n",
			trade.ExecutedAt.Format("2006-01-02 15:04:05"),
			trade.Side, trade.Symbol, trade.Quantity,
			trade.Price.StringFixed(2), trade.Value.StringFixed(2))
	}
}

func (s *Shell) printQuote(quote *domain.Quote) {
	fmt.Fprintf(s.out, "Current price: %s\n", quote.Current.StringFixed(2))
	fmt.Fprintf(s.out, "High price: %s\n", quote.High.StringFixed(2))
	fmt.Fprintf(s.out, "Low price: %s\n", quote.Low.StringFixed(2))
	fmt.Fprintf(s.out, "Previous close: %s\n", quote.PrevClose.StringFixed(2))
}

func (s *Shell) printTradeError(err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		fmt.Fprintln(s.out, "Invalid quantity!")
	case errors.Is(err, domain.ErrInsufficientFunds):
		fmt.Fprintln(s.out, "Insufficient funds!")
	case errors.Is(err, domain.ErrSymbolNotFound), errors.Is(err, domain.ErrInsufficientShares):
		fmt.Fprintln(s.out, "Invalid sale: Insufficient shares or symbol not found.")
	case errors.Is(err, domain.ErrPriceUnavailable):
		fmt.Fprintln(s.out, "Price unavailable; trade not executed.")
	default:
		fmt.Fprintln(s.out, "Trade failed:", err)
	}
}

func (s *Shell) saveAccount(account *domain.Account) {
	if s.saver == nil {
		return
	}
	if err := s.saver.SaveAccount(account); err != nil {
		slog.Warn("Failed to persist account snapshot",
			slog.String("user", account.Username), slog.Any("error", err))
	}
}

func (s *Shell) promptSymbol() (string, bool) {
	symbol, ok := s.promptLine("Enter stock symbol: ")
	if !ok {
		return "", false
	}
	symbol = strings.ToUpper(symbol)
	if symbol == "" {
		fmt.Fprintln(s.out, "Invalid symbol!")
		return "", false
	}
	return symbol, true
}

func (s *Shell) promptQuantity(prompt string) (int64, bool) {
	str, ok := s.promptLine(prompt)
	if !ok {
		return 0, false
	}
	quantity, err := strconv.ParseInt(str, 10, 64)
	if err != nil || quantity <= 0 {
		fmt.Fprintln(s.out, "Invalid quantity!")
		return 0, false
	}
	return quantity, true
}

func (s *Shell) promptLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	return s.readLine()
}

func (s *Shell) readLine() (string, bool) {
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
