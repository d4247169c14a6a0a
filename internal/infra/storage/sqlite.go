package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"paper_trade/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// AccountRecord mirrors one account's identity and cash balance.
type AccountRecord struct {
	Username  string          `gorm:"primaryKey" json:"username"`
	Password  string          `json:"-"`
	Balance   decimal.Decimal `gorm:"type:decimal(32,16)" json:"balance"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// PositionRecord mirrors one holding of one account.
type PositionRecord struct {
	Username string          `gorm:"primaryKey" json:"username"`
	Symbol   string          `gorm:"primaryKey" json:"symbol"`
	Quantity int64           `json:"quantity"`
	AvgCost  decimal.Decimal `gorm:"type:decimal(32,16)" json:"avg_cost"`
}

// TradeRecord is one journal row for an executed trade.
type TradeRecord struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Username   string          `gorm:"index" json:"username"`
	Symbol     string          `json:"symbol"`
	Side       string          `json:"side"`
	Quantity   int64           `json:"quantity"`
	Price      decimal.Decimal `gorm:"type:decimal(32,16)" json:"price"`
	Value      decimal.Decimal `gorm:"type:decimal(32,16)" json:"value"`
	ExecutedAt time.Time       `json:"executed_at"`
}

// AppSetting is a user-scoped key/value setting.
type AppSetting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Storage persists account snapshots, the trade journal, and settings.
// The in-memory registry stays authoritative during the session; this
// store only mirrors it across restarts.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the default path.
func NewStorage() (*Storage, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve DB path: %w", err)
	}

	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&AccountRecord{}, &PositionRecord{}, &TradeRecord{}, &AppSetting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// getDBPath resolves the database file path based on OS
func getDBPath() (string, error) {
	var configDir string
	var err error

	if runtime.GOOS == "windows" {
		configDir = os.Getenv("LOCALAPPDATA")
		if configDir == "" {
			configDir, err = os.UserConfigDir()
		}
	} else {
		configDir, err = os.UserConfigDir()
	}

	if err != nil {
		return "", err
	}

	return filepath.Join(configDir, "PaperTrade", "data", "papertrade.db"), nil
}

// ======================================================================================
// Account Snapshot Operations
// ======================================================================================

// SaveAccount writes an account's balance and full position set, replacing
// any previous snapshot of it.
func (s *Storage) SaveAccount(account *domain.Account) error {
	positions := account.Positions()

	return s.db.Transaction(func(tx *gorm.DB) error {
		record := AccountRecord{
			Username:  account.Username,
			Password:  account.Password,
			Balance:   account.Balance(),
			UpdatedAt: time.Now(),
		}
		if err := tx.Save(&record).Error; err != nil {
			return err
		}

		// Replace positions wholesale: stale rows (closed positions) must go.
		if err := tx.Where("username = ?", account.Username).Delete(&PositionRecord{}).Error; err != nil {
			return err
		}
		for _, pos := range positions {
			row := PositionRecord{
				Username: account.Username,
				Symbol:   pos.Symbol,
				Quantity: pos.Quantity,
				AvgCost:  pos.AvgCost,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteAccount removes an account snapshot and its positions.
func (s *Storage) DeleteAccount(username string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&PositionRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("username = ?", username).Delete(&AccountRecord{}).Error
	})
}

// LoadAccounts rebuilds all persisted accounts with their positions.
func (s *Storage) LoadAccounts() ([]*domain.Account, error) {
	var records []AccountRecord
	if err := s.db.Find(&records).Error; err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(records))
	for _, rec := range records {
		account := domain.NewAccount(rec.Username, rec.Password, rec.Balance)

		var rows []PositionRecord
		if err := s.db.Where("username = ?", rec.Username).Find(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			account.RestorePosition(domain.Position{
				Symbol:   row.Symbol,
				Quantity: row.Quantity,
				AvgCost:  row.AvgCost,
			})
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// HasAccount reports whether a snapshot exists for the username.
func (s *Storage) HasAccount(username string) (bool, error) {
	var record AccountRecord
	err := s.db.First(&record, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ======================================================================================
// Trade Journal Operations
// ======================================================================================

// RecordTrade appends an executed trade to the journal.
func (s *Storage) RecordTrade(trade *domain.Trade) error {
	row := TradeRecord{
		Username:   trade.Username,
		Symbol:     trade.Symbol,
		Side:       trade.Side,
		Quantity:   trade.Quantity,
		Price:      trade.Price,
		Value:      trade.Value,
		ExecutedAt: trade.ExecutedAt,
	}
	return s.db.Create(&row).Error
}

// RecentTrades returns the newest trades for a username, newest first.
func (s *Storage) RecentTrades(username string, limit int) ([]domain.Trade, error) {
	var rows []TradeRecord
	err := s.db.Where("username = ?", username).
		Order("id desc").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	trades := make([]domain.Trade, 0, len(rows))
	for _, row := range rows {
		trades = append(trades, domain.Trade{
			Username:   row.Username,
			Symbol:     row.Symbol,
			Side:       row.Side,
			Quantity:   row.Quantity,
			Price:      row.Price,
			Value:      row.Value,
			ExecutedAt: row.ExecutedAt,
		})
	}
	return trades, nil
}

// ======================================================================================
// Setting Operations
// ======================================================================================

// SaveSetting saves a user setting
func (s *Storage) SaveSetting(key, value string) error {
	setting := AppSetting{
		Key:   key,
		Value: value,
	}
	return s.db.Save(&setting).Error
}

// LoadSettings loads all user settings as a map
func (s *Storage) LoadSettings() (map[string]string, error) {
	var settings []AppSetting
	if err := s.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, setting := range settings {
		result[setting.Key] = setting.Value
	}
	return result, nil
}
