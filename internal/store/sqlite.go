package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"tradeflow/internal/models"
)

// SQLiteStore is the local gorm-backed implementation of Store.
type SQLiteStore struct {
	db *gorm.DB
}

// ensure SQLiteStore implements the interface
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database and brings the schema up to date.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

// Ping checks that the trades table is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Trade{}).Limit(1).Count(&count).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// CreateUser inserts a new account, enforcing email uniqueness.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByEmail fetches an account by its unique email.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// InsertTrade appends one closed trade to the owner's journal.
func (s *SQLiteStore) InsertTrade(ctx context.Context, trade *models.Trade) error {
	if err := s.db.WithContext(ctx).Create(trade).Error; err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}
	return nil
}

// TradesByUser lists the owner's trades ordered by date, with row id as
// the tiebreak so same-day trades keep insertion order.
func (s *SQLiteStore) TradesByUser(ctx context.Context, email string, order Order) ([]models.Trade, error) {
	clause := "date ASC, id ASC"
	if order == Descending {
		clause = "date DESC, id DESC"
	}

	var trades []models.Trade
	err := s.db.WithContext(ctx).
		Where("user_email = ?", email).
		Order(clause).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades: %w", err)
	}
	return trades, nil
}

// DeleteTradesByUser removes all of the owner's trades in a single
// filtered statement.
func (s *SQLiteStore) DeleteTradesByUser(ctx context.Context, email string) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_email = ?", email).Delete(&models.Trade{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete trades: %w", res.Error)
	}
	return res.RowsAffected, nil
}
