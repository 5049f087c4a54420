// Package store defines the persistence contract of the journal and its
// backends: a local sqlite database and the hosted Supabase PostgREST API.
package store

import (
	"context"
	"errors"

	"tradeflow/internal/models"
)

// Sentinel errors shared by all backends.
var (
	// ErrNotFound means the requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("store: email already registered")
	// ErrUnavailable means the backend could not be reached. Read paths
	// treat it as "no data" so the application keeps running degraded.
	ErrUnavailable = errors.New("store: backend unavailable")
)

// Order selects the trade listing order.
type Order string

const (
	// Descending is newest-first, used by the journal view.
	Descending Order = "desc"
	// Ascending is oldest-first, used to build the equity curve.
	// Same-day trades keep insertion order (secondary sort on row id).
	Ascending Order = "asc"
)

// Store is the persistence contract. Writes are synchronous: a successful
// insert is visible to the next read (no propagation delay to paper over).
type Store interface {
	// Ping checks connectivity and that the schema is reachable.
	Ping(ctx context.Context) error

	// CreateUser inserts a new account. Returns ErrDuplicateEmail when the
	// email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// UserByEmail fetches an account by its unique email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)

	// InsertTrade appends one closed trade to the owner's journal.
	InsertTrade(ctx context.Context, trade *models.Trade) error

	// TradesByUser lists the owner's trades ordered by date.
	TradesByUser(ctx context.Context, email string, order Order) ([]models.Trade, error)

	// DeleteTradesByUser removes all of the owner's trades in one filtered
	// bulk delete and reports how many rows went away.
	DeleteTradesByUser(ctx context.Context, email string) (int64, error)
}
