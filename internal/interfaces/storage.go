// Package interfaces defines service contracts for quoteboard
package interfaces

import (
	"context"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// HoldingStore persists holdings. Rows are unique per (UserID, Symbol).
type HoldingStore interface {
	ListHoldings(ctx context.Context, userID string) ([]models.Holding, error)
	// GetHoldingBySymbol returns models.ErrNotFound when the user does not hold symbol.
	GetHoldingBySymbol(ctx context.Context, userID, symbol string) (*models.Holding, error)
	// UpsertHolding inserts or updates the (UserID, Symbol) row and returns it with ID and timestamps set.
	UpsertHolding(ctx context.Context, h models.Holding) (*models.Holding, error)
	// DeleteHolding returns models.ErrNotFound when no row with id belongs to userID.
	DeleteHolding(ctx context.Context, userID, id string) error
}

// WatchlistStore persists watchlist entries. Rows are unique per (UserID, Symbol).
type WatchlistStore interface {
	ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	// AddWatchlist returns models.ErrAlreadyExists for a duplicate symbol.
	AddWatchlist(ctx context.Context, e models.WatchlistEntry) (*models.WatchlistEntry, error)
	// DeleteWatchlist returns models.ErrNotFound when no row with id belongs to userID.
	DeleteWatchlist(ctx context.Context, userID, id string) error
}

// StorageManager coordinates the configured storage backend.
type StorageManager interface {
	HoldingStore() HoldingStore
	WatchlistStore() WatchlistStore
	Close() error
}
