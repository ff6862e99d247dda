package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// WatchlistStore implements interfaces.WatchlistStore on SQLite.
type WatchlistStore struct {
	db     *sql.DB
	logger *common.Logger
}

func (s *WatchlistStore) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, symbol, created_at FROM watchlist WHERE user_id = ? ORDER BY symbol", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchlistEntry{}
	for rows.Next() {
		var e models.WatchlistEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.Symbol, &created); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		e.CreatedAt = fromUnix(created)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *WatchlistStore) AddWatchlist(ctx context.Context, e models.WatchlistEntry) (*models.WatchlistEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO watchlist (id, user_id, symbol, created_at) VALUES (?, ?, ?, ?)",
		e.ID, e.UserID, e.Symbol, toUnix(e.CreatedAt))
	if isUniqueViolation(err) {
		return nil, models.ErrAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return &e, nil
}

func (s *WatchlistStore) DeleteWatchlist(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM watchlist WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ interfaces.WatchlistStore = (*WatchlistStore)(nil)
