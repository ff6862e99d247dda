package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

const watchlistSelectFields = "entry_id as id, user_id, symbol, created_at"

// WatchlistStore implements interfaces.WatchlistStore using SurrealDB.
type WatchlistStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewWatchlistStore creates a new WatchlistStore.
func NewWatchlistStore(db *surrealdb.DB, logger *common.Logger) *WatchlistStore {
	return &WatchlistStore{db: db, logger: logger}
}

func (s *WatchlistStore) ListWatchlist(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	sql := "SELECT " + watchlistSelectFields + " FROM watchlist WHERE user_id = $user_id ORDER BY symbol ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.WatchlistEntry](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.WatchlistEntry{}, nil
	}
	return (*results)[0].Result, nil
}

func (s *WatchlistStore) AddWatchlist(ctx context.Context, e models.WatchlistEntry) (*models.WatchlistEntry, error) {
	rid := surrealmodels.NewRecordID(watchlistTable, rowKey(e.UserID, e.Symbol))

	existing, err := surrealdb.Query[[]models.WatchlistEntry](ctx, s.db, "SELECT "+watchlistSelectFields+" FROM $rid", map[string]any{"rid": rid})
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("failed to check watchlist: %w", err)
	}
	if existing != nil && len(*existing) > 0 && len((*existing)[0].Result) > 0 {
		return nil, models.ErrAlreadyExists
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()

	sql := "CREATE $rid SET entry_id = $entry_id, user_id = $user_id, symbol = $symbol, created_at = $created_at"
	vars := map[string]any{
		"rid":        rid,
		"entry_id":   e.ID,
		"user_id":    e.UserID,
		"symbol":     e.Symbol,
		"created_at": e.CreatedAt,
	}
	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		if isAlreadyExistsError(err) {
			return nil, models.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to add watchlist entry: %w", err)
	}
	return &e, nil
}

func (s *WatchlistStore) DeleteWatchlist(ctx context.Context, userID, id string) error {
	sql := "DELETE watchlist WHERE entry_id = $id AND user_id = $user_id RETURN BEFORE"
	vars := map[string]any{"id": id, "user_id": userID}

	results, err := surrealdb.Query[[]map[string]any](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist entry: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ interfaces.WatchlistStore = (*WatchlistStore)(nil)
