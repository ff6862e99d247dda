package surrealdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// holdingSelectFields aliases holding_id to id for struct mapping.
const holdingSelectFields = "holding_id as id, user_id, symbol, quantity, avg_cost, created_at, updated_at"

// HoldingStore implements interfaces.HoldingStore using SurrealDB.
type HoldingStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewHoldingStore creates a new HoldingStore.
func NewHoldingStore(db *surrealdb.DB, logger *common.Logger) *HoldingStore {
	return &HoldingStore{db: db, logger: logger}
}

func (s *HoldingStore) ListHoldings(ctx context.Context, userID string) ([]models.Holding, error) {
	sql := "SELECT " + holdingSelectFields + " FROM holding WHERE user_id = $user_id ORDER BY symbol ASC"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	if results == nil || len(*results) == 0 {
		return []models.Holding{}, nil
	}
	return (*results)[0].Result, nil
}

func (s *HoldingStore) GetHoldingBySymbol(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	sql := "SELECT " + holdingSelectFields + " FROM $rid"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(holdingTable, rowKey(userID, symbol))}

	results, err := surrealdb.Query[[]models.Holding](ctx, s.db, sql, vars)
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return nil, models.ErrNotFound
	}
	return &(*results)[0].Result[0], nil
}

func (s *HoldingStore) UpsertHolding(ctx context.Context, h models.Holding) (*models.Holding, error) {
	existing, err := s.GetHoldingBySymbol(ctx, h.UserID, h.Symbol)
	switch {
	case err == nil:
		h.ID = existing.ID
		h.CreatedAt = existing.CreatedAt
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	now := time.Now().UTC()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}
	h.UpdatedAt = now

	sql := `UPSERT $rid SET
		holding_id = $holding_id, user_id = $user_id, symbol = $symbol,
		quantity = $quantity, avg_cost = $avg_cost,
		created_at = $created_at, updated_at = $updated_at`
	vars := map[string]any{
		"rid":        surrealmodels.NewRecordID(holdingTable, rowKey(h.UserID, h.Symbol)),
		"holding_id": h.ID,
		"user_id":    h.UserID,
		"symbol":     h.Symbol,
		"quantity":   h.Quantity,
		"avg_cost":   h.AvgCost,
		"created_at": h.CreatedAt,
		"updated_at": h.UpdatedAt,
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return nil, fmt.Errorf("failed to upsert holding: %w", err)
	}
	return &h, nil
}

func (s *HoldingStore) DeleteHolding(ctx context.Context, userID, id string) error {
	sql := "DELETE holding WHERE holding_id = $id AND user_id = $user_id RETURN BEFORE"
	vars := map[string]any{"id": id, "user_id": userID}

	results, err := surrealdb.Query[[]map[string]any](ctx, s.db, sql, vars)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	if results == nil || len(*results) == 0 || len((*results)[0].Result) == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ interfaces.HoldingStore = (*HoldingStore)(nil)
