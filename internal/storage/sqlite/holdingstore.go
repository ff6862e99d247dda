package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

const holdingColumns = "id, user_id, symbol, quantity, avg_cost, created_at, updated_at"

// HoldingStore implements interfaces.HoldingStore on SQLite.
type HoldingStore struct {
	db     *sql.DB
	logger *common.Logger
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (models.Holding, error) {
	var h models.Holding
	var created, updated int64
	if err := row.Scan(&h.ID, &h.UserID, &h.Symbol, &h.Quantity, &h.AvgCost, &created, &updated); err != nil {
		return models.Holding{}, err
	}
	h.CreatedAt = fromUnix(created)
	h.UpdatedAt = fromUnix(updated)
	return h, nil
}

func (s *HoldingStore) ListHoldings(ctx context.Context, userID string) ([]models.Holding, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+holdingColumns+" FROM holdings WHERE user_id = ? ORDER BY symbol", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	defer rows.Close()

	holdings := []models.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	return holdings, rows.Err()
}

func (s *HoldingStore) GetHoldingBySymbol(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+holdingColumns+" FROM holdings WHERE user_id = ? AND symbol = ?", userID, symbol)
	h, err := scanHolding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get holding: %w", err)
	}
	return &h, nil
}

func (s *HoldingStore) UpsertHolding(ctx context.Context, h models.Holding) (*models.Holding, error) {
	now := time.Now().UTC()
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holdings (`+holdingColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, symbol) DO UPDATE SET
			quantity = excluded.quantity,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at`,
		h.ID, h.UserID, h.Symbol, h.Quantity, h.AvgCost, toUnix(h.CreatedAt), toUnix(now))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert holding: %w", err)
	}

	// The conflict path keeps the original id and created_at.
	return s.GetHoldingBySymbol(ctx, h.UserID, h.Symbol)
}

func (s *HoldingStore) DeleteHolding(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM holdings WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Compile-time check
var _ interfaces.HoldingStore = (*HoldingStore)(nil)
