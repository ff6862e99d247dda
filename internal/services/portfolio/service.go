// Package portfolio provides holdings management and portfolio analytics
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// Service implements PortfolioService
type Service struct {
	store  interfaces.HoldingStore
	market interfaces.MarketService
	logger *common.Logger

	// saveLocks holds one *sync.Mutex per user|symbol; merges read then write
	saveLocks sync.Map
}

// NewService creates a new portfolio service
func NewService(store interfaces.HoldingStore, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		market: market,
		logger: logger,
	}
}

// listWithQuotes loads the user's holdings sorted by symbol and resolves a
// quote for each. A failed quote batch degrades to unavailable quotes.
func (s *Service) listWithQuotes(ctx context.Context, userID string) ([]models.Holding, map[string]models.Quote, error) {
	holdings, err := s.store.ListHoldings(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		return holdings[i].Symbol < holdings[j].Symbol
	})

	if len(holdings) == 0 {
		return holdings, map[string]models.Quote{}, nil
	}

	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}

	quotes, err := s.market.GetQuotes(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Int("holdings", len(holdings)).
			Msg("Quote batch failed, holdings shown without market data")
	}
	return holdings, quotes, nil
}

// GetHoldings lists holdings joined with current quotes
func (s *Service) GetHoldings(ctx context.Context, userID string) ([]models.HoldingView, error) {
	holdings, quotes, err := s.listWithQuotes(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.HoldingView, 0, len(holdings))
	for _, h := range holdings {
		q, ok := quotes[h.Symbol]
		if !ok {
			q = models.Quote{Symbol: h.Symbol}
		}
		views = append(views, models.HoldingView{Holding: h, Quote: q})
	}
	return views, nil
}

// GetStats derives portfolio statistics on every call; nothing is cached.
func (s *Service) GetStats(ctx context.Context, userID string) (*models.PortfolioStats, error) {
	holdings, quotes, err := s.listWithQuotes(ctx, userID)
	if err != nil {
		return nil, err
	}
	return CalculateStats(holdings, quotes), nil
}

// existingHolding returns the user's holding for symbol, or nil when not held.
func (s *Service) existingHolding(ctx context.Context, userID, symbol string) (*models.Holding, error) {
	h, err := s.store.GetHoldingBySymbol(ctx, userID, symbol)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load holding %s: %w", symbol, err)
	}
	return h, nil
}

// PreviewHolding reports how a submission would merge into an existing position. Nothing is written.
func (s *Service) PreviewHolding(ctx context.Context, userID string, input models.HoldingInput) (*models.HoldingMerge, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	existing, err := s.existingHolding(ctx, userID, input.Symbol)
	if err != nil {
		return nil, err
	}
	return ProposeMerge(existing, input), nil
}

// ParseSaveMode validates a save mode, defaulting to merge.
func ParseSaveMode(mode string) (models.SaveMode, error) {
	switch m := models.SaveMode(strings.ToLower(strings.TrimSpace(mode))); m {
	case "", models.SaveModeMerge:
		return models.SaveModeMerge, nil
	case models.SaveModeReplace:
		return models.SaveModeReplace, nil
	default:
		return "", &models.InvalidInputError{Field: "mode", Reason: "must be merge or replace"}
	}
}

// SaveHolding persists a submission. In merge mode an existing position is
// combined by weighted-average cost; in replace mode it is overwritten.
func (s *Service) SaveHolding(ctx context.Context, userID string, input models.HoldingInput, mode models.SaveMode) (*models.Holding, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	mode, err := ParseSaveMode(string(mode))
	if err != nil {
		return nil, err
	}

	unlock := s.lockHolding(userID, input.Symbol)
	defer unlock()

	existing, err := s.existingHolding(ctx, userID, input.Symbol)
	if err != nil {
		return nil, err
	}

	result := models.Position{Quantity: input.Quantity, AvgCost: input.AvgCost}
	if mode == models.SaveModeMerge {
		result = ProposeMerge(existing, input).Result
	}

	row := models.Holding{
		UserID:   userID,
		Symbol:   input.Symbol,
		Quantity: result.Quantity,
		AvgCost:  result.AvgCost,
	}
	if existing != nil {
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
	}

	saved, err := s.store.UpsertHolding(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to save holding %s: %w", input.Symbol, err)
	}

	s.logger.Info().Str("user_id", userID).Str("symbol", saved.Symbol).Str("mode", string(mode)).
		Float64("quantity", saved.Quantity).Float64("avg_cost", saved.AvgCost).Msg("Holding saved")
	return saved, nil
}

// lockHolding serializes saves of one user's symbol within this process.
func (s *Service) lockHolding(userID, symbol string) func() {
	v, _ := s.saveLocks.LoadOrStore(userID+"|"+symbol, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// DeleteHolding removes a holding owned by userID
func (s *Service) DeleteHolding(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return &models.InvalidInputError{Field: "id", Reason: "is required"}
	}
	return s.store.DeleteHolding(ctx, userID, id)
}

// Compile-time check
var _ interfaces.PortfolioService = (*Service)(nil)
