// Package watchlist provides price-only symbol tracking
package watchlist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// Service implements WatchlistService
type Service struct {
	store  interfaces.WatchlistStore
	market interfaces.MarketService
	logger *common.Logger
}

// NewService creates a new watchlist service
func NewService(store interfaces.WatchlistStore, market interfaces.MarketService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		market: market,
		logger: logger,
	}
}

// GetWatchlist lists the user's entries, sorted by symbol, with current quotes.
// A failed quote batch leaves every quote unavailable.
func (s *Service) GetWatchlist(ctx context.Context, userID string) ([]models.WatchlistView, error) {
	entries, err := s.store.ListWatchlist(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Symbol < entries[j].Symbol
	})

	views := make([]models.WatchlistView, 0, len(entries))
	if len(entries) == 0 {
		return views, nil
	}

	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}
	quotes, err := s.market.GetQuotes(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Quote batch failed, watchlist shown without market data")
	}

	for _, e := range entries {
		q, ok := quotes[e.Symbol]
		if !ok {
			q = models.Quote{Symbol: e.Symbol}
		}
		views = append(views, models.WatchlistView{WatchlistEntry: e, Quote: q})
	}
	return views, nil
}

// AddSymbol tracks symbol for userID. Adding a symbol twice returns models.ErrAlreadyExists.
func (s *Service) AddSymbol(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &models.InvalidInputError{Field: "symbol", Reason: "is required"}
	}

	entry, err := s.store.AddWatchlist(ctx, models.WatchlistEntry{UserID: userID, Symbol: symbol})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Str("symbol", symbol).Msg("Watchlist symbol added")
	return entry, nil
}

// RemoveItem deletes a watchlist entry owned by userID
func (s *Service) RemoveItem(ctx context.Context, userID, id string) error {
	if strings.TrimSpace(id) == "" {
		return &models.InvalidInputError{Field: "id", Reason: "is required"}
	}
	return s.store.DeleteWatchlist(ctx, userID, id)
}

// Compile-time check
var _ interfaces.WatchlistService = (*Service)(nil)
