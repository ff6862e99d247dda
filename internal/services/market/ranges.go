package market

import (
	"context"
	"strings"
	"time"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// RangeStart returns the first instant covered by a named chart range.
// Unknown names fall back to one day.
func RangeStart(rangeName string, now time.Time) time.Time {
	now = now.UTC()
	switch strings.ToLower(strings.TrimSpace(rangeName)) {
	case "5d":
		return now.AddDate(0, 0, -5)
	case "1mo":
		return now.AddDate(0, -1, 0)
	case "6mo":
		return now.AddDate(0, -6, 0)
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	case "1y":
		return now.AddDate(-1, 0, 0)
	case "5y":
		return now.AddDate(-5, 0, 0)
	case "max":
		return now.AddDate(-10, 0, 0)
	default:
		return now.AddDate(0, 0, -1)
	}
}

// DefaultInterval picks a bar granularity suited to a range when the caller
// does not supply one.
func DefaultInterval(rangeName string) models.Timeframe {
	switch strings.ToLower(strings.TrimSpace(rangeName)) {
	case "5d":
		return models.Timeframe15Min
	case "1mo":
		return models.Timeframe1Hour
	case "6mo", "ytd", "1y", "5y", "max":
		return models.Timeframe1Day
	default:
		return models.Timeframe5Min
	}
}

// GetBars returns ascending bars for symbol over rangeName. Crypto pairs are
// routed to the crypto bars endpoint.
func (s *Service) GetBars(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]models.Bar, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &models.InvalidInputError{Field: "symbol", Reason: "is required"}
	}
	if interval == "" {
		interval = DefaultInterval(rangeName)
	}

	bars, err := s.fetchSymbolBars(ctx, symbol, interval, RangeStart(rangeName, s.now()), barLimit)
	if err != nil {
		return nil, err
	}
	if bars == nil {
		bars = []models.Bar{}
	}
	return bars, nil
}

// fetchSymbolBars performs one upstream bars request for a single symbol.
func (s *Service) fetchSymbolBars(ctx context.Context, symbol string, tf models.Timeframe, start time.Time, limit int) ([]models.Bar, error) {
	if !models.IsCryptoSymbol(symbol) {
		return s.client.FetchBars(ctx, symbol, tf, start, limit)
	}
	bySymbol, err := s.client.FetchCryptoBars(ctx, []string{symbol}, tf, start, limit)
	if err != nil {
		return nil, err
	}
	return bySymbol[symbol], nil
}
