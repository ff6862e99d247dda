// Package interfaces defines service contracts for quoteboard
package interfaces

import (
	"context"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// MarketService aggregates provider data into quotes, series and analytics.
type MarketService interface {
	// GetSnapshots resolves snapshots for a mixed equity/crypto symbol list.
	// A failed batch leaves its symbols absent; the error is returned alongside.
	GetSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error)

	// GetQuotes resolves snapshots into presentation quotes. Every requested
	// symbol is present; unknown ones have Available=false.
	GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)

	// GetBars returns the series for one symbol over a named range
	// (1d, 5d, 1mo, 6mo, ytd, 1y, 5y, max) at the given bar interval.
	GetBars(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]models.Bar, error)

	// GetSparklines returns recent close series per symbol. Failed symbols are absent.
	GetSparklines(ctx context.Context, symbols []string) map[string][]float64

	// GetStockPerformance returns trailing returns for a symbol against the benchmark.
	GetStockPerformance(ctx context.Context, symbol string) (*models.StockPerformance, error)

	// GetMostActives returns priced most-active equities.
	GetMostActives(ctx context.Context) ([]models.ScreenerStock, error)

	// GetMarketMovers returns the top gainers and losers.
	GetMarketMovers(ctx context.Context) (*models.MarketMovers, error)

	// GetCryptoList returns the configured crypto pairs with quotes and sparklines.
	GetCryptoList(ctx context.Context) ([]models.CryptoQuote, error)

	// GetAsset returns symbol metadata.
	GetAsset(ctx context.Context, symbol string) (*models.Asset, error)

	// RenderChart draws the symbol's series over rangeName as a PNG.
	RenderChart(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]byte, error)
}

// PortfolioService manages holdings and derived analytics for a user.
type PortfolioService interface {
	// GetHoldings lists holdings joined with current quotes.
	GetHoldings(ctx context.Context, userID string) ([]models.HoldingView, error)

	// GetStats derives portfolio statistics from holdings and current quotes.
	GetStats(ctx context.Context, userID string) (*models.PortfolioStats, error)

	// PreviewHolding reports how a submission would change an existing position without writing.
	PreviewHolding(ctx context.Context, userID string, input models.HoldingInput) (*models.HoldingMerge, error)

	// SaveHolding applies a submission using mode and returns the stored row.
	SaveHolding(ctx context.Context, userID string, input models.HoldingInput, mode models.SaveMode) (*models.Holding, error)

	// DeleteHolding removes a holding owned by userID.
	DeleteHolding(ctx context.Context, userID, id string) error
}

// WatchlistService manages price-only tracked symbols.
type WatchlistService interface {
	GetWatchlist(ctx context.Context, userID string) ([]models.WatchlistView, error)
	AddSymbol(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error)
	RemoveItem(ctx context.Context, userID, id string) error
}
