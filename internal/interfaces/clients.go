// Package interfaces defines service contracts for quoteboard
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// QuoteClient provides access to the market-data provider. Implementations
// never retry: each call is one upstream round trip, and failures surface as
// *models.ProviderError.
type QuoteClient interface {
	// FetchBatchSnapshots returns the latest snapshot per equity symbol.
	// Symbols the provider does not know are absent from the map.
	FetchBatchSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error)

	// FetchCryptoSnapshots returns the latest snapshot per crypto pair.
	FetchCryptoSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error)

	// FetchBars returns ascending bars for one equity symbol from start onward.
	FetchBars(ctx context.Context, symbol string, timeframe models.Timeframe, start time.Time, limit int) ([]models.Bar, error)

	// FetchCryptoBars returns ascending bars per crypto pair from start onward in one call.
	FetchCryptoBars(ctx context.Context, symbols []string, timeframe models.Timeframe, start time.Time, limit int) (map[string][]models.Bar, error)

	// FetchMostActives returns the provider's most active equities by volume.
	FetchMostActives(ctx context.Context, top int) ([]models.ScreenerEntry, error)

	// FetchMovers returns the provider's top gainers and losers.
	FetchMovers(ctx context.Context, top int) (gainers, losers []models.ScreenerEntry, err error)

	// FetchAsset returns descriptive metadata for a symbol.
	FetchAsset(ctx context.Context, symbol string) (*models.Asset, error)
}
