// Package market provides market data services
package market

import (
	"context"
	"time"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

const (
	// barLimit caps a single bars request
	barLimit = 10000
	// sparklineLookback is how far back per-symbol sparklines reach
	sparklineLookback = 15 * 24 * time.Hour
	// cryptoSparklineLimit caps the 5-minute bars fetched per pair for the crypto list
	cryptoSparklineLimit = 1000
)

// Service implements MarketService
type Service struct {
	client         interfaces.QuoteClient
	session        *Session
	logger         *common.Logger
	benchmark      string
	maxConcurrency int
	screenerTop    int
	cryptoSymbols  []string
	now            func() time.Time
}

// NewService creates a new market service
func NewService(client interfaces.QuoteClient, cfg common.MarketConfig, logger *common.Logger) *Service {
	benchmark := models.NormalizeSymbol(cfg.Benchmark)
	if benchmark == "" {
		benchmark = "SPY"
	}
	top := cfg.ScreenerTop
	if top <= 0 {
		top = 10
	}
	crypto := make([]string, 0, len(cfg.CryptoSymbols))
	for _, sym := range cfg.CryptoSymbols {
		if sym = models.NormalizeSymbol(sym); models.IsCryptoSymbol(sym) {
			crypto = append(crypto, sym)
		}
	}

	return &Service{
		client:         client,
		session:        NewSession(cfg.GetStaleAfter()),
		logger:         logger,
		benchmark:      benchmark,
		maxConcurrency: cfg.GetMaxConcurrency(),
		screenerTop:    top,
		cryptoSymbols:  crypto,
		now:            time.Now,
	}
}

// Benchmark returns the symbol returns are compared against.
func (s *Service) Benchmark() string {
	return s.benchmark
}

// GetAsset returns descriptive metadata for a symbol
func (s *Service) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &models.InvalidInputError{Field: "symbol", Reason: "is required"}
	}
	return s.client.FetchAsset(ctx, symbol)
}

// Compile-time check
var _ interfaces.MarketService = (*Service)(nil)
