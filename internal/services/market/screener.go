package market

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// GetMostActives returns the most active equities by volume, priced with a
// second batched snapshot call. If pricing fails the rows are returned with
// Available=false.
func (s *Service) GetMostActives(ctx context.Context) ([]models.ScreenerStock, error) {
	entries, err := s.client.FetchMostActives(ctx, s.screenerTop)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(entries))
	for _, e := range entries {
		symbols = append(symbols, e.Symbol)
	}

	snaps, err := s.GetSnapshots(ctx, symbols)
	if err != nil {
		s.logger.Warn().Err(err).Int("symbols", len(symbols)).Msg("Most-actives pricing failed")
	}

	out := make([]models.ScreenerStock, 0, len(entries))
	for _, e := range entries {
		q := models.ResolveQuote(e.Symbol, snaps[e.Symbol])
		out = append(out, models.ScreenerStock{
			Symbol:        e.Symbol,
			Price:         q.Price,
			Change:        q.Change,
			PercentChange: q.ChangePct,
			Available:     q.Available,
		})
	}
	return out, nil
}

// GetMarketMovers returns the provider's top gainers and losers as ranked.
func (s *Service) GetMarketMovers(ctx context.Context) (*models.MarketMovers, error) {
	gainers, losers, err := s.client.FetchMovers(ctx, s.screenerTop)
	if err != nil {
		return nil, err
	}
	return &models.MarketMovers{
		Gainers: toScreenerStocks(gainers),
		Losers:  toScreenerStocks(losers),
	}, nil
}

func toScreenerStocks(entries []models.ScreenerEntry) []models.ScreenerStock {
	out := make([]models.ScreenerStock, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.ScreenerStock{
			Symbol:        e.Symbol,
			Price:         e.Price,
			Change:        e.Change,
			PercentChange: e.PercentChange,
			Available:     true,
		})
	}
	return out
}

// GetCryptoList returns the configured crypto pairs in configured order with
// quotes, 24h volume and a 5-minute sparkline covering the last day. Snapshot
// failure is an error; sparkline failure only empties the sparklines.
func (s *Service) GetCryptoList(ctx context.Context) ([]models.CryptoQuote, error) {
	if len(s.cryptoSymbols) == 0 {
		return []models.CryptoQuote{}, nil
	}

	now := s.now()
	var (
		mu      sync.Mutex
		snaps   map[string]*models.Snapshot
		bars    map[string][]models.Bar
		snapErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		res, err := s.client.FetchCryptoSnapshots(ctx, s.cryptoSymbols)
		mu.Lock()
		snaps, snapErr = res, err
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		res, err := s.client.FetchCryptoBars(ctx, s.cryptoSymbols, models.Timeframe5Min, now.Add(-24*time.Hour), cryptoSparklineLimit)
		if err != nil {
			s.logger.Warn().Err(err).Msg("Crypto sparkline fetch failed")
			return nil
		}
		mu.Lock()
		bars = res
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	if snapErr != nil {
		return nil, snapErr
	}

	out := make([]models.CryptoQuote, 0, len(s.cryptoSymbols))
	for _, sym := range s.cryptoSymbols {
		snap := snaps[sym]
		q := models.ResolveQuote(sym, snap)
		var volume float64
		if snap != nil && snap.DailyBar != nil {
			volume = snap.DailyBar.Volume
		}
		out = append(out, models.CryptoQuote{
			Symbol:        sym,
			Price:         q.Price,
			Change:        q.Change,
			PercentChange: q.ChangePct,
			Volume24h:     volume,
			Sparkline:     models.Closes(bars[sym]),
			Available:     q.Available,
		})
	}
	return out, nil
}
