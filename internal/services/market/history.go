package market

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// seriesResult is one symbol's outcome in a fan-out.
type seriesResult struct {
	symbol string
	bars   []models.Bar
	err    error
}

// FetchSeries fetches bars for each symbol concurrently, at most
// maxConcurrency requests in flight. Failed symbols are logged and omitted;
// a failure never cancels siblings. The result holds successful symbols only.
func (s *Service) FetchSeries(ctx context.Context, symbols []string, tf models.Timeframe, start time.Time, limit int) map[string][]models.Bar {
	equities, crypto := models.PartitionSymbols(symbols)
	all := append(equities, crypto...)

	results := make([]seriesResult, len(all))

	var g errgroup.Group
	g.SetLimit(s.maxConcurrency)
	for i, sym := range all {
		g.Go(func() error {
			bars, err := s.fetchSymbolBars(ctx, sym, tf, start, limit)
			results[i] = seriesResult{symbol: sym, bars: bars, err: err}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string][]models.Bar, len(all))
	for _, r := range results {
		if r.err != nil {
			s.logger.Warn().Err(r.err).Str("symbol", r.symbol).Msg("Series fetch failed, omitting symbol")
			continue
		}
		out[r.symbol] = r.bars
	}

	s.logger.Debug().Int("requested", len(all)).Int("resolved", len(out)).Msg("Series fan-out complete")
	return out
}

// GetSparklines returns the last fifteen days of 15-minute closes per symbol.
func (s *Service) GetSparklines(ctx context.Context, symbols []string) map[string][]float64 {
	series := s.FetchSeries(ctx, symbols, models.Timeframe15Min, s.now().Add(-sparklineLookback), barLimit)

	out := make(map[string][]float64, len(series))
	for sym, bars := range series {
		out[sym] = models.Closes(bars)
	}
	return out
}
