package market

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// performanceLookbackYears is the history fetched for the trailing-return table.
const performanceLookbackYears = 5

// ComputePerformance derives YTD, 1Y, 3Y and 5Y returns for a symbol and its
// benchmark from ascending daily bars. Both series need at least two bars.
func ComputePerformance(symbol, benchmark string, stockBars, benchBars []models.Bar, now time.Time) (*models.StockPerformance, error) {
	if len(stockBars) < 2 {
		return nil, &models.InsufficientHistoryError{Symbol: symbol, Bars: len(stockBars)}
	}
	if len(benchBars) < 2 {
		return nil, &models.InsufficientHistoryError{Symbol: benchmark, Bars: len(benchBars)}
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	anchors := []struct {
		period string
		target time.Time
	}{
		{models.PeriodYTD, time.Date(now.Year()-1, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{models.Period1Year, today.AddDate(-1, 0, 0)},
		{models.Period3Year, today.AddDate(-3, 0, 0)},
	}

	stockLatest := stockBars[len(stockBars)-1].Close
	benchLatest := benchBars[len(benchBars)-1].Close

	periods := make([]models.PerformancePeriod, 0, 4)
	for _, a := range anchors {
		stockStart, stockOK := findPrice(stockBars, a.target)
		benchStart, benchOK := findPrice(benchBars, a.target)
		periods = append(periods, models.PerformancePeriod{
			Period:          a.period,
			StockReturn:     trailingReturn(stockLatest, stockStart, stockOK),
			BenchmarkReturn: trailingReturn(benchLatest, benchStart, benchOK),
		})
	}

	// 5Y anchors to the oldest bar available, however short the history.
	periods = append(periods, models.PerformancePeriod{
		Period:          models.Period5Year,
		StockReturn:     trailingReturn(stockLatest, stockBars[0].Close, true),
		BenchmarkReturn: trailingReturn(benchLatest, benchBars[0].Close, true),
	})

	return &models.StockPerformance{Symbol: symbol, Benchmark: benchmark, Periods: periods}, nil
}

// findPrice scans from newest to oldest and returns the close of the first
// bar whose UTC calendar date is on or before target.
func findPrice(bars []models.Bar, target time.Time) (float64, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		ts := bars[i].Timestamp.UTC()
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		if !day.After(target) {
			return bars[i].Close, true
		}
	}
	return 0, false
}

// trailingReturn is (latest-start)/start*100, or 0 when start is unknown or zero.
func trailingReturn(latest, start float64, ok bool) float64 {
	if !ok || start == 0 {
		return 0
	}
	return (latest - start) / start * 100
}

// GetStockPerformance fetches five years of daily bars for symbol and the
// benchmark concurrently and computes the trailing-return table.
func (s *Service) GetStockPerformance(ctx context.Context, symbol string) (*models.StockPerformance, error) {
	symbol = models.NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, &models.InvalidInputError{Field: "symbol", Reason: "is required"}
	}

	now := s.now()
	start := now.UTC().AddDate(-performanceLookbackYears, 0, 0)

	var stockBars, benchBars []models.Bar
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		bars, err := s.fetchSymbolBars(gctx, symbol, models.Timeframe1Day, start, barLimit)
		stockBars = bars
		return err
	})
	g.Go(func() error {
		bars, err := s.fetchSymbolBars(gctx, s.benchmark, models.Timeframe1Day, start, barLimit)
		benchBars = bars
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ComputePerformance(symbol, s.benchmark, stockBars, benchBars, now)
}
