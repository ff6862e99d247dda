package market

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// GetSnapshots resolves a mixed symbol list with one batched request per
// sub-API. Symbols missing from a response are absent from the map. A failed
// batch contributes nothing and its error is returned with whatever the other
// batch resolved.
func (s *Service) GetSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	equities, crypto := models.PartitionSymbols(symbols)

	var (
		mu     sync.Mutex
		result = make(map[string]*models.Snapshot, len(equities)+len(crypto))
		errs   []error
	)
	collect := func(snaps map[string]*models.Snapshot, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			errs = append(errs, err)
			return
		}
		for sym, snap := range snaps {
			result[sym] = snap
		}
	}

	// Plain group: a failed batch must not cancel the other.
	var g errgroup.Group
	if len(equities) > 0 {
		g.Go(func() error {
			collect(s.client.FetchBatchSnapshots(ctx, equities))
			return nil
		})
	}
	if len(crypto) > 0 {
		g.Go(func() error {
			collect(s.client.FetchCryptoSnapshots(ctx, crypto))
			return nil
		})
	}
	_ = g.Wait()

	return result, errors.Join(errs...)
}

// GetQuotes resolves every requested symbol into a Quote. Symbols without
// data, including those in a failed batch, get Available=false.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	snaps, err := s.GetSnapshots(ctx, symbols)
	if err != nil {
		s.logger.Error().Err(err).Int("symbols", len(symbols)).Msg("Snapshot batch failed, serving degraded quotes")
	}
	return s.resolveQuotes(symbols, snaps, s.now()), err
}

func (s *Service) resolveQuotes(symbols []string, snaps map[string]*models.Snapshot, now time.Time) map[string]models.Quote {
	quotes := make(map[string]models.Quote, len(symbols))
	for _, sym := range symbols {
		sym = models.NormalizeSymbol(sym)
		if sym == "" {
			continue
		}
		q := models.ResolveQuote(sym, snaps[sym])
		if q.Available {
			q.Stale = s.session.IsStale(sym, q.LastUpdated, now)
		}
		quotes[sym] = q
	}
	return quotes
}
