package market

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// mockQuoteClient serves canned data and counts calls.
type mockQuoteClient struct {
	mu sync.Mutex

	equitySnaps map[string]*models.Snapshot
	cryptoSnaps map[string]*models.Snapshot
	bars        map[string][]models.Bar
	barErrs     map[string]error
	mostActives []models.ScreenerEntry
	gainers     []models.ScreenerEntry
	losers      []models.ScreenerEntry

	equitySnapErr error
	cryptoSnapErr error
	cryptoBarsErr error

	barDelay    time.Duration
	inFlight    atomic.Int32
	maxInFlight atomic.Int32

	equitySnapCalls int
	cryptoSnapCalls int
	barCalls        []string
	lastBarStart    time.Time
	lastBarLimit    int
}

func (m *mockQuoteClient) FetchBatchSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equitySnapCalls++
	if m.equitySnapErr != nil {
		return nil, m.equitySnapErr
	}
	out := make(map[string]*models.Snapshot)
	for _, s := range symbols {
		if snap, ok := m.equitySnaps[s]; ok {
			out[s] = snap
		}
	}
	return out, nil
}

func (m *mockQuoteClient) FetchCryptoSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cryptoSnapCalls++
	if m.cryptoSnapErr != nil {
		return nil, m.cryptoSnapErr
	}
	out := make(map[string]*models.Snapshot)
	for _, s := range symbols {
		if snap, ok := m.cryptoSnaps[s]; ok {
			out[s] = snap
		}
	}
	return out, nil
}

func (m *mockQuoteClient) trackBar(symbol string, start time.Time, limit int) (func(), []models.Bar, error) {
	n := m.inFlight.Add(1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	m.mu.Lock()
	m.barCalls = append(m.barCalls, symbol)
	m.lastBarStart = start
	m.lastBarLimit = limit
	bars, err := m.bars[symbol], m.barErrs[symbol]
	m.mu.Unlock()
	return func() { m.inFlight.Add(-1) }, bars, err
}

func (m *mockQuoteClient) FetchBars(ctx context.Context, symbol string, tf models.Timeframe, start time.Time, limit int) ([]models.Bar, error) {
	done, bars, err := m.trackBar(symbol, start, limit)
	defer done()
	if m.barDelay > 0 {
		select {
		case <-time.After(m.barDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return bars, nil
}

func (m *mockQuoteClient) FetchCryptoBars(ctx context.Context, symbols []string, tf models.Timeframe, start time.Time, limit int) (map[string][]models.Bar, error) {
	if m.cryptoBarsErr != nil {
		return nil, m.cryptoBarsErr
	}
	out := make(map[string][]models.Bar)
	for _, s := range symbols {
		done, bars, err := m.trackBar(s, start, limit)
		done()
		if err != nil {
			return nil, err
		}
		if bars != nil {
			out[s] = bars
		}
	}
	return out, nil
}

func (m *mockQuoteClient) FetchMostActives(ctx context.Context, top int) ([]models.ScreenerEntry, error) {
	return m.mostActives, nil
}

func (m *mockQuoteClient) FetchMovers(ctx context.Context, top int) ([]models.ScreenerEntry, []models.ScreenerEntry, error) {
	return m.gainers, m.losers, nil
}

func (m *mockQuoteClient) FetchAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	return &models.Asset{Symbol: symbol, Name: symbol + " Inc."}, nil
}

// fixedNow is a Monday mid-session in New York.
var fixedNow = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

func newTestService(client *mockQuoteClient) *Service {
	cfg := common.NewDefaultConfig().Market
	cfg.CryptoSymbols = []string{"BTC/USD", "ETH/USD"}
	svc := NewService(client, cfg, common.NewSilentLogger())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func snap(price, prevClose float64, tradeAt time.Time) *models.Snapshot {
	return &models.Snapshot{
		LatestTrade:  &models.Trade{Price: price, Timestamp: tradeAt},
		DailyBar:     &models.Bar{Close: price, Volume: 1000},
		PrevDailyBar: &models.Bar{Close: prevClose},
	}
}

// dailyBars builds one bar per day from start with the given closes.
func dailyBars(start time.Time, closes ...float64) []models.Bar {
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{Timestamp: start.AddDate(0, 0, i), Close: c}
	}
	return bars
}
