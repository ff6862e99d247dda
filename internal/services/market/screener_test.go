package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quoteboard/internal/models"
)

func TestGetMostActives_PricedViaSnapshots(t *testing.T) {
	client := &mockQuoteClient{
		mostActives: []models.ScreenerEntry{{Symbol: "NVDA", Volume: 9000}, {Symbol: "GONE", Volume: 10}},
		equitySnaps: map[string]*models.Snapshot{"NVDA": snap(110, 100, fixedNow)},
	}
	svc := newTestService(client)

	rows, err := svc.GetMostActives(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "NVDA", rows[0].Symbol)
	assert.True(t, rows[0].Available)
	assert.Equal(t, 110.0, rows[0].Price)
	assert.InDelta(t, 10.0, rows[0].PercentChange, 1e-9)

	assert.Equal(t, "GONE", rows[1].Symbol)
	assert.False(t, rows[1].Available)
	assert.Equal(t, 1, client.equitySnapCalls)
}

func TestGetMostActives_PricingFailureDegrades(t *testing.T) {
	client := &mockQuoteClient{
		mostActives:   []models.ScreenerEntry{{Symbol: "NVDA"}},
		equitySnapErr: errors.New("boom"),
	}
	svc := newTestService(client)

	rows, err := svc.GetMostActives(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Available)
}

func TestGetMarketMovers(t *testing.T) {
	client := &mockQuoteClient{
		gainers: []models.ScreenerEntry{{Symbol: "UP", Price: 10, Change: 2, PercentChange: 25}},
		losers:  []models.ScreenerEntry{{Symbol: "DN", Price: 5, Change: -1, PercentChange: -16.7}},
	}
	svc := newTestService(client)

	movers, err := svc.GetMarketMovers(context.Background())
	require.NoError(t, err)
	require.Len(t, movers.Gainers, 1)
	require.Len(t, movers.Losers, 1)
	assert.Equal(t, 25.0, movers.Gainers[0].PercentChange)
	assert.True(t, movers.Losers[0].Available)
}

func TestGetCryptoList_ConfiguredOrderWithSparklines(t *testing.T) {
	client := &mockQuoteClient{
		cryptoSnaps: map[string]*models.Snapshot{"ETH/USD": snap(3000, 2500, fixedNow)},
		bars: map[string][]models.Bar{
			"ETH/USD": dailyBars(fixedNow.AddDate(0, 0, -1), 2900, 3000),
		},
	}
	svc := newTestService(client)

	list, err := svc.GetCryptoList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "BTC/USD", list[0].Symbol)
	assert.False(t, list[0].Available)
	assert.Empty(t, list[0].Sparkline)

	eth := list[1]
	assert.Equal(t, "ETH/USD", eth.Symbol)
	assert.True(t, eth.Available)
	assert.Equal(t, 500.0, eth.Change)
	assert.InDelta(t, 20.0, eth.PercentChange, 1e-9)
	assert.Equal(t, 1000.0, eth.Volume24h)
	assert.Equal(t, []float64{2900, 3000}, eth.Sparkline)
	assert.Equal(t, cryptoSparklineLimit, client.lastBarLimit, "limit applies per pair")
}

func TestGetCryptoList_SparklineFailureKeepsQuotes(t *testing.T) {
	client := &mockQuoteClient{
		cryptoSnaps:   map[string]*models.Snapshot{"BTC/USD": snap(64000, 64000, fixedNow)},
		cryptoBarsErr: errors.New("bars down"),
	}
	svc := newTestService(client)

	list, err := svc.GetCryptoList(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Available)
	assert.Empty(t, list[0].Sparkline)
}

func TestGetCryptoList_SnapshotFailureIsError(t *testing.T) {
	client := &mockQuoteClient{cryptoSnapErr: errors.New("down")}
	svc := newTestService(client)

	_, err := svc.GetCryptoList(context.Background())
	assert.Error(t, err)
}
