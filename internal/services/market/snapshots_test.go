package market

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quoteboard/internal/models"
)

func TestGetSnapshots_MissingSymbolIsAbsent(t *testing.T) {
	client := &mockQuoteClient{equitySnaps: map[string]*models.Snapshot{
		"AAPL": snap(190, 188, fixedNow),
	}}
	svc := newTestService(client)

	snaps, err := svc.GetSnapshots(context.Background(), []string{"AAPL", "ZZZZINVALID"})
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
	assert.Contains(t, snaps, "AAPL")
	assert.NotContains(t, snaps, "ZZZZINVALID")
	assert.Equal(t, 1, client.equitySnapCalls)
	assert.Equal(t, 0, client.cryptoSnapCalls, "no crypto symbols means no crypto call")
}

func TestGetQuotes_MissingSymbolUnavailable(t *testing.T) {
	client := &mockQuoteClient{equitySnaps: map[string]*models.Snapshot{
		"AAPL": snap(190, 188, fixedNow),
	}}
	svc := newTestService(client)

	quotes, err := svc.GetQuotes(context.Background(), []string{"aapl", "ZZZZINVALID"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	assert.True(t, quotes["AAPL"].Available)
	assert.Equal(t, 190.0, quotes["AAPL"].Price)
	assert.InDelta(t, 2.0/188*100, quotes["AAPL"].ChangePct, 1e-9)

	missing := quotes["ZZZZINVALID"]
	assert.False(t, missing.Available)
	assert.Zero(t, missing.Price)
	assert.Zero(t, missing.ChangePct)
}

func TestGetSnapshots_PartitionsEquityAndCrypto(t *testing.T) {
	client := &mockQuoteClient{
		equitySnaps: map[string]*models.Snapshot{"MSFT": snap(400, 390, fixedNow)},
		cryptoSnaps: map[string]*models.Snapshot{"BTC/USD": snap(64000, 63000, fixedNow)},
	}
	svc := newTestService(client)

	snaps, err := svc.GetSnapshots(context.Background(), []string{"MSFT", "BTC/USD", "MSFT", " "})
	require.NoError(t, err)
	assert.Len(t, snaps, 2)
	assert.Equal(t, 1, client.equitySnapCalls)
	assert.Equal(t, 1, client.cryptoSnapCalls)
}

func TestGetSnapshots_FailedBatchReturnsEmptyAndError(t *testing.T) {
	providerErr := &models.ProviderError{Endpoint: "/v2/stocks/snapshots", StatusCode: 500}
	client := &mockQuoteClient{equitySnapErr: providerErr}
	svc := newTestService(client)

	snaps, err := svc.GetSnapshots(context.Background(), []string{"AAPL"})
	require.Error(t, err)
	assert.Empty(t, snaps)

	var pe *models.ProviderError
	assert.True(t, errors.As(err, &pe))
}

func TestGetSnapshots_OneBatchFailureKeepsOther(t *testing.T) {
	client := &mockQuoteClient{
		equitySnapErr: errors.New("boom"),
		cryptoSnaps:   map[string]*models.Snapshot{"ETH/USD": snap(3000, 2900, fixedNow)},
	}
	svc := newTestService(client)

	snaps, err := svc.GetSnapshots(context.Background(), []string{"AAPL", "ETH/USD"})
	require.Error(t, err)
	assert.Len(t, snaps, 1)
	assert.Contains(t, snaps, "ETH/USD")
}

func TestGetQuotes_DegradedOnBatchFailure(t *testing.T) {
	client := &mockQuoteClient{equitySnapErr: errors.New("boom")}
	svc := newTestService(client)

	quotes, err := svc.GetQuotes(context.Background(), []string{"AAPL", "MSFT"})
	require.Error(t, err)
	require.Len(t, quotes, 2)
	for _, q := range quotes {
		assert.False(t, q.Available)
	}
}

func TestGetSnapshots_EmptyInputNoCalls(t *testing.T) {
	client := &mockQuoteClient{}
	svc := newTestService(client)

	snaps, err := svc.GetSnapshots(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, snaps)
	assert.Zero(t, client.equitySnapCalls+client.cryptoSnapCalls)
}
