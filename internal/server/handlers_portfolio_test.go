package server

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/models"
)

func TestHoldings_ListScopedToHeaderUser(t *testing.T) {
	var gotUser string
	portfolio := &mockPortfolioService{
		getHoldings: func(_ context.Context, userID string) ([]models.HoldingView, error) {
			gotUser = userID
			return []models.HoldingView{{Holding: models.Holding{Symbol: "AAPL", Quantity: 10}}}, nil
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodGet, "/api/portfolio/holdings", "", UserIDHeader, "alice")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "alice", gotUser)

	rr = do(s, http.MethodGet, "/api/portfolio/holdings", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, common.DefaultUserID, gotUser)
}

func TestHoldings_SaveForwardsMode(t *testing.T) {
	var gotMode models.SaveMode
	var gotInput models.HoldingInput
	portfolio := &mockPortfolioService{
		saveHolding: func(_ context.Context, userID string, input models.HoldingInput, mode models.SaveMode) (*models.Holding, error) {
			gotMode, gotInput = mode, input
			return &models.Holding{ID: "h1", UserID: userID, Symbol: input.Symbol, Quantity: 20, AvgCost: 150}, nil
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodPost, "/api/portfolio/holdings?mode=replace", `{"symbol":"AAPL","quantity":10,"avg_cost":200}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.SaveModeReplace, gotMode)
	assert.Equal(t, 10.0, gotInput.Quantity)

	var saved models.Holding
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &saved))
	assert.Equal(t, "h1", saved.ID)
}

func TestHoldings_SaveInvalidInput(t *testing.T) {
	portfolio := &mockPortfolioService{
		saveHolding: func(context.Context, string, models.HoldingInput, models.SaveMode) (*models.Holding, error) {
			return nil, &models.InvalidInputError{Field: "mode", Reason: "must be merge or replace"}
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodPost, "/api/portfolio/holdings?mode=append", `{"symbol":"AAPL","quantity":1,"avg_cost":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(s, http.MethodPost, "/api/portfolio/holdings", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHoldingItem_Delete(t *testing.T) {
	var gotUser, gotID string
	portfolio := &mockPortfolioService{
		deleteHolding: func(_ context.Context, userID, id string) error {
			gotUser, gotID = userID, id
			if id == "missing" {
				return models.ErrNotFound
			}
			return nil
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodDelete, "/api/portfolio/holdings/h1", "", UserIDHeader, "bob")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "bob", gotUser)
	assert.Equal(t, "h1", gotID)

	rr = do(s, http.MethodDelete, "/api/portfolio/holdings/missing", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(s, http.MethodDelete, "/api/portfolio/holdings/", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHoldingPreview(t *testing.T) {
	portfolio := &mockPortfolioService{
		previewHolding: func(_ context.Context, userID string, input models.HoldingInput) (*models.HoldingMerge, error) {
			return &models.HoldingMerge{
				Symbol:   input.Symbol,
				Existing: &models.Position{Quantity: 10, AvgCost: 100},
				Incoming: models.Position{Quantity: input.Quantity, AvgCost: input.AvgCost},
				Result:   models.Position{Quantity: 20, AvgCost: 150},
				Merged:   true,
			}, nil
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodPost, "/api/portfolio/holdings/preview", `{"symbol":"AAPL","quantity":10,"avg_cost":200}`)
	require.Equal(t, http.StatusOK, rr.Code)

	var merge models.HoldingMerge
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &merge))
	assert.True(t, merge.Merged)
	assert.Equal(t, 150.0, merge.Result.AvgCost)
}

func TestPortfolioStats(t *testing.T) {
	portfolio := &mockPortfolioService{
		getStats: func(context.Context, string) (*models.PortfolioStats, error) {
			return &models.PortfolioStats{
				TotalValue:    2500,
				Allocation:    []models.AllocationItem{},
				TopGainers:    []models.MoverItem{},
				TopLosers:     []models.MoverItem{},
				TopPerformers: []models.PerformerItem{},
			}, nil
		},
	}
	s := newTestServer(t, nil, portfolio, nil)

	rr := do(s, http.MethodGet, "/api/portfolio/stats", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"top_gainers":[]`)
	assert.Contains(t, rr.Body.String(), `"total_value":2500`)
}
