package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/quoteboard/internal/app"
	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/interfaces"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// mockMarketService implements interfaces.MarketService for testing.
// Unset funcs panic via the embedded nil interface.
type mockMarketService struct {
	interfaces.MarketService
	getSnapshots   func(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error)
	getQuotes      func(ctx context.Context, symbols []string) (map[string]models.Quote, error)
	getBars        func(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]models.Bar, error)
	getSparklines  func(ctx context.Context, symbols []string) map[string][]float64
	getPerformance func(ctx context.Context, symbol string) (*models.StockPerformance, error)
	getMostActives func(ctx context.Context) ([]models.ScreenerStock, error)
	getMovers      func(ctx context.Context) (*models.MarketMovers, error)
	getCryptoList  func(ctx context.Context) ([]models.CryptoQuote, error)
	getAsset       func(ctx context.Context, symbol string) (*models.Asset, error)
	renderChart    func(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]byte, error)
}

func (m *mockMarketService) GetSnapshots(ctx context.Context, symbols []string) (map[string]*models.Snapshot, error) {
	return m.getSnapshots(ctx, symbols)
}

func (m *mockMarketService) GetQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error) {
	return m.getQuotes(ctx, symbols)
}

func (m *mockMarketService) GetBars(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]models.Bar, error) {
	return m.getBars(ctx, symbol, rangeName, interval)
}

func (m *mockMarketService) GetSparklines(ctx context.Context, symbols []string) map[string][]float64 {
	return m.getSparklines(ctx, symbols)
}

func (m *mockMarketService) GetStockPerformance(ctx context.Context, symbol string) (*models.StockPerformance, error) {
	return m.getPerformance(ctx, symbol)
}

func (m *mockMarketService) GetMostActives(ctx context.Context) ([]models.ScreenerStock, error) {
	return m.getMostActives(ctx)
}

func (m *mockMarketService) GetMarketMovers(ctx context.Context) (*models.MarketMovers, error) {
	return m.getMovers(ctx)
}

func (m *mockMarketService) GetCryptoList(ctx context.Context) ([]models.CryptoQuote, error) {
	return m.getCryptoList(ctx)
}

func (m *mockMarketService) GetAsset(ctx context.Context, symbol string) (*models.Asset, error) {
	return m.getAsset(ctx, symbol)
}

func (m *mockMarketService) RenderChart(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]byte, error) {
	return m.renderChart(ctx, symbol, rangeName, interval)
}

// mockPortfolioService implements interfaces.PortfolioService for testing.
type mockPortfolioService struct {
	interfaces.PortfolioService
	getHoldings    func(ctx context.Context, userID string) ([]models.HoldingView, error)
	getStats       func(ctx context.Context, userID string) (*models.PortfolioStats, error)
	previewHolding func(ctx context.Context, userID string, input models.HoldingInput) (*models.HoldingMerge, error)
	saveHolding    func(ctx context.Context, userID string, input models.HoldingInput, mode models.SaveMode) (*models.Holding, error)
	deleteHolding  func(ctx context.Context, userID, id string) error
}

func (m *mockPortfolioService) GetHoldings(ctx context.Context, userID string) ([]models.HoldingView, error) {
	return m.getHoldings(ctx, userID)
}

func (m *mockPortfolioService) GetStats(ctx context.Context, userID string) (*models.PortfolioStats, error) {
	return m.getStats(ctx, userID)
}

func (m *mockPortfolioService) PreviewHolding(ctx context.Context, userID string, input models.HoldingInput) (*models.HoldingMerge, error) {
	return m.previewHolding(ctx, userID, input)
}

func (m *mockPortfolioService) SaveHolding(ctx context.Context, userID string, input models.HoldingInput, mode models.SaveMode) (*models.Holding, error) {
	return m.saveHolding(ctx, userID, input, mode)
}

func (m *mockPortfolioService) DeleteHolding(ctx context.Context, userID, id string) error {
	return m.deleteHolding(ctx, userID, id)
}

// mockWatchlistService implements interfaces.WatchlistService for testing.
type mockWatchlistService struct {
	getWatchlist func(ctx context.Context, userID string) ([]models.WatchlistView, error)
	addSymbol    func(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error)
	removeItem   func(ctx context.Context, userID, id string) error
}

func (m *mockWatchlistService) GetWatchlist(ctx context.Context, userID string) ([]models.WatchlistView, error) {
	return m.getWatchlist(ctx, userID)
}

func (m *mockWatchlistService) AddSymbol(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error) {
	return m.addSymbol(ctx, userID, symbol)
}

func (m *mockWatchlistService) RemoveItem(ctx context.Context, userID, id string) error {
	return m.removeItem(ctx, userID, id)
}

// newTestServer builds a Server over the given mocks; nil services get empty mocks.
func newTestServer(t *testing.T, market *mockMarketService, portfolio *mockPortfolioService, watchlist *mockWatchlistService) *Server {
	t.Helper()
	if market == nil {
		market = &mockMarketService{}
	}
	if portfolio == nil {
		portfolio = &mockPortfolioService{}
	}
	if watchlist == nil {
		watchlist = &mockWatchlistService{}
	}
	return NewServer(&app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		MarketService:    market,
		PortfolioService: portfolio,
		WatchlistService: watchlist,
		StartupTime:      time.Now(),
	})
}

// do sends a request through the full middleware stack.
func do(s *Server, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}
