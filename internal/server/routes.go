package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/bobmcallan/quoteboard/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
// Symbols travel in the query string since crypto pairs contain a slash.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)

	// Market data
	mux.HandleFunc("/api/market/snapshots", s.handleMarketSnapshots)
	mux.HandleFunc("/api/market/quotes", s.handleMarketQuotes)
	mux.HandleFunc("/api/market/bars", s.handleMarketBars)
	mux.HandleFunc("/api/market/chart", s.handleMarketChart)
	mux.HandleFunc("/api/market/sparklines", s.handleMarketSparklines)
	mux.HandleFunc("/api/market/performance", s.handleMarketPerformance)
	mux.HandleFunc("/api/market/most-actives", s.handleMostActives)
	mux.HandleFunc("/api/market/movers", s.handleMarketMovers)
	mux.HandleFunc("/api/market/crypto", s.handleCryptoList)
	mux.HandleFunc("/api/market/asset", s.handleAsset)

	// Portfolio
	mux.HandleFunc("/api/portfolio/holdings/preview", s.handleHoldingPreview)
	mux.HandleFunc("/api/portfolio/holdings/", s.handleHoldingItem)
	mux.HandleFunc("/api/portfolio/holdings", s.handleHoldings)
	mux.HandleFunc("/api/portfolio/stats", s.handlePortfolioStats)

	// Watchlist
	mux.HandleFunc("/api/watchlist/", s.handleWatchlistItem)
	mux.HandleFunc("/api/watchlist", s.handleWatchlist)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":         common.GetFullVersion(),
		"uptime":          time.Since(s.app.StartupTime).Round(time.Second).String(),
		"goroutines":      runtime.NumGoroutine(),
		"heap_alloc":      mem.HeapAlloc,
		"storage_backend": s.app.Config.Storage.Backend,
		"benchmark":       s.app.Config.Market.Benchmark,
	})
}
