package server

import (
	"net/http"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// requireSymbols reads ?symbols= and writes a 400 when it is empty.
func requireSymbols(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	symbols := SymbolsParam(r)
	if len(symbols) == 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, "symbols query parameter is required", "invalid_input")
		return nil, false
	}
	return symbols, true
}

// requireSymbol reads ?symbol= and writes a 400 when it is empty.
func requireSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := models.NormalizeSymbol(r.URL.Query().Get("symbol"))
	if symbol == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "symbol query parameter is required", "invalid_input")
		return "", false
	}
	return symbol, true
}

// handleMarketSnapshots returns raw snapshots. A failed batch leaves its
// symbols absent; only a total failure is an error response.
func (s *Server) handleMarketSnapshots(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbols, ok := requireSymbols(w, r)
	if !ok {
		return
	}

	snaps, err := s.app.MarketService.GetSnapshots(r.Context(), symbols)
	if err != nil {
		if len(snaps) == 0 {
			WriteServiceError(w, err)
			return
		}
		s.logger.Warn().Err(err).Int("resolved", len(snaps)).Msg("Partial snapshot response")
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"snapshots": snaps})
}

// handleMarketQuotes returns a quote for every requested symbol. Provider
// failures degrade to unavailable quotes rather than an error.
func (s *Server) handleMarketQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbols, ok := requireSymbols(w, r)
	if !ok {
		return
	}

	quotes, err := s.app.MarketService.GetQuotes(r.Context(), symbols)
	if err != nil && quotes == nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

func (s *Server) handleMarketBars(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}
	interval, err := models.ParseTimeframe(r.URL.Query().Get("interval"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	rangeName := r.URL.Query().Get("range")

	bars, err := s.app.MarketService.GetBars(r.Context(), symbol, rangeName, interval)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"range":  rangeName,
		"bars":   bars,
	})
}

func (s *Server) handleMarketChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}
	interval, err := models.ParseTimeframe(r.URL.Query().Get("interval"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	png, err := s.app.MarketService.RenderChart(r.Context(), symbol, r.URL.Query().Get("range"), interval)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

func (s *Server) handleMarketSparklines(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbols, ok := requireSymbols(w, r)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"sparklines": s.app.MarketService.GetSparklines(r.Context(), symbols),
	})
}

func (s *Server) handleMarketPerformance(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}

	perf, err := s.app.MarketService.GetStockPerformance(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, perf)
}

func (s *Server) handleMostActives(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	stocks, err := s.app.MarketService.GetMostActives(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"most_actives": stocks})
}

func (s *Server) handleMarketMovers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	movers, err := s.app.MarketService.GetMarketMovers(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, movers)
}

func (s *Server) handleCryptoList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	list, err := s.app.MarketService.GetCryptoList(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"crypto": list})
}

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}
	asset, err := s.app.MarketService.GetAsset(r.Context(), symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, asset)
}
