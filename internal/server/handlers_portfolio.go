package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// handleHoldings serves GET (list with quotes) and POST (save, ?mode=merge|replace).
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	if r.Method == http.MethodGet {
		holdings, err := s.app.PortfolioService.GetHoldings(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"holdings": holdings})
		return
	}

	var input models.HoldingInput
	if !DecodeJSON(w, r, &input) {
		return
	}
	mode := models.SaveMode(r.URL.Query().Get("mode"))

	saved, err := s.app.PortfolioService.SaveHolding(r.Context(), userID, input, mode)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, saved)
}

// handleHoldingItem serves DELETE /api/portfolio/holdings/{id}.
func (s *Server) handleHoldingItem(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	id := strings.TrimSpace(PathParam(r, "/api/portfolio/holdings/", ""))
	if id == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "holding id is required in path", "invalid_input")
		return
	}

	if err := s.app.PortfolioService.DeleteHolding(r.Context(), common.ResolveUserID(r.Context()), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHoldingPreview reports the merge a save would perform, without writing.
func (s *Server) handleHoldingPreview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	var input models.HoldingInput
	if !DecodeJSON(w, r, &input) {
		return
	}

	preview, err := s.app.PortfolioService.PreviewHolding(r.Context(), common.ResolveUserID(r.Context()), input)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, preview)
}

func (s *Server) handlePortfolioStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	stats, err := s.app.PortfolioService.GetStats(r.Context(), common.ResolveUserID(r.Context()))
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
