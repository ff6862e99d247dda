package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/quoteboard/internal/common"
)

type watchlistAddRequest struct {
	Symbol string `json:"symbol"`
}

// handleWatchlist serves GET (list with quotes) and POST (add symbol).
func (s *Server) handleWatchlist(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	if r.Method == http.MethodGet {
		items, err := s.app.WatchlistService.GetWatchlist(r.Context(), userID)
		if err != nil {
			WriteServiceError(w, err)
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"items": items})
		return
	}

	var req watchlistAddRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	entry, err := s.app.WatchlistService.AddSymbol(r.Context(), userID, req.Symbol)
	if err != nil {
		WriteServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, entry)
}

// handleWatchlistItem serves DELETE /api/watchlist/{id}.
func (s *Server) handleWatchlistItem(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	id := strings.TrimSpace(PathParam(r, "/api/watchlist/", ""))
	if id == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "watchlist item id is required in path", "invalid_input")
		return
	}

	if err := s.app.WatchlistService.RemoveItem(r.Context(), common.ResolveUserID(r.Context()), id); err != nil {
		WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
