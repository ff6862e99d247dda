package models

import "time"

// WatchlistEntry is a symbol tracked for price only. Unique per (UserID, Symbol).
type WatchlistEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	CreatedAt time.Time `json:"created_at"`
}

// WatchlistView is a watchlist entry joined with its current quote.
type WatchlistView struct {
	WatchlistEntry
	Quote Quote `json:"market_data"`
}
