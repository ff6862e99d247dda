// Package models defines data structures for quoteboard
package models

import (
	"strings"
	"time"
)

// CryptoPairDelimiter separates base and quote assets in a crypto pair symbol (e.g. "BTC/USD").
const CryptoPairDelimiter = "/"

// IsCryptoSymbol reports whether the symbol names a crypto pair rather than an equity.
// This is the only place the pair delimiter is interpreted.
func IsCryptoSymbol(symbol string) bool {
	return strings.Count(symbol, CryptoPairDelimiter) == 1
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// PartitionSymbols splits symbols into equities and crypto pairs, dropping blanks and duplicates.
// Input order is preserved within each partition.
func PartitionSymbols(symbols []string) (equities, crypto []string) {
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		s = NormalizeSymbol(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		if IsCryptoSymbol(s) {
			crypto = append(crypto, s)
		} else {
			equities = append(equities, s)
		}
	}
	return equities, crypto
}

// Timeframe is a provider bar granularity such as "1Min", "15Min" or "1Day".
type Timeframe string

const (
	Timeframe1Min  Timeframe = "1Min"
	Timeframe5Min  Timeframe = "5Min"
	Timeframe15Min Timeframe = "15Min"
	Timeframe1Hour Timeframe = "1Hour"
	Timeframe1Day  Timeframe = "1Day"
	Timeframe1Week Timeframe = "1Week"
)

// ParseTimeframe validates a bar interval. Empty input returns ("", nil) so
// callers can apply a range-dependent default.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.TrimSpace(s)); tf {
	case "":
		return "", nil
	case Timeframe1Min, Timeframe5Min, Timeframe15Min, Timeframe1Hour, Timeframe1Day, Timeframe1Week:
		return tf, nil
	default:
		return "", &InvalidInputError{Field: "interval", Reason: "unsupported timeframe " + s}
	}
}

// Bar is one OHLCV observation for a symbol at a given granularity.
type Bar struct {
	Timestamp time.Time `json:"t"`
	Open      float64   `json:"o"`
	High      float64   `json:"h"`
	Low       float64   `json:"l"`
	Close     float64   `json:"c"`
	Volume    float64   `json:"v"`
}

// Trade is the latest trade print for a symbol.
type Trade struct {
	Price     float64   `json:"p"`
	Timestamp time.Time `json:"t"`
}

// Snapshot is the latest known state for a symbol. Every part is optional:
// the provider omits sections it has no data for, and present sections may be
// stale when the market is closed.
type Snapshot struct {
	LatestTrade  *Trade `json:"latestTrade,omitempty"`
	DailyBar     *Bar   `json:"dailyBar,omitempty"`
	PrevDailyBar *Bar   `json:"prevDailyBar,omitempty"`
}

// Price resolves the current price: latest trade, else the session bar close.
func (s *Snapshot) Price() (float64, bool) {
	if s == nil {
		return 0, false
	}
	if s.LatestTrade != nil {
		return s.LatestTrade.Price, true
	}
	if s.DailyBar != nil {
		return s.DailyBar.Close, true
	}
	return 0, false
}

// PrevClose resolves the previous session close.
func (s *Snapshot) PrevClose() (float64, bool) {
	if s == nil || s.PrevDailyBar == nil {
		return 0, false
	}
	return s.PrevDailyBar.Close, true
}

// LastUpdated returns the latest trade time, or zero when unknown.
func (s *Snapshot) LastUpdated() time.Time {
	if s == nil || s.LatestTrade == nil {
		return time.Time{}
	}
	return s.LatestTrade.Timestamp
}

// Quote is the presentation form of a snapshot. Numeric fields default to zero
// when the upstream omitted them; Available distinguishes "price is 0" from
// "price unknown".
type Quote struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Open        float64   `json:"open"`
	High        float64   `json:"high"`
	Low         float64   `json:"low"`
	Close       float64   `json:"close"`
	Volume      float64   `json:"volume"`
	PrevClose   float64   `json:"prev_close"`
	Change      float64   `json:"change"`
	ChangePct   float64   `json:"change_pct"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
	Available   bool      `json:"available"`
	Stale       bool      `json:"stale"`
}

// ResolveQuote flattens an optional snapshot into a Quote. A nil snapshot
// yields a zero-valued quote with Available=false.
func ResolveQuote(symbol string, snap *Snapshot) Quote {
	q := Quote{Symbol: symbol}
	price, ok := snap.Price()
	if !ok {
		return q
	}
	q.Available = true
	q.Price = price
	if snap.DailyBar != nil {
		q.Open = snap.DailyBar.Open
		q.High = snap.DailyBar.High
		q.Low = snap.DailyBar.Low
		q.Close = snap.DailyBar.Close
		q.Volume = snap.DailyBar.Volume
	}
	q.PrevClose, _ = snap.PrevClose()
	q.Change = q.Price - q.PrevClose
	if q.PrevClose != 0 {
		q.ChangePct = q.Change / q.PrevClose * 100
	}
	q.LastUpdated = snap.LastUpdated()
	return q
}

// ScreenerEntry is one ranked row returned by a provider screener.
// Most-actives rows carry only the symbol and activity; mover rows carry prices.
type ScreenerEntry struct {
	Symbol        string  `json:"symbol"`
	Volume        float64 `json:"volume,omitempty"`
	TradeCount    float64 `json:"trade_count,omitempty"`
	Price         float64 `json:"price,omitempty"`
	Change        float64 `json:"change,omitempty"`
	PercentChange float64 `json:"percent_change,omitempty"`
}

// ScreenerStock is a priced screener row.
type ScreenerStock struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	PercentChange float64 `json:"percent_change"`
	Available     bool    `json:"available"`
}

// MarketMovers holds the provider's top gainers and losers.
type MarketMovers struct {
	Gainers []ScreenerStock `json:"gainers"`
	Losers  []ScreenerStock `json:"losers"`
}

// CryptoQuote is a crypto list row with a short intraday sparkline.
type CryptoQuote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percent_change"`
	Volume24h     float64   `json:"volume_24h"`
	Sparkline     []float64 `json:"sparkline"`
	Available     bool      `json:"available"`
}

// Asset is human-readable metadata for a symbol.
type Asset struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Class    string `json:"class"`
}

// Closes extracts the close prices from a bar series.
func Closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}
