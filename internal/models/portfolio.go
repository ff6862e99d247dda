// Package models defines data structures for quoteboard
package models

import (
	"time"
)

// Holding is a user-owned position. Quantity * AvgCost is the cost basis.
// Rows are unique per (UserID, Symbol).
type Holding struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Symbol    string    `json:"symbol"`
	Quantity  float64   `json:"quantity"`
	AvgCost   float64   `json:"avg_cost"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CostBasis returns quantity times average cost.
func (h Holding) CostBasis() float64 {
	return h.Quantity * h.AvgCost
}

// HoldingInput is a user submission for a position.
type HoldingInput struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"`
}

// Validate normalises the symbol and rejects negative amounts.
func (in *HoldingInput) Validate() error {
	in.Symbol = NormalizeSymbol(in.Symbol)
	if in.Symbol == "" {
		return &InvalidInputError{Field: "symbol", Reason: "is required"}
	}
	if in.Quantity < 0 {
		return &InvalidInputError{Field: "quantity", Reason: "must be >= 0"}
	}
	if in.AvgCost < 0 {
		return &InvalidInputError{Field: "avg_cost", Reason: "must be >= 0"}
	}
	return nil
}

// Position is a quantity/average-cost pair, the unit the merge policy works on.
type Position struct {
	Quantity float64 `json:"quantity"`
	AvgCost  float64 `json:"avg_cost"`
}

// SaveMode selects how a submission for an already-held symbol is applied.
type SaveMode string

const (
	SaveModeMerge   SaveMode = "merge"
	SaveModeReplace SaveMode = "replace"
)

// HoldingMerge is a proposed change to a position. Existing is nil when the
// symbol is not yet held; Result is what would be persisted.
type HoldingMerge struct {
	Symbol   string    `json:"symbol"`
	Existing *Position `json:"existing,omitempty"`
	Incoming Position  `json:"incoming"`
	Result   Position  `json:"result"`
	Merged   bool      `json:"merged"`
}

// HoldingView is a holding joined with its current quote.
type HoldingView struct {
	Holding
	Quote Quote `json:"market_data"`
}

// AllocationItem is one slice of the allocation view.
type AllocationItem struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Value  float64 `json:"value"`
}

// MoverItem is a daily mover. ChangePct is a percentage.
type MoverItem struct {
	Symbol    string  `json:"symbol"`
	ChangePct float64 `json:"change_pct"`
	Price     float64 `json:"price"`
}

// PerformerItem is an all-time performer. ReturnPct is a percentage.
type PerformerItem struct {
	Symbol    string  `json:"symbol"`
	ReturnPct float64 `json:"return_pct"`
	TotalPL   float64 `json:"total_pl"`
}

// PortfolioStats is derived on every read from holdings and current quotes.
type PortfolioStats struct {
	TotalValue        float64          `json:"total_value"`
	TotalCost         float64          `json:"total_cost"`
	TotalUnrealizedPL float64          `json:"total_unrealized_pl"`
	TotalReturnPct    float64          `json:"total_return_pct"`
	DailyValueChange  float64          `json:"daily_value_change"`
	DailyReturnPct    float64          `json:"daily_return_pct"`
	Allocation        []AllocationItem `json:"allocation"`
	TopGainers        []MoverItem      `json:"top_gainers"`
	TopLosers         []MoverItem      `json:"top_losers"`
	TopPerformers     []PerformerItem  `json:"top_performers"`
}
