package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// MergeHolding combines an existing position with an incoming one using a
// quantity-weighted average cost. A nil existing position yields incoming
// unchanged. When the combined quantity is zero the average cost is zero.
func MergeHolding(existing *models.Position, incoming models.Position) models.Position {
	if existing == nil {
		return incoming
	}

	oldQty := decimal.NewFromFloat(existing.Quantity)
	inQty := decimal.NewFromFloat(incoming.Quantity)
	newQty := oldQty.Add(inQty)
	if newQty.IsZero() {
		return models.Position{}
	}

	totalCost := oldQty.Mul(decimal.NewFromFloat(existing.AvgCost)).
		Add(inQty.Mul(decimal.NewFromFloat(incoming.AvgCost)))

	return models.Position{
		Quantity: newQty.InexactFloat64(),
		AvgCost:  totalCost.Div(newQty).InexactFloat64(),
	}
}

// ProposeMerge describes what saving input in merge mode would persist,
// given the user's current holding for the symbol (nil if none).
func ProposeMerge(existing *models.Holding, input models.HoldingInput) *models.HoldingMerge {
	incoming := models.Position{Quantity: input.Quantity, AvgCost: input.AvgCost}
	proposal := &models.HoldingMerge{
		Symbol:   input.Symbol,
		Incoming: incoming,
		Result:   incoming,
	}
	if existing != nil {
		current := models.Position{Quantity: existing.Quantity, AvgCost: existing.AvgCost}
		proposal.Existing = &current
		proposal.Result = MergeHolding(&current, incoming)
		proposal.Merged = true
	}
	return proposal
}
