package portfolio

import (
	"sort"

	"github.com/bobmcallan/quoteboard/internal/models"
)

// maxTopPerformers caps the all-time performer list regardless of holding count.
const maxTopPerformers = 5

// moverCount returns how many daily movers to show for a portfolio of c holdings.
func moverCount(c int) int {
	switch {
	case c <= 1:
		return 0
	case c <= 3:
		return 1
	case c <= 5:
		return 2
	default:
		return 3
	}
}

// CalculateStats derives portfolio totals, allocation and ranked lists from
// holdings and their current quotes. Holdings without a quote are valued at
// zero. Every percentage is 0 when its denominator is not positive.
func CalculateStats(holdings []models.Holding, quotes map[string]models.Quote) *models.PortfolioStats {
	stats := &models.PortfolioStats{
		Allocation:    []models.AllocationItem{},
		TopGainers:    []models.MoverItem{},
		TopLosers:     []models.MoverItem{},
		TopPerformers: []models.PerformerItem{},
	}

	var previousTotalValue float64
	movers := make([]models.MoverItem, 0, len(holdings))
	performers := make([]models.PerformerItem, 0, len(holdings))

	for _, h := range holdings {
		q := quotes[h.Symbol]
		marketValue := h.Quantity * q.Price
		costBasis := h.CostBasis()
		prevMarketValue := h.Quantity * q.PrevClose

		stats.TotalValue += marketValue
		stats.TotalCost += costBasis
		previousTotalValue += prevMarketValue

		if marketValue > 0 {
			stats.Allocation = append(stats.Allocation, models.AllocationItem{
				Name:   h.Symbol,
				Symbol: h.Symbol,
				Value:  marketValue,
			})
		}

		var changePct float64
		if q.PrevClose > 0 {
			changePct = (q.Price - q.PrevClose) / q.PrevClose * 100
		}
		movers = append(movers, models.MoverItem{Symbol: h.Symbol, ChangePct: changePct, Price: q.Price})

		var returnPct float64
		if costBasis > 0 {
			returnPct = (marketValue - costBasis) / costBasis * 100
		}
		performers = append(performers, models.PerformerItem{
			Symbol:    h.Symbol,
			ReturnPct: returnPct,
			TotalPL:   marketValue - costBasis,
		})
	}

	stats.TotalUnrealizedPL = stats.TotalValue - stats.TotalCost
	if stats.TotalCost > 0 {
		stats.TotalReturnPct = stats.TotalUnrealizedPL / stats.TotalCost * 100
	}
	stats.DailyValueChange = stats.TotalValue - previousTotalValue
	if previousTotalValue > 0 {
		stats.DailyReturnPct = stats.DailyValueChange / previousTotalValue * 100
	}

	sort.SliceStable(movers, func(i, j int) bool {
		return movers[i].ChangePct > movers[j].ChangePct
	})

	c := len(holdings)
	if n := moverCount(c); c > 1 {
		for _, m := range movers[:n] {
			if m.ChangePct > 0 {
				stats.TopGainers = append(stats.TopGainers, m)
			}
		}
		// last n, worst first
		for i := len(movers) - 1; i >= len(movers)-n; i-- {
			if movers[i].ChangePct < 0 {
				stats.TopLosers = append(stats.TopLosers, movers[i])
			}
		}
	}

	sort.SliceStable(performers, func(i, j int) bool {
		return performers[i].ReturnPct > performers[j].ReturnPct
	})
	for _, p := range performers {
		if len(stats.TopPerformers) == maxTopPerformers {
			break
		}
		if p.ReturnPct > 0 {
			stats.TopPerformers = append(stats.TopPerformers, p)
		}
	}

	return stats
}
