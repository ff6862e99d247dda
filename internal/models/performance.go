package models

// Performance period labels, in output order.
const (
	PeriodYTD   = "YTD Return"
	Period1Year = "1-Year Return"
	Period3Year = "3-Year Return"
	Period5Year = "5-Year Return"
)

// PerformancePeriod is one trailing-return row for a symbol against its benchmark.
type PerformancePeriod struct {
	Period          string  `json:"period"`
	StockReturn     float64 `json:"stock_return"`
	BenchmarkReturn float64 `json:"benchmark_return"`
}

// StockPerformance is the fixed four-row performance table.
type StockPerformance struct {
	Symbol    string              `json:"symbol"`
	Benchmark string              `json:"benchmark"`
	Periods   []PerformancePeriod `json:"periods"`
}
