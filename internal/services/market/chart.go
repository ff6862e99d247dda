package market

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// RenderChart fetches the symbol's bars over rangeName and renders a PNG close-price line chart.
func (s *Service) RenderChart(ctx context.Context, symbol, rangeName string, interval models.Timeframe) ([]byte, error) {
	bars, err := s.GetBars(ctx, symbol, rangeName, interval)
	if err != nil {
		return nil, err
	}
	return RenderPriceChart(models.NormalizeSymbol(symbol), bars)
}

// RenderPriceChart renders ascending bars as a PNG line chart of closes.
// Returns raw PNG bytes.
func RenderPriceChart(symbol string, bars []models.Bar) ([]byte, error) {
	if len(bars) < 2 {
		return nil, &models.InsufficientHistoryError{Symbol: symbol, Bars: len(bars)}
	}

	xValues := make([]time.Time, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		xValues[i] = b.Timestamp
		closes[i] = b.Close
	}

	color := "16a34a" // green-600
	if closes[len(closes)-1] < closes[0] {
		color = "dc2626" // red-600
	}

	priceSeries := chart.TimeSeries{
		Name: symbol,
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex(color),
			StrokeWidth: 2,
		},
		XValues: xValues,
		YValues: closes,
	}

	dateFormat := "Jan 02"
	if span := xValues[len(xValues)-1].Sub(xValues[0]); span < 48*time.Hour {
		dateFormat = "15:04"
	} else if span > 2*365*24*time.Hour {
		dateFormat = "Jan 06"
	}

	graph := chart.Chart{
		Title:  symbol,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format(dateFormat)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatMoney(f, common.DefaultCurrency)
				}
				return ""
			},
		},
		Series: []chart.Series{priceSeries},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
