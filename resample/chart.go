package resample

import (
	"fmt"
	"time"

	"github.com/rustyeddy/maxoi/market"
)

// Chart is the columnar payload handed to the external renderer. Every
// column has one entry per bucket; absent entries encode as null.
type Chart struct {
	Title     string         `json:"title"`
	Symbol    string         `json:"symbol"`
	Date      string         `json:"date"`
	Timeframe string         `json:"timeframe"`
	Time      []time.Time    `json:"time"`
	Open      []market.Value `json:"open"`
	High      []market.Value `json:"high"`
	Low       []market.Value `json:"low"`
	Close     []market.Value `json:"close"`
	Series    []ChartSeries  `json:"series"`
	Style     ChartStyle     `json:"style"`
}

// ChartSeries is an auxiliary series drawn over the candles.
type ChartSeries struct {
	Name       string         `json:"name"`
	Kind       string         `json:"kind"` // "line" or "scatter"
	Color      string         `json:"color"`
	MarkerSize int            `json:"marker_size,omitempty"`
	Values     []market.Value `json:"values"`
}

// ChartStyle carries the candle colours and grid look.
type ChartStyle struct {
	Up        string  `json:"up"`
	Down      string  `json:"down"`
	Grid      string  `json:"grid"`
	GridStyle string  `json:"grid_style"`
	LineWidth float64 `json:"line_width"`
}

// DefaultChartStyle is teal up candles, red down candles, a dotted grey grid.
var DefaultChartStyle = ChartStyle{
	Up:        "#26a69a",
	Down:      "#ef5350",
	Grid:      "gray",
	GridStyle: "dotted",
	LineWidth: 0.5,
}

// Chart lays the result out for the renderer: overlays first as lines,
// then the CE and PE max OI strikes as scatter points.
func (r *Result) Chart() Chart {
	date := r.Date.Format(market.DateLayout)

	series := make([]ChartSeries, 0, len(r.Overlays)+2)
	for _, o := range r.Overlays {
		series = append(series, ChartSeries{
			Name:   o.Name(),
			Kind:   "line",
			Color:  o.Color,
			Values: o.Values,
		})
	}
	series = append(series,
		ChartSeries{
			Name:       "CE Max OI Strike",
			Kind:       "scatter",
			Color:      DefaultChartStyle.Down,
			MarkerSize: 20,
			Values:     r.Column("ce_max_oi_strike"),
		},
		ChartSeries{
			Name:       "PE Max OI Strike",
			Kind:       "scatter",
			Color:      DefaultChartStyle.Up,
			MarkerSize: 20,
			Values:     r.Column("pe_max_oi_strike"),
		},
	)

	return Chart{
		Title: fmt.Sprintf("%s %s Candlestick Chart with Max OI Strikes (%s)",
			r.Timeframe.Label(), r.Symbol, date),
		Symbol:    r.Symbol,
		Date:      date,
		Timeframe: r.Timeframe.Key(),
		Time:      r.Times(),
		Open:      r.Column("open"),
		High:      r.Column("high"),
		Low:       r.Column("low"),
		Close:     r.Column("close"),
		Series:    series,
		Style:     DefaultChartStyle,
	}
}
