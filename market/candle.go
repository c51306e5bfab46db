package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	Time time.Time

	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Up reports whether the candle closed at or above its open.
func (c Candle) Up() bool {
	return c.Close >= c.Open
}

// OIStrike is the strike holding the largest open interest for one option
// type inside one bucket.
type OIStrike struct {
	Strike float64
	OI     int64
}
