package market

import (
	"strings"
	"time"
)

// OptionType tags a contract as a call or a put.
type OptionType string

const (
	Call OptionType = "CE"
	Put  OptionType = "PE"
)

// NormalizeOptionType upper-cases and trims a raw option type tag.
// Tags other than CE and PE are kept so their rows still feed the candles.
func NormalizeOptionType(s string) OptionType {
	return OptionType(strings.ToUpper(strings.TrimSpace(s)))
}

// OptionTick is one observation from the options dataset. The OHLC fields
// describe the row's own native granularity, not a resampled candle.
type OptionTick struct {
	Time   time.Time
	Symbol string
	Type   OptionType
	Strike float64
	OI     int64

	Open  float64
	High  float64
	Low   float64
	Close float64
}

// TickSource yields ticks one at a time and returns (ok=false, err=nil) at EOF.
type TickSource interface {
	Next() (OptionTick, bool, error)
}
