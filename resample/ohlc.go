package resample

import "github.com/rustyeddy/maxoi/market"

// Aggregate reduces the ticks of one bucket to a single candle. Open comes
// from the chronologically first tick and Close from the last one; equal
// timestamps keep input order. The returned candle is stamped with the
// first tick's time. ok is false when ticks is empty.
func Aggregate(ticks []market.OptionTick) (c market.Candle, ok bool) {
	if len(ticks) == 0 {
		return market.Candle{}, false
	}

	first, last := 0, 0
	hi, lo := ticks[0].High, ticks[0].Low
	for i := 1; i < len(ticks); i++ {
		t := ticks[i]
		if t.Time.Before(ticks[first].Time) {
			first = i
		}
		if !t.Time.Before(ticks[last].Time) {
			last = i
		}
		if t.High > hi {
			hi = t.High
		}
		if t.Low < lo {
			lo = t.Low
		}
	}

	return market.Candle{
		Time:  ticks[first].Time,
		Open:  ticks[first].Open,
		High:  hi,
		Low:   lo,
		Close: ticks[last].Close,
	}, true
}
