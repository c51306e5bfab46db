package resample

import (
	"time"

	"github.com/rustyeddy/maxoi/market"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

var day = time.Date(2023, 9, 1, 0, 0, 0, 0, ist)

func ts(hh, mm, ss int) time.Time {
	return time.Date(2023, 9, 1, hh, mm, ss, 0, ist)
}

func tick(t time.Time, typ market.OptionType, strike float64, oi int64, o, h, l, c float64) market.OptionTick {
	return market.OptionTick{
		Time:   t,
		Symbol: "BANKNIFTY",
		Type:   typ,
		Strike: strike,
		OI:     oi,
		Open:   o,
		High:   h,
		Low:    l,
		Close:  c,
	}
}

func session() Session {
	return Session{
		Symbol:  "BANKNIFTY",
		Date:    day,
		Close:   market.DefaultSessionClose,
		Offsets: DefaultOffsets(),
	}
}

func fiveMin() market.Timeframe {
	return market.DefaultTimeframes()[0]
}
