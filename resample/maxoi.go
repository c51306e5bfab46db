package resample

import "github.com/rustyeddy/maxoi/market"

// MaxOI finds the strike with the largest open interest among ticks of the
// given option type. When several rows share the maximum the earliest one
// in input order wins. ok is false when no tick has that type.
func MaxOI(ticks []market.OptionTick, typ market.OptionType) (s market.OIStrike, ok bool) {
	for _, t := range ticks {
		if t.Type != typ {
			continue
		}
		if !ok || t.OI > s.OI {
			s = market.OIStrike{Strike: t.Strike, OI: t.OI}
			ok = true
		}
	}
	return s, ok
}
