package journal

import (
	"testing"
	"time"

	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/resample"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func at(clock string) time.Time {
	return market.MustClock(clock).On(time.Date(2023, 9, 1, 0, 0, 0, 0, ist))
}

// sampleResult is a 15 minute grid over 09:15-10:00 with an empty middle
// bucket.
func sampleResult(t *testing.T) *resample.Result {
	t.Helper()

	ticks := []market.OptionTick{
		{Time: at("09:16:00"), Symbol: "BANKNIFTY", Type: market.Call, Strike: 45000, OI: 1000, Open: 45010, High: 45050, Low: 44990, Close: 45020},
		{Time: at("09:20:00"), Symbol: "BANKNIFTY", Type: market.Put, Strike: 44900, OI: 800, Open: 45020, High: 45030, Low: 44980, Close: 45000},
		{Time: at("09:45:00"), Symbol: "BANKNIFTY", Type: market.Call, Strike: 45100, OI: 2500, Open: 45100, High: 45120, Low: 45080, Close: 45110},
	}
	tf := market.Timeframe{Name: "15 Min", Length: 15 * time.Minute, Start: market.MustClock("09:15:00")}
	s := resample.Session{
		Symbol:  "BANKNIFTY",
		Date:    time.Date(2023, 9, 1, 0, 0, 0, 0, ist),
		Close:   market.MustClock("10:00:00"),
		Offsets: resample.DefaultOffsets(),
	}

	res, err := resample.Resample(ticks, tf, s)
	require.NoError(t, err)
	require.Len(t, res.Rows, 3)
	return res
}

func sampleRun(t *testing.T, res *resample.Result) Run {
	t.Helper()

	run, err := NewRun(res)
	require.NoError(t, err)
	return run
}
