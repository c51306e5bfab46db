package market

import (
	"fmt"
	"time"
)

// Timeframe is one candle grid. Each timeframe carries its own session
// start so grids can be phase shifted against each other.
type Timeframe struct {
	Name   string
	Length time.Duration
	Start  Clock
}

// Key is the short identifier (M5, M10, ...) used in URLs, file names and
// the journal.
func (tf Timeframe) Key() string {
	s, err := DurationToTFString(tf.Length)
	if err != nil {
		return tf.Length.String()
	}
	return s
}

// Label is the human readable name, falling back to "N Min".
func (tf Timeframe) Label() string {
	if tf.Name != "" {
		return tf.Name
	}
	return fmt.Sprintf("%d Min", int(tf.Length/time.Minute))
}

// Matches reports whether s names this timeframe by key, label or any
// spelling TFStringToDuration understands.
func (tf Timeframe) Matches(s string) bool {
	if s == tf.Key() || s == tf.Name {
		return true
	}
	d, err := TFStringToDuration(s)
	return err == nil && d == tf.Length
}

// DefaultTimeframes are the 5/10/15 minute grids with their session starts.
func DefaultTimeframes() []Timeframe {
	return []Timeframe{
		{Name: "5 Min", Length: 5 * time.Minute, Start: MustClock("09:15:00")},
		{Name: "10 Min", Length: 10 * time.Minute, Start: MustClock("09:20:00")},
		{Name: "15 Min", Length: 15 * time.Minute, Start: MustClock("09:15:00")},
	}
}

// DefaultSessionClose is the end of the trading session.
var DefaultSessionClose = MustClock("15:30:00")
