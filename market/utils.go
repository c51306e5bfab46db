package market

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the session date format used by the CLI, the API and the journal.
const DateLayout = "2006-01-02"

// Clock is a time of day expressed as an offset from midnight.
type Clock time.Duration

// ParseClock accepts "15:04:05" or "15:04".
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.TimeOnly, "15:04"} {
		t, err := time.Parse(layout, s)
		if err == nil {
			d := time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second
			return Clock(d), nil
		}
	}
	return 0, fmt.Errorf("bad clock %q: want HH:MM[:SS]", s)
}

// MustClock is ParseClock for package-level defaults.
func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

// On anchors the clock to the calendar day of day, in day's location.
func (c Clock) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(c))
}

func (c Clock) String() string {
	d := time.Duration(c)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}

// ParseDate parses a session date (YYYY-MM-DD) at midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: %w", s, err)
	}
	return t, nil
}

// DurationToTFString maps a candle length onto the M5/H1/D1 style names.
func DurationToTFString(d time.Duration) (string, error) {
	sec := int64(d / time.Second)
	if sec <= 0 || time.Duration(sec)*time.Second != d {
		return "", fmt.Errorf("invalid timeframe: %s", d)
	}

	// Minutes
	if sec < 3600 && sec%60 == 0 {
		return fmt.Sprintf("M%d", sec/60), nil
	}

	// Hours
	if sec < 86400 && sec%3600 == 0 {
		return fmt.Sprintf("H%d", sec/3600), nil
	}

	if sec%86400 == 0 {
		return fmt.Sprintf("D%d", sec/86400), nil
	}

	return "", fmt.Errorf("cannot map timeframe: %s", d)
}

// TFStringToDuration is the inverse of DurationToTFString. It also accepts
// the "5m" and bare-minutes ("5") spellings used on the command line.
func TFStringToDuration(tf string) (time.Duration, error) {
	s := strings.TrimSpace(tf)
	if s == "" {
		return 0, fmt.Errorf("unsupported timeframe string: %q", tf)
	}

	unit := time.Minute
	num := s
	switch {
	case strings.HasPrefix(s, "M"):
		num = s[1:]
	case strings.HasPrefix(s, "H"):
		unit, num = time.Hour, s[1:]
	case strings.HasPrefix(s, "D"):
		unit, num = 24*time.Hour, s[1:]
	case strings.HasSuffix(s, "m"):
		num = strings.TrimSuffix(s, "m")
	case strings.HasSuffix(s, "h"):
		unit, num = time.Hour, strings.TrimSuffix(s, "h")
	}

	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unsupported timeframe string: %q", tf)
	}
	return time.Duration(n) * unit, nil
}
