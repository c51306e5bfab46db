package resample

import "time"

// Gap is a run of consecutive buckets that received no ticks.
type Gap struct {
	StartIdx int
	Start    time.Time
	Buckets  int
	Duration time.Duration
}

type GapStats struct {
	Buckets     int
	Populated   int
	Missing     int
	GapCount    int
	LongestGap  time.Duration
	LongestFrom time.Time
}

// Gaps lists the empty bucket runs in session order.
func (r *Result) Gaps() []Gap {
	var gaps []Gap

	n := len(r.Rows)
	i := 0
	for i < n {
		if r.Rows[i].Candle != nil {
			i++
			continue
		}

		start := i
		var d time.Duration
		for i < n && r.Rows[i].Candle == nil {
			d += r.Rows[i].Duration()
			i++
		}
		gaps = append(gaps, Gap{
			StartIdx: start,
			Start:    r.Rows[start].Start,
			Buckets:  i - start,
			Duration: d,
		})
	}
	return gaps
}

// Stats summarises coverage of the session grid.
func (r *Result) Stats() GapStats {
	s := GapStats{Buckets: len(r.Rows), Populated: r.Populated()}
	s.Missing = s.Buckets - s.Populated

	for _, g := range r.Gaps() {
		s.GapCount++
		if g.Duration > s.LongestGap {
			s.LongestGap = g.Duration
			s.LongestFrom = g.Start
		}
	}
	return s
}
