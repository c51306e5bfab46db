package market

import "time"

// Bucket is the half-open interval [Start, End).
type Bucket struct {
	Start time.Time
	End   time.Time
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

func (b Bucket) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// MinTimeframe is the shortest bucket length Buckets accepts.
const MinTimeframe = time.Minute

// Buckets lays a grid of tf-long buckets from start to end. The last bucket
// is clipped so it ends exactly at end.
func Buckets(tf time.Duration, start, end time.Time) ([]Bucket, error) {
	if tf < MinTimeframe || !start.Before(end) {
		return nil, &InvalidRangeError{Timeframe: tf, Start: start, End: end}
	}

	span := end.Sub(start)
	n := int(span / tf)
	if span%tf != 0 {
		n++
	}

	out := make([]Bucket, n)
	for i := range n {
		s := start.Add(time.Duration(i) * tf)
		e := s.Add(tf)
		if e.After(end) {
			e = end
		}
		out[i] = Bucket{Start: s, End: e}
	}
	return out, nil
}
