package ticks

import (
	"fmt"
	"slices"
	"time"

	"github.com/rustyeddy/maxoi/market"
)

// Dataset is an immutable, fully loaded tick file. Ticks keep file order.
type Dataset struct {
	ticks []market.OptionTick
	loc   *time.Location
}

func NewDataset(ticks []market.OptionTick, loc *time.Location) *Dataset {
	if loc == nil {
		loc = time.Local
	}
	return &Dataset{ticks: ticks, loc: loc}
}

// Read drains src into a Dataset.
func Read(src market.TickSource, loc *time.Location) (*Dataset, error) {
	var out []market.OptionTick
	for {
		t, ok, err := src.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out = append(out, t)
	}
	return NewDataset(out, loc), nil
}

// Load opens path (optionally compressed) and reads every tick in it.
func Load(path string, cols Columns, loc *time.Location) (*Dataset, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ticks: %w", err)
	}
	defer rc.Close()

	ds, err := Read(NewCSVFeed(rc, cols, loc), loc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return ds, nil
}

func (d *Dataset) Len() int { return len(d.ticks) }

func (d *Dataset) Location() *time.Location { return d.loc }

// Symbols lists the distinct symbols in first-seen order.
func (d *Dataset) Symbols() []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range d.ticks {
		if !seen[t.Symbol] {
			seen[t.Symbol] = true
			out = append(out, t.Symbol)
		}
	}
	return out
}

// Dates lists the sorted session dates (YYYY-MM-DD) that have ticks for
// symbol. An empty symbol matches every row.
func (d *Dataset) Dates(symbol string) []string {
	seen := map[string]bool{}
	var out []string
	for _, t := range d.ticks {
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		s := t.Time.In(d.loc).Format(market.DateLayout)
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}

// Session returns the ticks of symbol on the calendar day of date, in file
// order. The slice is a copy.
func (d *Dataset) Session(symbol string, date time.Time) []market.OptionTick {
	y, m, dd := date.In(d.loc).Date()

	var out []market.OptionTick
	for _, t := range d.ticks {
		if symbol != "" && t.Symbol != symbol {
			continue
		}
		ty, tm, td := t.Time.In(d.loc).Date()
		if ty == y && tm == m && td == dd {
			out = append(out, t)
		}
	}
	return out
}
