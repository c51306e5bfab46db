// Package ticks loads option tick datasets from CSV files.
package ticks

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/maxoi/market"
)

// Columns names the CSV header of every field the resampler needs.
type Columns struct {
	Date   string `json:"date" yaml:"date"`
	Time   string `json:"time" yaml:"time"`
	Symbol string `json:"symbol" yaml:"symbol"`
	Type   string `json:"type" yaml:"type"`
	Strike string `json:"strike" yaml:"strike"`
	OI     string `json:"oi" yaml:"oi"`
	Open   string `json:"open" yaml:"open"`
	High   string `json:"high" yaml:"high"`
	Low    string `json:"low" yaml:"low"`
	Close  string `json:"close" yaml:"close"`
}

// DefaultColumns matches the exported BANKNIFTY option dataset.
func DefaultColumns() Columns {
	return Columns{
		Date:   "date",
		Time:   "time",
		Symbol: "BANKNIFTY_symbol",
		Type:   "optiontype",
		Strike: "strike",
		OI:     "oi",
		Open:   "Open",
		High:   "High",
		Low:    "Low",
		Close:  "Close",
	}
}

func (c Columns) names() []string {
	return []string{c.Date, c.Time, c.Symbol, c.Type, c.Strike, c.OI, c.Open, c.High, c.Low, c.Close}
}

const (
	colDate = iota
	colTime
	colSymbol
	colType
	colStrike
	colOI
	colOpen
	colHigh
	colLow
	colClose
	numCols
)

var dateLayouts = []string{market.DateLayout, "2006/01/02", "20060102"}
var timeLayouts = []string{time.TimeOnly, "15:04", "15:04:05.000"}

// CSVFeed reads option ticks from a CSV stream. The first non-empty
// record is the header; columns are located by name, so extra columns
// and any column order are fine.
type CSVFeed struct {
	r    *csv.Reader
	cols Columns
	loc  *time.Location

	idx  [numCols]int
	line int
	head bool
}

func NewCSVFeed(r io.Reader, cols Columns, loc *time.Location) *CSVFeed {
	if loc == nil {
		loc = time.Local
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	return &CSVFeed{r: cr, cols: cols, loc: loc}
}

// Next returns the next tick, or ok=false at EOF.
func (f *CSVFeed) Next() (market.OptionTick, bool, error) {
	for {
		row, err := f.r.Read()
		if err == io.EOF {
			if !f.head {
				return market.OptionTick{}, false, f.header(nil)
			}
			return market.OptionTick{}, false, nil
		}
		if err != nil {
			return market.OptionTick{}, false, err
		}
		f.line++
		if blank(row) {
			continue
		}

		if !f.head {
			if err := f.header(row); err != nil {
				return market.OptionTick{}, false, err
			}
			continue
		}

		t, err := f.parse(row)
		if err != nil {
			return market.OptionTick{}, false, err
		}
		return t, true, nil
	}
}

func (f *CSVFeed) header(row []string) error {
	pos := make(map[string]int, len(row))
	for i, name := range row {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}
	for i, name := range f.cols.names() {
		p, ok := pos[name]
		if !ok {
			return &market.MissingFieldError{Field: name}
		}
		f.idx[i] = p
	}
	f.head = true
	return nil
}

func (f *CSVFeed) field(row []string, col int) (string, error) {
	p := f.idx[col]
	var s string
	if p < len(row) {
		s = strings.TrimSpace(row[p])
	}
	if s == "" {
		return "", &market.MissingFieldError{Field: f.cols.names()[col], Line: f.line}
	}
	return s, nil
}

func (f *CSVFeed) parse(row []string) (market.OptionTick, error) {
	var vals [numCols]string
	for c := range numCols {
		s, err := f.field(row, c)
		if err != nil {
			return market.OptionTick{}, err
		}
		vals[c] = s
	}

	ts, err := parseTimestamp(vals[colDate], vals[colTime], f.loc)
	if err != nil {
		return market.OptionTick{}, fmt.Errorf("line %d: %w", f.line, err)
	}

	var nums [4]float64
	for i, c := range []int{colOpen, colHigh, colLow, colClose} {
		if nums[i], err = parseFloat(vals[c]); err != nil {
			return market.OptionTick{}, fmt.Errorf("line %d: bad %s %q: %w", f.line, f.cols.names()[c], vals[c], err)
		}
	}

	strike, err := parseFloat(vals[colStrike])
	if err != nil {
		return market.OptionTick{}, fmt.Errorf("line %d: bad strike %q: %w", f.line, vals[colStrike], err)
	}
	oi, err := parseOI(vals[colOI])
	if err != nil {
		return market.OptionTick{}, fmt.Errorf("line %d: bad oi %q: %w", f.line, vals[colOI], err)
	}

	return market.OptionTick{
		Time:   ts,
		Symbol: vals[colSymbol],
		Type:   market.NormalizeOptionType(vals[colType]),
		Strike: strike,
		OI:     oi,
		Open:   nums[0],
		High:   nums[1],
		Low:    nums[2],
		Close:  nums[3],
	}, nil
}

func parseTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	var err error
	for _, dl := range dateLayouts {
		for _, tl := range timeLayouts {
			var t time.Time
			t, err = time.ParseInLocation(dl+" "+tl, date+" "+clock, loc)
			if err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("bad time %q: %w", date+" "+clock, err)
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number")
	}
	return v, nil
}

// parseOI accepts integral floats ("1500.0") as exported by dataframes.
func parseOI(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("negative open interest")
		}
		return n, nil
	}
	v, err := parseFloat(s)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative open interest")
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("open interest is not a whole number")
	}
	return int64(v), nil
}

func blank(row []string) bool {
	for _, s := range row {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
