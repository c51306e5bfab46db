package ticks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rustyeddy/maxoi/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 5*60*60+30*60)

const header = "date,time,BANKNIFTY_symbol,optiontype,strike,oi,Open,High,Low,Close\n"

func readAll(t *testing.T, src string) ([]market.OptionTick, error) {
	t.Helper()

	f := NewCSVFeed(strings.NewReader(src), DefaultColumns(), ist)
	var out []market.OptionTick
	for {
		tk, ok, err := f.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, tk)
	}
}

func TestCSVFeedParsesRows(t *testing.T) {
	t.Parallel()

	src := header +
		"2023-09-01,09:15:00,BANKNIFTY,CE,45000,1500,44990.5,45020,44980,45000\n" +
		"\n" +
		"2023-09-01,09:15:59, BANKNIFTY ,pe,44900,2300.0,45000,45040,44995,45030\n"

	got, err := readAll(t, src)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, market.OptionTick{
		Time:   time.Date(2023, 9, 1, 9, 15, 0, 0, ist),
		Symbol: "BANKNIFTY",
		Type:   market.Call,
		Strike: 45000,
		OI:     1500,
		Open:   44990.5,
		High:   45020,
		Low:    44980,
		Close:  45000,
	}, got[0])

	assert.Equal(t, market.Put, got[1].Type)
	assert.Equal(t, "BANKNIFTY", got[1].Symbol)
	assert.Equal(t, int64(2300), got[1].OI)
	assert.Equal(t, time.Date(2023, 9, 1, 9, 15, 59, 0, ist), got[1].Time)
}

func TestCSVFeedColumnOrderAndExtras(t *testing.T) {
	t.Parallel()

	src := "\ufeffClose,Low,High,Open,oi,strike,optiontype,BANKNIFTY_symbol,time,date,volume\n" +
		"4,1,5,2,10,45000,CE,BANKNIFTY,10:00,2023/09/01,999\n"

	got, err := readAll(t, src)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Open)
	assert.Equal(t, 5.0, got[0].High)
	assert.Equal(t, 1.0, got[0].Low)
	assert.Equal(t, 4.0, got[0].Close)
	assert.Equal(t, time.Date(2023, 9, 1, 10, 0, 0, 0, ist), got[0].Time)
}

func TestCSVFeedMissingHeaderColumn(t *testing.T) {
	t.Parallel()

	src := "date,time,BANKNIFTY_symbol,optiontype,strike,Open,High,Low,Close\n" +
		"2023-09-01,09:15:00,BANKNIFTY,CE,45000,1,1,1,1\n"

	_, err := readAll(t, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, market.ErrMissingField))

	var mf *market.MissingFieldError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, "oi", mf.Field)
	assert.Equal(t, 0, mf.Line)
}

func TestCSVFeedEmptyInput(t *testing.T) {
	t.Parallel()

	_, err := readAll(t, "")
	assert.True(t, errors.Is(err, market.ErrMissingField))
}

func TestCSVFeedRowErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		row     string
		missing bool
		errMsg  string
	}{
		{"empty oi cell", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,,1,1,1,1", true, `"oi" on line 2`},
		{"short row", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,10,1,1", true, `"Low" on line 2`},
		{"bad strike", "2023-09-01,09:15:00,BANKNIFTY,CE,abc,10,1,1,1,1", false, "bad strike"},
		{"bad close", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,10,1,1,1,x", false, "bad Close"},
		{"negative oi", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,-5,1,1,1,1", false, "bad oi"},
		{"fractional oi", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,10.5,1,1,1,1", false, "bad oi"},
		{"bad date", "01-09-2023,09:15:00,BANKNIFTY,CE,45000,10,1,1,1,1", false, "bad time"},
		{"nan price", "2023-09-01,09:15:00,BANKNIFTY,CE,45000,10,NaN,1,1,1", false, "bad Open"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readAll(t, header+tt.row+"\n")
			require.Error(t, err)
			assert.Equal(t, tt.missing, errors.Is(err, market.ErrMissingField))
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestCSVFeedBadTimestampWrapsParseError(t *testing.T) {
	t.Parallel()

	_, err := readAll(t, header+"2023-09-01,9h15,BANKNIFTY,CE,45000,10,1,1,1,1\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `line 2: bad time "2023-09-01 9h15": `)

	var pe *time.ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestCSVFeedCustomColumns(t *testing.T) {
	t.Parallel()

	cols := DefaultColumns()
	cols.Symbol = "underlying"

	src := "date,time,underlying,optiontype,strike,oi,Open,High,Low,Close\n" +
		"2023-09-01,09:15:00,NIFTY,CE,20000,1,1,1,1,1\n"

	f := NewCSVFeed(strings.NewReader(src), cols, ist)
	tk, ok, err := f.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "NIFTY", tk.Symbol)

	_, ok, err = f.Next()
	assert.NoError(t, err)
	assert.False(t, ok)
}
