package journal

import (
	"path/filepath"
	"testing"

	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRun(t *testing.T) {
	t.Parallel()

	res := sampleResult(t)
	run := sampleRun(t, res)

	assert.True(t, id.Valid(run.RunID))
	assert.Equal(t, "BANKNIFTY", run.Symbol)
	assert.Equal(t, "2023-09-01", run.Date)
	assert.Equal(t, "M15", run.Timeframe)
	assert.Equal(t, "15 Min", run.Label)
	assert.Equal(t, 3, run.Buckets)
	assert.Equal(t, 2, run.Populated)
	assert.True(t, run.Start.Equal(at("09:15:00")))
	assert.True(t, run.End.Equal(at("10:00:00")))
	assert.Equal(t, []string{"Close+149", "Close-149", "Close+249", "Close-249"}, run.Overlays)
}

func TestRecords(t *testing.T) {
	t.Parallel()

	recs := Records(sampleResult(t))
	require.Len(t, recs, 3)

	first := recs[0]
	assert.Equal(t, market.Some(45010), first.Open)
	assert.Equal(t, market.Some(45050), first.High)
	assert.Equal(t, market.Some(44980), first.Low)
	assert.Equal(t, market.Some(45000), first.Close)
	assert.Equal(t, market.Some(45000), first.CEStrike)
	assert.Equal(t, market.Some(1000), first.CEOI)
	assert.Equal(t, market.Some(44900), first.PEStrike)
	assert.Equal(t, market.Some(800), first.PEOI)
	assert.Equal(t, []market.Value{market.Some(45149), market.Some(44851), market.Some(45249), market.Some(44751)}, first.Overlays)

	gap := recs[1]
	assert.True(t, gap.Time.Equal(at("09:30:00")))
	for _, v := range gap.values() {
		assert.Equal(t, market.Absent, v)
	}

	last := recs[2]
	assert.Equal(t, market.Some(45100), last.CEStrike)
	assert.Equal(t, market.Absent, last.PEStrike)
	assert.Equal(t, market.Absent, last.PEOI)
}

func TestOpen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.JournalConfig
		want any
	}{
		{"none", config.JournalConfig{Type: "none"}, Nop{}},
		{"empty", config.JournalConfig{}, Nop{}},
		{"csv", config.JournalConfig{Type: "csv", Dir: filepath.Join(dir, "csv")}, &CSVDir{}},
		{"parquet", config.JournalConfig{Type: "parquet", Dir: filepath.Join(dir, "pq")}, &ParquetDir{}},
		{"sqlite", config.JournalConfig{Type: "sqlite", DBPath: filepath.Join(dir, "j.db")}, &SQLite{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j, err := Open(tt.cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.want, j)
			assert.NoError(t, j.Close())
		})
	}

	_, err := Open(config.JournalConfig{Type: "redis"})
	assert.Error(t, err)
}
