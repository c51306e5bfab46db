package journal

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rustyeddy/maxoi/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	return j, path
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','candles','overlay_values')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["candles"])
	assert.True(t, found["overlay_values"])
}

func TestSQLiteRecordAndGetRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	res := sampleResult(t)
	run := sampleRun(t, res)

	require.NoError(t, j.RecordRun(ctx, run, res))

	got, err := j.GetRun(ctx, run.RunID)
	require.NoError(t, err)
	assert.Equal(t, run.RunID, got.RunID)
	assert.Equal(t, run.Symbol, got.Symbol)
	assert.Equal(t, run.Date, got.Date)
	assert.Equal(t, run.Timeframe, got.Timeframe)
	assert.Equal(t, run.Label, got.Label)
	assert.Equal(t, run.Buckets, got.Buckets)
	assert.Equal(t, run.Populated, got.Populated)
	assert.Equal(t, run.Overlays, got.Overlays)
	assert.True(t, run.Start.Equal(got.Start))
	assert.True(t, run.End.Equal(got.End))
	assert.WithinDuration(t, run.Created, got.Created, 0)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	t.Parallel()

	j, _ := newTestSQLite(t)
	_, err := j.GetRun(context.Background(), "01H0000000000000000000000")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteListRowsKeepsNulls(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, path := newTestSQLite(t)
	res := sampleResult(t)
	run := sampleRun(t, res)
	require.NoError(t, j.RecordRun(ctx, run, res))

	recs, err := j.ListRows(ctx, run.RunID)
	require.NoError(t, err)
	want := Records(res)
	require.Len(t, recs, len(want))

	for i := range want {
		assert.True(t, want[i].Time.Equal(recs[i].Time), "row %d time", i)
		assert.Equal(t, want[i].values(), recs[i].values(), "row %d", i)
	}

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	var nulls int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM candles WHERE run_id = ? AND open IS NULL`, run.RunID).Scan(&nulls))
	assert.Equal(t, 1, nulls)

	var zeros int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM candles WHERE open = 0`).Scan(&zeros))
	assert.Equal(t, 0, zeros)
}

func TestSQLiteListRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	res := sampleResult(t)

	first := sampleRun(t, res)
	second := sampleRun(t, res)
	other := sampleRun(t, res)
	other.Date = "2023-09-04"

	for _, run := range []Run{first, second, other} {
		require.NoError(t, j.RecordRun(ctx, run, res))
	}

	runs, err := j.ListRuns(ctx, "2023-09-01")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.RunID, runs[0].RunID)
	assert.Equal(t, second.RunID, runs[1].RunID)

	all, err := j.ListRuns(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := j.ListRuns(ctx, "2020-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteDuplicateRunRollsBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	res := sampleResult(t)
	run := sampleRun(t, res)

	require.NoError(t, j.RecordRun(ctx, run, res))
	assert.Error(t, j.RecordRun(ctx, run, res))

	recs, err := j.ListRows(ctx, run.RunID)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Equal(t, market.Absent, recs[1].Close)
}
