package journal

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/rustyeddy/maxoi/resample"
)

// TimeLayout is how bucket starts are written in CSV exports.
const TimeLayout = "2006-01-02 15:04:05"

// Header returns the CSV columns for res.
func Header(res *resample.Result) []string {
	h := append([]string{"time"}, resample.ColumnNames...)
	for _, o := range res.Overlays {
		h = append(h, o.Name())
	}
	return h
}

// WriteCSV writes one line per bucket. Absent values are empty cells.
func WriteCSV(w io.Writer, res *resample.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(res)); err != nil {
		return err
	}

	for _, rec := range Records(res) {
		line := []string{rec.Time.Format(TimeLayout)}
		for _, v := range rec.values() {
			line = append(line, v.String())
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVDir writes every run to its own file and keeps an index of runs in
// runs.csv inside dir.
type CSVDir struct {
	dir string

	mu    sync.Mutex // guards index and f
	index *csv.Writer
	f     *os.File
}

var runsHeader = []string{"run_id", "created", "symbol", "date", "timeframe", "buckets", "populated", "file"}

func NewCSVDir(dir string) (*CSVDir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, "runs.csv")
	_, statErr := os.Stat(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := w.Write(runsHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return &CSVDir{dir: dir, index: w, f: f}, nil
}

// FileName is the export file used for a run.
func FileName(run Run, ext string) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s", run.Symbol, run.Date, run.Timeframe, run.RunID, ext)
}

func (j *CSVDir) RecordRun(_ context.Context, run Run, res *resample.Result) error {
	name := FileName(run, "csv")
	f, err := os.Create(filepath.Join(j.dir, name))
	if err != nil {
		return err
	}
	if err := WriteCSV(f, res); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	err = j.index.Write([]string{
		run.RunID,
		run.Created.UTC().Format(time.RFC3339),
		run.Symbol,
		run.Date,
		run.Timeframe,
		strconv.Itoa(run.Buckets),
		strconv.Itoa(run.Populated),
		name,
	})
	if err != nil {
		return err
	}
	j.index.Flush()
	return j.index.Error()
}

func (j *CSVDir) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.index.Flush()
	if err := j.index.Error(); err != nil {
		return err
	}
	return j.f.Close()
}
