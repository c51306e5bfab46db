package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rustyeddy/maxoi/resample"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type parquetField struct {
	Tag string
}

type parquetSchema struct {
	Tag    string
	Fields []parquetField
}

// ParquetColumns returns the parquet column names for res. Overlay names
// are folded into identifiers, so "Close+149" becomes close_plus_149.
func ParquetColumns(res *resample.Result) []string {
	cols := append([]string{"time"}, resample.ColumnNames...)
	for _, o := range res.Overlays {
		cols = append(cols, parquetName(o.Name()))
	}
	return cols
}

func parquetName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '+':
			b.WriteString("_plus_")
		case r == '-':
			b.WriteString("_minus_")
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return strings.Trim(strings.ReplaceAll(b.String(), "__", "_"), "_")
}

func schemaFor(cols []string) (string, error) {
	s := parquetSchema{Tag: "name=maxoi, repetitiontype=REQUIRED"}
	for _, c := range cols {
		var tag string
		switch c {
		case "time":
			tag = "name=time, type=INT64, convertedtype=TIMESTAMP_MILLIS, repetitiontype=REQUIRED"
		case "ce_max_oi", "pe_max_oi":
			tag = fmt.Sprintf("name=%s, type=INT64, repetitiontype=OPTIONAL", c)
		default:
			tag = fmt.Sprintf("name=%s, type=DOUBLE, repetitiontype=OPTIONAL", c)
		}
		s.Fields = append(s.Fields, parquetField{Tag: tag})
	}
	b, err := json.Marshal(s)
	return string(b), err
}

// WriteParquet writes res to path with snappy compression. Absent values
// are parquet nulls.
func WriteParquet(path string, res *resample.Result) error {
	cols := ParquetColumns(res)
	schema, err := schemaFor(cols)
	if err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	pw, err := writer.NewJSONWriter(schema, fw, 1)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("new parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, rec := range Records(res) {
		line, err := parquetRow(cols, rec)
		if err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
		if err := pw.Write(line); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return fmt.Errorf("write parquet record: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return fmt.Errorf("finalize parquet: %w", err)
	}
	return fw.Close()
}

// parquetRow leaves absent values out of the object so they land as nulls.
func parquetRow(cols []string, rec Record) (string, error) {
	row := map[string]any{"time": rec.Time.UnixMilli()}
	for i, v := range rec.values() {
		if !v.Valid {
			continue
		}
		name := cols[i+1]
		if name == "ce_max_oi" || name == "pe_max_oi" {
			row[name] = int64(v.V)
			continue
		}
		row[name] = v.V
	}
	b, err := json.Marshal(row)
	return string(b), err
}

// ParquetDir writes runs to a hive style layout:
// dir/symbol=S/date=D/<file>.parquet
type ParquetDir struct {
	dir string
}

func NewParquetDir(dir string) (*ParquetDir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &ParquetDir{dir: dir}, nil
}

// Path is where a run lands.
func (j *ParquetDir) Path(run Run) string {
	return filepath.Join(j.dir,
		"symbol="+run.Symbol,
		"date="+run.Date,
		FileName(run, "parquet"),
	)
}

func (j *ParquetDir) RecordRun(_ context.Context, run Run, res *resample.Result) error {
	path := j.Path(run)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return WriteParquet(path, res)
}

func (j *ParquetDir) Close() error { return nil }
