package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rustyeddy/maxoi/journal"
	"github.com/rustyeddy/maxoi/market"
	"github.com/rustyeddy/maxoi/resample"
	"github.com/spf13/cobra"
)

var resampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Build candles and max OI strikes for one trading day",
	Long: `Resample one session of the tick dataset on every configured timeframe
(or just the one named with --timeframe) and print the combined table.

Empty buckets are kept and printed with blank cells.

Examples:
  maxoi resample --date 2023-09-01
  maxoi resample --date 2023-09-01 --timeframe 5m --format csv
  maxoi resample --date 2023-09-01 --parquet ./out --journal`,
	Args: cobra.NoArgs,
	RunE: runResample,
}

var (
	resampleDate      string
	resampleTimeframe string
	resampleFormat    string
	resampleParquet   string
	resampleJournal   bool
)

func init() {
	rootCmd.AddCommand(resampleCmd)

	resampleCmd.Flags().StringVarP(&resampleDate, "date", "d", "", "session date YYYY-MM-DD (required)")
	resampleCmd.Flags().StringVar(&resampleTimeframe, "timeframe", "", "only this timeframe (5m, M10, \"15 Min\", ...)")
	resampleCmd.Flags().StringVarP(&resampleFormat, "format", "f", "table", "output format: table, csv or json")
	resampleCmd.Flags().StringVar(&resampleParquet, "parquet", "", "also write one parquet file per timeframe into this directory")
	resampleCmd.Flags().BoolVar(&resampleJournal, "journal", false, "record the runs in the configured journal")
	resampleCmd.MarkFlagRequired("date")
}

func runResample(cmd *cobra.Command, args []string) error {
	switch resampleFormat {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q", resampleFormat)
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	if resampleJournal {
		j, err := journal.Open(a.cfg.Journal)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		a.engine.Journal = j
	}

	var names []string
	if resampleTimeframe != "" {
		names = append(names, resampleTimeframe)
	}

	outcomes, err := a.engine.Run(cmd.Context(), resampleDate, names...)
	if outcomes == nil {
		return err
	}
	if err != nil {
		a.log.WithError(err).Warn("journal incomplete")
	}

	out := cmd.OutOrStdout()
	var failed []error
	var results []*resample.Result
	for _, o := range outcomes {
		if o.Err != nil {
			failed = append(failed, fmt.Errorf("%s: %w", o.Timeframe.Label(), o.Err))
			continue
		}
		results = append(results, o.Result)
	}

	if err := printResults(out, results); err != nil {
		return err
	}

	if resampleParquet != "" {
		if err := os.MkdirAll(resampleParquet, 0755); err != nil {
			return err
		}
		for _, res := range results {
			name := fmt.Sprintf("%s_%s_%s.parquet", res.Symbol, res.Date.Format(market.DateLayout), res.Timeframe.Key())
			path := filepath.Join(resampleParquet, name)
			if err := journal.WriteParquet(path, res); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.log.WithField("file", path).Info("parquet written")
		}
	}

	return errors.Join(failed...)
}

func printResults(w io.Writer, results []*resample.Result) error {
	switch resampleFormat {
	case "json":
		charts := make([]resample.Chart, 0, len(results))
		for _, res := range results {
			charts = append(charts, res.Chart())
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(charts)

	case "csv":
		for i, res := range results {
			if len(results) > 1 {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "# %s\n", res.Timeframe.Label())
			}
			if err := journal.WriteCSV(w, res); err != nil {
				return err
			}
		}
		return nil
	}

	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := printTable(w, res); err != nil {
			return err
		}
	}
	return nil
}

func printTable(w io.Writer, res *resample.Result) error {
	st := res.Stats()
	fmt.Fprintf(w, "%s %s %s (%d/%d buckets with ticks",
		res.Timeframe.Label(), res.Symbol, res.Date.Format(market.DateLayout),
		st.Populated, st.Buckets)
	if st.GapCount > 0 {
		fmt.Fprintf(w, ", %d gaps, longest %s from %s", st.GapCount, st.LongestGap, st.LongestFrom.Format("15:04"))
	}
	fmt.Fprintln(w, ")")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	header := journal.Header(res)
	for _, h := range header {
		fmt.Fprintf(tw, "%s\t", h)
	}
	fmt.Fprintln(tw)

	for _, rec := range journal.Records(res) {
		fmt.Fprintf(tw, "%s\t", rec.Time.Format("15:04"))
		for _, v := range []market.Value{rec.Open, rec.High, rec.Low, rec.Close, rec.CEStrike, rec.CEOI, rec.PEStrike, rec.PEOI} {
			fmt.Fprintf(tw, "%s\t", cell(v))
		}
		for _, v := range rec.Overlays {
			fmt.Fprintf(tw, "%s\t", cell(v))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func cell(v market.Value) string {
	if !v.Valid {
		return "-"
	}
	return v.String()
}
