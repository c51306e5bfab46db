package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/rustyeddy/maxoi/journal"
	"github.com/spf13/cobra"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query recorded resample runs",
	Long: `Query runs recorded in the SQLite journal.

Subcommands:
  runs  - List runs, optionally for one session date
  show  - Print one run as an Org-mode table

Examples:
  maxoi journal runs --date 2023-09-01
  maxoi journal show 01HB3Z6Q8T9J2X4K7M0N5P1R3S`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the rows of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var (
	journalDBPath string
	journalDate   string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalShowCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "", "path to SQLite journal DB (overrides journal.db_path)")
	journalRunsCmd.Flags().StringVarP(&journalDate, "date", "d", "", "only runs of this session date")
}

func openJournal(cmd *cobra.Command) (*journal.SQLite, error) {
	path := journalDBPath
	if path == "" {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return nil, err
		}
		path = cfg.Journal.DBPath
	}
	if path == "" {
		return nil, fmt.Errorf("no journal database: set journal.db_path, MAXOI_DB or --db")
	}

	j, err := journal.NewSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	return j, nil
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), journalDate)
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN ID\tCREATED\tSYMBOL\tDATE\tTIMEFRAME\tBUCKETS\tPOPULATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.RunID, r.Created.Local().Format("2006-01-02 15:04:05"),
			r.Symbol, r.Date, r.Timeframe, r.Buckets, r.Populated)
	}
	return tw.Flush()
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer j.Close()

	run, err := j.GetRun(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	recs, err := j.ListRows(cmd.Context(), run.RunID)
	if err != nil {
		return fmt.Errorf("get rows: %w", err)
	}

	out, err := journal.FormatRunOrg(run, recs)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}
