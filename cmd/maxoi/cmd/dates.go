package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the trading days in the tick dataset",
	Long: `List the session dates that have ticks for the configured symbol,
oldest first.

Example:
  maxoi dates --ticks banknifty_data.csv`,
	Args: cobra.NoArgs,
	RunE: runDates,
}

func init() {
	rootCmd.AddCommand(datesCmd)
}

func runDates(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	dates := a.engine.Dates()
	if len(dates) == 0 {
		return fmt.Errorf("no sessions for %s in %s", a.engine.Symbol, a.cfg.Data.TicksFile)
	}
	for _, d := range dates {
		fmt.Fprintln(cmd.OutOrStdout(), d)
	}
	return nil
}
