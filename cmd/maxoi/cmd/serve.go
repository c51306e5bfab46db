package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rustyeddy/maxoi/api"
	"github.com/rustyeddy/maxoi/journal"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve session dates and chart payloads over HTTP",
	Long: `Start the HTTP API.

Routes:
  GET /health
  GET /metrics
  GET /api/v1/dates
  GET /api/v1/sessions/{date}/charts
  GET /api/v1/sessions/{date}/charts/{timeframe}

Example:
  maxoi serve --addr :8080 --ticks banknifty_data.csv.zst`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr    string
	serveJournal bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveJournal, "journal", false, "record every served resample in the configured journal")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		a.cfg.Server.Addr = serveAddr
	}

	if serveJournal {
		j, err := journal.Open(a.cfg.Journal)
		if err != nil {
			return err
		}
		defer j.Close()
		a.engine.Journal = j
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := api.NewServer(a.cfg.Server, a.engine, a.metrics, a.log)
	return srv.ListenAndServe(ctx)
}

