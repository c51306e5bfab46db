package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/maxoi/config"
	"github.com/rustyeddy/maxoi/logger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "maxoi",
	Short: "Option chain candles with max open interest strikes",
	Long: `maxoi reads a tick level options dataset and, for one trading day,
builds 5, 10 and 15 minute candles together with the call and put strikes
holding the largest open interest in every candle.

It provides tools for:
  - Listing the trading days in a dataset
  - Resampling a day to tables, CSV, JSON or Parquet
  - Serving chart payloads over HTTP
  - Recording and querying runs in a SQLite journal`,
	SilenceUsage: true,
}

var (
	configPath string
	ticksPath  string
	symbol     string
	logLevel   string
	envFile    string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&ticksPath, "ticks", "t", "", "tick CSV file (.csv, .csv.zst, .csv.xz)")
	rootCmd.PersistentFlags().StringVarP(&symbol, "symbol", "s", "", "underlying symbol")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
}

// loadConfig layers defaults, the config file, .env and MAXOI_* variables
// and finally the command line flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFromFile(configPath); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(cmd.Context(), nil); err != nil {
		return nil, err
	}

	if ticksPath != "" {
		cfg.Data.TicksFile = ticksPath
	}
	if symbol != "" {
		cfg.Data.Symbol = symbol
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logrus.Logger, error) {
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	if cfg.Logging.Output == "" || cfg.Logging.Output == "stderr" {
		log.SetOutput(cmd.ErrOrStderr())
	}
	return log, nil
}
