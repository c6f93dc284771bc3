package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jyotish-lab/internal/config"
	"jyotish-lab/internal/reporting"
	"jyotish-lab/pkg/logger"
)

// flagKeys maps shared persistent flags to configuration keys.
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"pretty":           "log.pretty",
	"ephemeris":        "ephemeris.mode",
	"rpc-endpoint":     "ephemeris.rpc_endpoint",
	"cache":            "cache.backend",
	"timezone":         "timezone",
	"workers":          "search.workers",
	"metrics-textfile": "metrics.textfile",
}

// BindFlags registers the flags every binary shares.
func BindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.String("config", "", "config file (default ./jyotish.yaml)")
	f.String("log-level", "info", "log level: debug, info, warn, error, disabled")
	f.Bool("pretty", false, "human-readable console logs")
	f.String("ephemeris", "mean", "ephemeris source: mean, rpc, table, auto")
	f.String("rpc-endpoint", "", "JSON-RPC ephemeris endpoint")
	f.String("cache", "none", "sample store: none, memory, postgres, clickhouse")
	f.String("timezone", "UTC", "IANA zone of the input wall-clock time")
	f.Int("workers", 1, "parallel transit search workers")
	f.String("metrics-textfile", "", "write metrics here on exit")
}

// LoadConfig resolves configuration for cmd: defaults, .env, config file,
// JYOTISH_* environment, then explicitly set flags.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	v := viper.New()
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Init(v, cfgFile); err != nil {
		return config.Config{}, err
	}
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}
	return config.Load(v)
}

// Bootstrap loads configuration, installs the logger and builds the App.
func Bootstrap(ctx context.Context, cmd *cobra.Command) (*App, error) {
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
		Output: cmd.ErrOrStderr(),
	})
	logger.SetGlobalLogger(log)
	return New(ctx, cfg, log)
}

// Run executes cmd and returns the process exit code. Failures that were not
// already written as a document are reported as a JSON error on stdout.
func Run(cmd *cobra.Command) int {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, ErrReported) {
			if werr := WriteJSON(cmd.OutOrStdout(), reporting.ErrorJSON(err)); werr != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		}
		return 1
	}
	return 0
}
