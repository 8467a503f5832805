// cmd/goquantile/root.go
package goquantile

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/goquantile/internal/config"
	"github.com/mwiater/goquantile/internal/logging"
)

var (
	cfgFile string
	// appConfig is resolved before every command runs.
	appConfig *config.Config
	logCloser io.Closer
)

// rootCmd is the base Cobra command for the goquantile application.
// All subcommands are attached to this root to form the complete CLI.
var rootCmd = &cobra.Command{
	Use:   "goquantile",
	Short: "Interpolated quantiles over sorted samples",
	Long: `goquantile computes quantiles of numeric samples with any of the thirteen
classical estimation methods (the nine Hyndman & Fan definitions plus lower,
higher, midpoint and nearest). It reads samples from CSV, JSON, YAML or plain
text, serves the engine over HTTP, benchmarks it and offers an interactive explorer.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg

		closer, err := logging.Configure(logrus.StandardLogger(), logging.Options{
			LogConfig: cfg.Log,
			Debug:     cfg.Debug,
			Quiet:     cmd == exploreCmd,
			Output:    cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		logCloser = closer
		logrus.WithField("config", cfgFile).Debug("configuration loaded")
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
}

// Execute runs the root Cobra command and all registered subcommands.
// It prints any returned error and exits the process with a non-zero
// status code on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	config.Prepare(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-file", "", "also write JSON logs to this rotating file")
	flags.StringP("format", "f", "text", "output format: text, table, markdown, csv, html or json")
	flags.StringP("method", "m", "linear", "quantile method name or Hyndman & Fan number")
	flags.Int("workers", 0, "parallel workers for batch evaluation (0 = GOMAXPROCS)")
	flags.Bool("sorted", false, "input is already sorted; skip sorting")

	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("log.file", flags.Lookup("log-file"))
	_ = viper.BindPFlag("format", flags.Lookup("format"))
	_ = viper.BindPFlag("method", flags.Lookup("method"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("sorted", flags.Lookup("sorted"))
}
