// cmd/goquantile/bench.go
package goquantile

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/goquantile/harness"
	"github.com/mwiater/goquantile/quantile"
)

var (
	benchAllMethods bool
	benchVerbose    bool
	benchQuantiles  []string
)

// benchCmd implements 'bench'.
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time the quantile kernels",
	Long: `The 'bench' command runs the speed suite: for every sample size it generates a
deterministic log-normal sample and times repeated evaluations of the requested
quantiles with the configured method (or every method with --all-methods).
It reports p50/p95 nanoseconds per evaluation and mean throughput.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := quantileArgs(benchQuantiles, appConfig)
		if err != nil {
			return err
		}
		methods := []quantile.Method{appConfig.MethodValue()}
		if benchAllMethods {
			methods = quantile.Methods()
		}

		b := appConfig.Bench
		cfg := harness.SuiteConfig{
			Methods:     methods,
			SampleSizes: b.Sizes,
			Quantiles:   qs,
			Trials:      b.Trials,
			Iterations:  b.Iterations,
			Warmup:      b.Warmup,
			Workers:     appConfig.Workers,
			Seed:        b.Seed,
		}
		if b.Progress {
			cfg.Progress = cmd.ErrOrStderr()
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		_, err = harness.Run(ctx, cfg, cmd.OutOrStdout(), benchVerbose, appConfig.Format == "json")
		return err
	},
}

func init() {
	flags := benchCmd.Flags()
	flags.BoolVar(&benchAllMethods, "all-methods", false, "benchmark every method")
	flags.BoolVarP(&benchVerbose, "verbose", "v", false, "print the resolved suite configuration")
	flags.StringSliceVarP(&benchQuantiles, "quantile", "q", nil, "quantiles evaluated per pass (default from config)")
	flags.IntSlice("sizes", []int{16, 1024, 65536}, "sample sizes")
	flags.Int("trials", 5, "timed trials per method and size")
	flags.Int("iterations", 10000, "evaluation passes per trial")
	flags.Bool("progress", false, "show a progress bar on stderr")
	flags.Int64("seed", 1, "sample generator seed")

	_ = viper.BindPFlag("bench.sizes", flags.Lookup("sizes"))
	_ = viper.BindPFlag("bench.trials", flags.Lookup("trials"))
	_ = viper.BindPFlag("bench.iterations", flags.Lookup("iterations"))
	_ = viper.BindPFlag("bench.progress", flags.Lookup("progress"))
	_ = viper.BindPFlag("bench.seed", flags.Lookup("seed"))
	rootCmd.AddCommand(benchCmd)
}
