// cmd/goquantile/compute.go
package goquantile

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/internal/report"
	"github.com/mwiater/goquantile/quantile"
)

var (
	computeSample     sampleFlags
	computeQuantiles  []string
	computeAllMethods bool
	computeSummary    bool
	computeTuple      string
)

// computeCmd implements 'compute'.
var computeCmd = &cobra.Command{
	Use:   "compute [file|-]",
	Short: "Compute quantiles of a sample",
	Long: `The 'compute' command reads one sample, sorts it unless --sorted is given and
evaluates the requested quantiles with the configured method, every method
(--all-methods) or a custom parameter tuple (--tuple). Quantiles accept
fractions (0.95), percentages (95%) and percentile shorthands (p95).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, source, err := computeSample.load(args, appConfig)
		if err != nil {
			return err
		}
		qs, err := quantileArgs(computeQuantiles, appConfig)
		if err != nil {
			return err
		}
		kernels, err := computeKernels()
		if err != nil {
			return err
		}

		rows, err := report.Evaluate(kernels, qs, sample)
		if err != nil {
			return err
		}
		res := report.Results{Source: source, N: len(sample), Rows: rows}
		if computeSummary {
			s := dataset.Summarize(sample)
			res.Summary = &s
		}

		logrus.WithFields(logrus.Fields{
			"source":  source,
			"n":       len(sample),
			"methods": len(kernels),
			"q":       len(qs),
		}).Debug("computed quantiles")
		return report.Render(cmd.OutOrStdout(), appConfig.Format, res)
	},
}

func computeKernels() ([]*quantile.Kernel[float64], error) {
	if computeTuple != "" {
		cfg, err := parseTuple(computeTuple)
		if err != nil {
			return nil, err
		}
		k, err := quantile.NewKernelFromConfig[float64](cfg)
		if err != nil {
			return nil, err
		}
		return []*quantile.Kernel[float64]{k}, nil
	}

	methods := []quantile.Method{appConfig.MethodValue()}
	if computeAllMethods {
		methods = quantile.Methods()
	}
	kernels := make([]*quantile.Kernel[float64], len(methods))
	for i, m := range methods {
		k, err := quantile.NewKernel[float64](m)
		if err != nil {
			return nil, err
		}
		kernels[i] = k
	}
	return kernels, nil
}

// parseTuple reads "gammaL,gammaR,f1,f2,jDecrement,posH,continuous,zeroClamp,nearestTiebreak".
// Trailing booleans may be omitted and default to false.
func parseTuple(s string) (quantile.Config, error) {
	fields := strings.Split(s, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	if len(fields) < 6 || len(fields) > 9 {
		return quantile.Config{}, errors.Wrapf(quantile.ErrInvalidArgument, "tuple needs 6 to 9 fields, got %d", len(fields))
	}

	var nums [4]float64
	for i := range nums {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return quantile.Config{}, errors.Wrapf(quantile.ErrInvalidArgument, "tuple field %d: %q", i+1, fields[i])
		}
		nums[i] = v
	}
	jd, err := strconv.Atoi(fields[4])
	if err != nil {
		return quantile.Config{}, errors.Wrapf(quantile.ErrInvalidArgument, "tuple field 5: %q", fields[4])
	}
	posH, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return quantile.Config{}, errors.Wrapf(quantile.ErrInvalidArgument, "tuple field 6: %q", fields[5])
	}
	var flags [3]bool
	for i, f := range fields[6:] {
		b, err := strconv.ParseBool(f)
		if err != nil {
			return quantile.Config{}, errors.Wrapf(quantile.ErrInvalidArgument, "tuple field %d: %q", i+7, f)
		}
		flags[i] = b
	}

	return quantile.Config{
		GammaL:          nums[0],
		GammaR:          nums[1],
		F1:              nums[2],
		F2:              nums[3],
		JDecrement:      jd,
		PosH:            posH,
		Continuous:      flags[0],
		ZeroClamp:       flags[1],
		NearestTiebreak: flags[2],
	}, nil
}

func init() {
	computeSample.register(computeCmd)
	computeCmd.Flags().StringSliceVarP(&computeQuantiles, "quantile", "q", nil, "quantiles to evaluate (default from config)")
	computeCmd.Flags().BoolVar(&computeAllMethods, "all-methods", false, "evaluate with every method")
	computeCmd.Flags().BoolVar(&computeSummary, "summary", false, "include count, min, max, mean and stddev")
	computeCmd.Flags().StringVar(&computeTuple, "tuple", "", "custom parameter tuple gammaL,gammaR,f1,f2,jDecrement,posH[,continuous,zeroClamp,nearestTiebreak]")
	rootCmd.AddCommand(computeCmd)
}
