// cmd/goquantile/batch.go
package goquantile

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/mwiater/goquantile/internal/dataset"
	"github.com/mwiater/goquantile/internal/report"
	"github.com/mwiater/goquantile/quantile"
)

var (
	batchQuantiles   []string
	batchInputFormat string
)

// batchCmd implements 'batch'.
var batchCmd = &cobra.Command{
	Use:   "batch <file|->",
	Short: "Compute quantiles of every row of a file",
	Long: `The 'batch' command treats every row of the input (a text line, a CSV record or
an element of a JSON/YAML list of lists) as its own sample and evaluates the
requested quantiles on each one in parallel. Output has one row per input row
and one column per quantile.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := dataset.ParseFormat(batchInputFormat)
		if err != nil {
			return err
		}
		rows, err := dataset.LoadRows(args[0], format)
		if err != nil {
			return err
		}
		qs, err := quantileArgs(batchQuantiles, appConfig)
		if err != nil {
			return err
		}
		k, err := quantile.NewKernel[float64](appConfig.MethodValue())
		if err != nil {
			return err
		}
		if !appConfig.Sorted {
			dataset.SortRows(rows)
		}

		out, err := reduce(cmd.Context(), k, qs, rows, appConfig.Workers)
		if err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"rows": len(rows), "q": len(qs), "method": k.Name()}).Debug("batch evaluated")
		return report.RenderMatrix(cmd.OutOrStdout(), appConfig.Format, qs, out)
	},
}

// reduce evaluates qs on every row. Rectangular input goes through the
// matrix path; ragged rows are flattened into independent requests.
func reduce(ctx context.Context, k *quantile.Kernel[float64], qs []float64, rows [][]float64, workers int) (*mat.Dense, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opt := quantile.WithWorkers(workers)
	if dataset.Rectangular(rows) {
		m, err := dataset.ToDense(rows)
		if err != nil {
			return nil, err
		}
		return quantile.ReduceRows(ctx, k, qs, m, opt)
	}

	reqs := make([]quantile.Request[float64], 0, len(rows)*len(qs))
	for _, row := range rows {
		for _, q := range qs {
			reqs = append(reqs, quantile.Request[float64]{Q: q, Sample: row})
		}
	}
	values, err := k.Batch(ctx, reqs, opt)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(len(rows), len(qs), values), nil
}

func init() {
	batchCmd.Flags().StringSliceVarP(&batchQuantiles, "quantile", "q", nil, "quantiles to evaluate (default from config)")
	batchCmd.Flags().StringVar(&batchInputFormat, "input-format", "", "input format: text, csv, tsv, json or yaml (default: from extension)")
	rootCmd.AddCommand(batchCmd)
}
