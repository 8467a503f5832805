// cmd/goquantile/position.go
package goquantile

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/goquantile/internal/report"
	"github.com/mwiater/goquantile/quantile"
)

var (
	positionQuantiles []string
	positionN         int
)

type positionRow struct {
	Q     float64 `json:"q"`
	Gamma float64 `json:"gamma"`
	J     int     `json:"j"`
}

// positionCmd implements 'position'.
var positionCmd = &cobra.Command{
	Use:   "position",
	Short: "Show the interpolation position for a sample size",
	Long: `The 'position' command prints the interpolation weight gamma and the 0-based
left index j the configured method uses for each quantile on a sample of
size --n. The value is then (1-gamma)*x[j] + gamma*x[j+1].`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		qs, err := quantileArgs(positionQuantiles, appConfig)
		if err != nil {
			return err
		}
		k, err := quantile.NewKernel[float64](appConfig.MethodValue())
		if err != nil {
			return err
		}

		rows := make([]positionRow, len(qs))
		for i, q := range qs {
			gamma, j, err := k.Position(q, positionN)
			if err != nil {
				return err
			}
			rows[i] = positionRow{Q: q, Gamma: gamma, J: j}
		}

		out := cmd.OutOrStdout()
		if appConfig.Format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(rows)
		}
		fmt.Fprintf(out, "%s n=%d:\n", k.Name(), positionN)
		for _, r := range rows {
			fmt.Fprintf(out, "  q=%-8s gamma=%-8s j=%d\n", report.FormatFloat(r.Q), report.FormatFloat(r.Gamma), r.J)
		}
		return nil
	},
}

func init() {
	positionCmd.Flags().StringSliceVarP(&positionQuantiles, "quantile", "q", nil, "quantiles to position (default from config)")
	positionCmd.Flags().IntVarP(&positionN, "n", "n", 0, "sample size")
	_ = positionCmd.MarkFlagRequired("n")
	rootCmd.AddCommand(positionCmd)
}
