// cmd/goquantile/list_methods.go
package goquantile

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/goquantile/internal/report"
)

// methodsCmd implements 'list methods'.
var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the quantile methods and their parameters",
	Long: `The 'methods' subcommand prints every quantile method with its Hyndman & Fan
number and its parameter tuple (gammaL, gammaR, f1, f2, jDecrement, posH,
continuous, zeroClamp, nearestTiebreak) in the selected output format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.RenderMethods(cmd.OutOrStdout(), appConfig.Format)
	},
}

func init() {
	listCmd.AddCommand(methodsCmd)
}
