// cmd/goquantile/explore.go
package goquantile

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/goquantile/cli"
)

var exploreSample sampleFlags

// startExplorer is a package-level variable so tests can stub the TUI.
var startExplorer = cli.StartExplorer

// exploreCmd represents the 'explore' command.
var exploreCmd = &cobra.Command{
	Use:   "explore [file|-]",
	Short: "Explore a sample interactively",
	Long: `The 'explore' command opens an interactive terminal UI over one sample: pick a
method, type quantiles and read the values, or compare four methods side by side.
Console logging is silenced while the UI runs; use --log-file to keep logs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sample, source, err := exploreSample.load(args, appConfig)
		if err != nil {
			return err
		}
		return startExplorer(cli.Options{
			Sample:    sample,
			Source:    source,
			Method:    appConfig.MethodValue(),
			Quantiles: appConfig.Quantiles,
			Workers:   appConfig.Workers,
			Debug:     appConfig.Debug,
		})
	},
}

func init() {
	exploreSample.register(exploreCmd)
	rootCmd.AddCommand(exploreCmd)
}
