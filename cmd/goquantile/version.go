// cmd/goquantile/version.go
package goquantile

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...goquantile.Version=v1.2.3".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Long:  `The 'version' command prints the build version of goquantile.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "goquantile", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
