// cmd/goquantile/serve.go
package goquantile

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/goquantile/internal/server"
)

// runServer is swapped in tests.
var runServer = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.ListenAndServe(ctx, addr)
}

// serveCmd implements 'serve'.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quantile engine over HTTP",
	Long: `The 'serve' command starts a JSON API exposing GET /healthz, GET /api/methods,
POST /api/quantile, POST /api/batch and Prometheus metrics on GET /metrics.
It shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Options{
			MaxBodyBytes: appConfig.Server.MaxBodyBytes,
			Workers:      appConfig.Workers,
			Logger:       logrus.StandardLogger(),
		})
		return runServer(ctx, srv, appConfig.Server.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Int64("max-body-bytes", 8<<20, "largest accepted request body")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.max_body_bytes", serveCmd.Flags().Lookup("max-body-bytes"))
	rootCmd.AddCommand(serveCmd)
}
