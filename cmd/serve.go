package cmd

import (
	"context"
	"fmt"

	"github.com/gaurav-prasanna/urlmd/api"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Serve starts an HTTP server. GET /<url> fetches the page and returns its
Markdown; the URL may be plain or percent-encoded.

  GET /health   liveness probe
  GET /metrics  Prometheus metrics`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "P", 3000, "port to listen on")
	serveCmd.Flags().String("engine", "native", "conversion engine: native or library")
}

// serve runs the API server until ctx is canceled.
func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	srv := api.NewServer(newFetcher(), newConverter(), logger, cfg.Server.ConvertTimeout)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	return srv.Run(ctx, addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)
}
