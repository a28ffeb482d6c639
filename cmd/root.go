// Package cmd implements the CLI commands for urlmd using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gaurav-prasanna/urlmd/config"
	"github.com/gaurav-prasanna/urlmd/logging"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	flagOut  string
	flagPort int

	cfg    config.Config
	logger = zerolog.Nop()
)

// flagKeys maps command-line flags to the config keys they override.
var flagKeys = map[string]string{
	"port":      "server.port",
	"engine":    "convert.engine",
	"skip-tags": "convert.skip_tags",
	"max-depth": "convert.max_depth",
	"max-pages": "crawl.max_pages",
	"charset":   "fetch.charset",
	"timeout":   "fetch.timeout",
	"verbose":   "log.verbose",
	"quiet":     "log.quiet",
	"log-json":  "log.json",
}

var rootCmd = &cobra.Command{
	Use:   "urlmd [url]",
	Short: "urlmd — convert web pages into readable Markdown",
	Long: `urlmd fetches a web page, keeps its main content and prints it as Markdown.

With a URL it converts that page; without one it starts an HTTP server that
converts any URL appended to its address.

Examples:
  urlmd https://en.wikipedia.org/wiki/Go_(programming_language)
  urlmd https://example.com -o example.md
  urlmd -P 8080
  curl localhost:3000/https://example.com`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.urlmd.yaml)")
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.BoolP("quiet", "q", false, "only log errors")
	pf.Bool("log-json", false, "log as JSON lines")

	rootCmd.Flags().StringVarP(&flagOut, "output", "o", "", "write the Markdown to this file instead of stdout")
	rootCmd.Flags().IntVarP(&flagPort, "port", "P", 3000, "port for server mode")
}

// setup loads configuration with the running command's flags bound, then
// installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	v := viper.GetViper()
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
	if err := config.Init(v, cfgFile); err != nil {
		return err
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	cfg = loaded

	logger = logging.Setup(logging.Options{
		Verbose: cfg.Log.Verbose,
		Quiet:   cfg.Log.Quiet,
		JSON:    cfg.Log.JSON,
	})
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug().Str("file", used).Msg("loaded config")
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return serve(cmd.Context())
	}

	rawURL := args[0]
	if err := validateURL(rawURL); err != nil {
		return err
	}
	p, err := convertURL(cmd.Context(), rawURL, newFetcher(), newConverter())
	if err != nil {
		return err
	}
	return emit(cmd, p, flagOut)
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
