package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dom/catalog-facade/internal/config"
	"github.com/dom/catalog-facade/internal/logging"
	"github.com/dom/catalog-facade/internal/service"
	"github.com/dom/catalog-facade/internal/snapshot"
	"github.com/dom/catalog-facade/internal/upstream"
)

var (
	// Global flags
	verbose   bool
	remoteURL string
	timeout   time.Duration

	logger  *zap.Logger
	catalog *service.CatalogService
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Query the catalog facade from the command line",
	Long: `catalogctl runs catalog queries through the same remote-then-fallback
path the API server uses and prints the canonical envelope as JSON.

With no remote URL configured every answer comes from the bundled snapshot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("remote") {
			cfg.RemoteBaseURL = remoteURL
		}
		if cmd.Flags().Changed("timeout") {
			cfg.UpstreamTimeout = timeout
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger, err = logging.New("production", level)
		if err != nil {
			return err
		}

		snap, err := snapshot.Bundled()
		if err != nil {
			return fmt.Errorf("failed to load bundled snapshot: %w", err)
		}

		remote := upstream.NewClient(cfg.RemoteBaseURL,
			upstream.WithTimeout(cfg.UpstreamTimeout),
			upstream.WithLogger(logger.Named("upstream")),
		)
		catalog = service.NewServices(remote, snap, cfg, logger).Catalog
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every state transition")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "remote base URL (overrides REMOTE_BASE_URL; empty means snapshot only)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", upstream.DefaultTimeout, "upstream call timeout")

	rootCmd.AddCommand(getCmd, searchCmd, listCmd, kindsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
