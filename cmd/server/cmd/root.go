package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "server",
		Short: "Gatelog server - badge scan ingestion and audit backend",
		Long: `Gatelog server records badge scans reported by door-mounted card
readers, answers each scan with an authorization decision, and keeps the
audit trail queryable.

The server provides:
- The device endpoints readers post scans to and dashboards poll
- An authenticated admin API for roster management and reporting
- Email alerts for unauthorized badge scans
- Prometheus metrics and health probes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Serve by default when no subcommand is given.
			return serveCmd.RunE(cmd, args)
		},
	}
)

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error) (default: info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (json, console) (default: json)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(healthcheckCmd)
}
