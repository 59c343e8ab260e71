package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pingwatch/internal/app"
	"pingwatch/internal/config"
)

var (
	appConfig *config.Config
	version   = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pingwatch",
	Short: "Network reachability and latency monitor",
	Long: `pingwatch - Network reachability and latency monitor

  Pings a target host on a fixed interval, classifies every reply,
  keeps success/fault/debug logs, archives them periodically and
  prunes small old archives.

  While running, type commands on stdin:
    report      print uptime, counters and average latency
    log -d      toggle debug logging
    archive     archive the live logs now
    ?           list every command
    q           quit

  Quick start:
    pingwatch config init
    pingwatch
    pingwatch tui`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that write or describe the config file load it themselves.
		if cmd.Annotations["skipConfig"] == "true" {
			return nil
		}
		var err error
		appConfig, err = loadConfig(cmd)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		a, err := app.New(appConfig, app.Options{LogLevel: level})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(a.Terminal, "Monitoring %s every %s. Enter '?' for a list of commands.\n",
			appConfig.Target, appConfig.ProbeInterval)
		return a.Run(ctx, os.Stdin)
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return app.LoadConfig(path)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "settings file path (default ~/.config/pingwatch/settings.cfg)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Annotations: map[string]string{"skipConfig": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pingwatch %s\n", version)
	},
}
