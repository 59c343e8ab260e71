package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pingwatch/internal/app"
	"pingwatch/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Monitor with the interactive terminal UI",
	Long: `Run the monitor behind a full-screen dashboard. The input line accepts
the same commands as the plain shell. Diagnostics go to pingwatch.log in
the log directory instead of the screen.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		level, _ := cmd.Flags().GetString("log-level")
		feed := tui.NewFeed(0)

		a, err := app.New(appConfig, app.Options{
			LogLevel: level,
			LogFile:  filepath.Join(appConfig.LogDir, "pingwatch.log"),
			Terminal: feed,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer a.Close()

		if err := a.Scheduler.Start(cmd.Context()); err != nil {
			return err
		}
		defer a.Scheduler.Stop()

		p := tui.NewProgram(tui.Deps{
			Shell:       a.Shell,
			Stats:       a.Stats,
			Flags:       a.Flags,
			Feed:        feed,
			Target:      appConfig.Target,
			ThresholdMS: appConfig.LatencyThresholdMS,
		})
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
