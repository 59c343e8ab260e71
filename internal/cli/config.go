package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pingwatch/internal/config"
	"pingwatch/internal/paths"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the settings file",
	Long:  "Create the settings file or print the effective settings",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a settings file with the default values",
	Annotations: map[string]string{"skipConfig": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		path, _ := cmd.Flags().GetString("config")
		if path == "" {
			var err error
			if path, err = paths.DefaultConfigFile(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
		}
		dataDir, err := paths.DataDir()
		if err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		if err := config.Default(dataDir).Save(path, force); err != nil {
			return err
		}
		paths.ChownToRealUser(path)

		fmt.Printf("Settings written to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		asINI, _ := cmd.Flags().GetBool("ini")
		if asINI {
			_, err := appConfig.WriteTo(os.Stdout)
			return err
		}

		source := appConfig.Source
		if source == "" {
			source = "(defaults, no settings file)"
		}

		fmt.Printf("Source:     %s\n\n", source)
		fmt.Printf("Target:     %s\n", appConfig.Target)
		fmt.Printf("Payload:    %d bytes\n", appConfig.PayloadBytes)
		fmt.Printf("Threshold:  %d ms\n", appConfig.LatencyThresholdMS)
		fmt.Printf("Probe:      every %s\n", appConfig.ProbeInterval)
		fmt.Printf("Archive:    every %s\n", appConfig.ArchiveInterval)
		fmt.Printf("Prune:      archives under %s and at least %d day(s) old\n",
			humanize.Bytes(uint64(appConfig.DeletionSizeThreshold)), appConfig.ArchiveDeletionAge)
		fmt.Println()
		fmt.Printf("Verbose:    %t\n", appConfig.Verbose)
		fmt.Printf("Terminal:   %t\n", appConfig.PrintTerminal)
		fmt.Printf("Debug log:  %t\n", appConfig.LogDebug)
		fmt.Printf("Success log: %t\n", appConfig.LogSuccess)
		fmt.Println()
		fmt.Printf("Log dir:    %s\n", appConfig.LogDir)
		fmt.Printf("Archives:   %s\n", appConfig.ArchiveDir)
		fmt.Printf("Success:    %s\n", appConfig.SuccessLog)
		fmt.Printf("Fault:      %s\n", appConfig.FaultLog)
		fmt.Printf("Debug:      %s\n", appConfig.DebugLog)
		if appConfig.HistoryDB != "" {
			fmt.Printf("History:    %s\n", appConfig.HistoryDB)
		} else {
			fmt.Printf("History:    disabled\n")
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing settings file")
	configShowCmd.Flags().Bool("ini", false, "print in settings file format")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
