package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"pingwatch/internal/monitor"
)

// completeKinds provides shell completion for --kind flags.
func completeKinds(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, name := range monitor.KindNames() {
		if strings.HasPrefix(name, strings.ToLower(toComplete)) {
			completions = append(completions, name)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeSessions provides shell completion for --session flags.
func completeSessions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, s := range []string{"current", "all"} {
		if strings.HasPrefix(s, strings.ToLower(toComplete)) {
			completions = append(completions, s)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
