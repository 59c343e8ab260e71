package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pingwatch/internal/app"
	"pingwatch/internal/monitor"
	"pingwatch/internal/storage"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded probe outcomes",
	Long: `Show recent probe outcomes from the history database (HISTORY_DB).

The current session is the most recent run of the monitor.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		kind, _ := cmd.Flags().GetString("kind")
		session, _ := cmd.Flags().GetString("session")

		if kind != "" {
			if _, err := monitor.ParseKind(kind); err != nil {
				return err
			}
		}

		store, err := app.OpenHistory(appConfig)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		sessionID, err := resolveSession(ctx, store, session)
		if err != nil {
			return err
		}

		records, err := store.GetRecentProbes(ctx, storage.ProbeFilter{
			SessionID: sessionID,
			Kind:      kind,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("failed to get probe history: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("No probes recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tLATENCY\tEXIT\tNETWORK\tDETAIL")
		fmt.Fprintln(w, "----\t----\t-------\t----\t-------\t------")

		for _, r := range records {
			latency := "-"
			if r.LatencyMS != nil {
				latency = fmt.Sprintf("%.1fms", *r.LatencyMS)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				r.ProbedAt.Format("2006-01-02 15:04:05"),
				r.Kind,
				latency,
				r.ExitCode,
				truncate(r.NetworkName, 24),
				truncate(r.Detail, 60),
			)
		}
		w.Flush()

		counts, err := store.CountByKind(ctx, sessionID)
		if err != nil {
			return fmt.Errorf("failed to count probes: %w", err)
		}
		total := 0
		for _, n := range counts {
			total += n
		}

		fmt.Printf("\nShowing %d of %d probe(s)", len(records), total)
		if sessionID != "" {
			fmt.Printf(" in session %s", sessionID)
		}
		fmt.Printf(", newest %s\n", humanize.Time(records[0].ProbedAt))
		for _, name := range monitor.KindNames() {
			if n := counts[name]; n > 0 {
				fmt.Printf("  %-13s %d\n", name+":", n)
			}
		}
		return nil
	},
}

// resolveSession maps the --session flag to a session id; empty means all.
func resolveSession(ctx context.Context, store storage.Storage, session string) (string, error) {
	switch session {
	case "all":
		return "", nil
	case "", "current":
		id, err := store.GetLatestSession(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to find latest session: %w", err)
		}
		return id, nil
	default:
		return session, nil
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "number of probes to show")
	historyCmd.Flags().String("kind", "", "only show one outcome kind")
	historyCmd.Flags().String("session", "current", "session to show: current, all or a session id")

	historyCmd.RegisterFlagCompletionFunc("kind", completeKinds)
	historyCmd.RegisterFlagCompletionFunc("session", completeSessions)

	rootCmd.AddCommand(historyCmd)
}
