package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ychenfen/shellgpt/internal/history"
	"github.com/ychenfen/shellgpt/internal/output"
	"github.com/ychenfen/shellgpt/internal/tui/styles"
	"github.com/ychenfen/shellgpt/internal/tui/theme"
)

var (
	flagHistoryLimit int
	flagPruneDays    int
)

func init() {
	historyCmd.PersistentFlags().IntVarP(&flagHistoryLimit, "limit", "n", history.DefaultListLimit, "maximum entries to return")
	historyPruneCmd.Flags().IntVar(&flagPruneDays, "older-than", 0, "delete entries older than N days (default: history.retention_days)")

	historyCmd.AddCommand(historySearchCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)

	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously generated commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(flagHistoryLimit)
		if err != nil {
			return err
		}
		return writeEntries(entries)
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search history by query or command text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Search(strings.Join(args, " "), flagHistoryLimit)
		if err != nil {
			return err
		}
		return writeEntries(entries)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one history entry in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := requireHistory()
		if err != nil {
			return err
		}
		defer store.Close()

		entry, err := store.Get(args[0])
		if err != nil {
			return err
		}

		out := output.New(output.Format(GetOutput()))
		if out.Structured() {
			return out.Write(entry)
		}

		s := styles.New()
		out.Plain(s.Title.Render(entry.Query))
		out.Plain(fmt.Sprintf("  id:       %s", entry.ID))
		out.Plain(fmt.Sprintf("  command:  %s", entry.ShellCommand))
		if entry.Explanation != "" {
			out.Plain(fmt.Sprintf("  explains: %s", entry.Explanation))
		}
		out.Plain(fmt.Sprintf("  safety:   %s %s", theme.TierEmoji(entry.SafetyLevel), entry.SafetyLevel))
		out.Plain(fmt.Sprintf("  created:  %s", entry.CreatedAt.Local().Format(time.RFC3339)))
		if entry.Executed {
			code := 0
			if entry.ExitCode != nil {
				code = *entry.ExitCode
			}
			out.Plain(fmt.Sprintf("  executed: exit %d in %dms", code, entry.Duration))
			if entry.Output != "" {
				out.Plain("  output:")
				for _, line := range strings.Split(strings.TrimRight(entry.Output, "\n"), "\n") {
					out.Plain("    " + line)
				}
			}
		}
		return nil
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old history entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if store == nil {
			return fmt.Errorf("history is disabled (history.enabled = false)")
		}
		defer store.Close()

		days := flagPruneDays
		if days <= 0 {
			days = cfg.History.RetentionDays
		}
		removed, err := store.Prune(time.Duration(days) * 24 * time.Hour)
		if err != nil {
			return err
		}

		out := output.New(output.Format(GetOutput()))
		if out.Structured() {
			return out.Write(map[string]any{"removed": removed, "older_than_days": days})
		}
		out.Success(fmt.Sprintf("removed %d entries older than %d days", removed, days))
		return nil
	},
}

// requireHistory opens the history store, failing when history is disabled.
func requireHistory() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("history is disabled (history.enabled = false)")
	}
	return store, nil
}

func writeEntries(entries []*history.Entry) error {
	out := output.New(output.Format(GetOutput()))
	if out.Structured() {
		return out.Write(entries)
	}

	if len(entries) == 0 {
		out.Plain("no history entries")
		return nil
	}

	s := styles.New()
	for _, e := range entries {
		age := humanAge(time.Since(e.CreatedAt))
		out.Plain(fmt.Sprintf("%s %s  %s", theme.TierEmoji(e.SafetyLevel), s.Dimmed.Render(age), e.Query))
		out.Plain(fmt.Sprintf("   %s  %s", s.Dimmed.Render(shortID(e.ID)), e.ShellCommand))
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func humanAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
