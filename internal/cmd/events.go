package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhnc/appupdater/internal/journal"
	"github.com/minhnc/appupdater/internal/output"
)

func newEventsCmd() *cobra.Command {
	var (
		prune    bool
		keepDays int
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Show the event journal",
		Long: `List recorded engine events, newest first. --prune removes journal files
outside the retention window.

Examples:
  appupdater events
  appupdater events --limit 10 -o json
  appupdater events --prune --keep-days 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			if prune {
				result, err := eng.Journal.Prune(keepDays)
				if err != nil {
					return err
				}
				if !quiet {
					fmt.Printf("pruned %d journal file(s), kept %d\n", len(result.Deleted), result.Kept)
				}
				return nil
			}

			recorded, err := eng.Journal.List()
			if err != nil {
				return err
			}
			if limit > 0 && len(recorded) > limit {
				recorded = recorded[:limit]
			}

			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}
			if format == output.FormatText {
				if len(recorded) == 0 {
					fmt.Println("no events recorded")
					return nil
				}
				for _, ev := range recorded {
					line := fmt.Sprintf("%s  %s", ev.At.Format("2006-01-02 15:04:05"), ev.Type)
					if ev.Version != "" {
						line += "  version=" + ev.Version
					}
					if ev.Count > 0 {
						line += fmt.Sprintf("  count=%d", ev.Count)
					}
					if ev.Error != "" {
						line += "  error=" + ev.Error
					}
					fmt.Println(line)
				}
				return nil
			}

			writer, err := newWriter()
			if err != nil {
				return err
			}
			return writer.Write(recorded)
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "Remove journal files outside the retention window")
	cmd.Flags().IntVar(&keepDays, "keep-days", journal.DefaultKeepDays, "Retention window in days for --prune")
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many events (0 = all)")

	return cmd
}
