package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/minhnc/appupdater/internal/events"
	"github.com/minhnc/appupdater/internal/store"
)

// Status is the one-shot engine summary.
type Status struct {
	Platform       string            `json:"platform"`
	BundleID       string            `json:"bundle_id"`
	CurrentVersion string            `json:"current_version"`
	UpdateMode     string            `json:"update_mode"`
	LastKnown      *lastKnownUpdate  `json:"last_known_update,omitempty"`
	Review         store.ReviewState `json:"review"`
	JournalEvents  int               `json:"journal_events"`
}

type lastKnownUpdate struct {
	Version string    `json:"version"`
	SeenAt  time.Time `json:"seen_at"`
}

// String renders the status for the text output format.
func (s *Status) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "App:            %s %s (%s)\n", s.BundleID, s.CurrentVersion, s.Platform)
	fmt.Fprintf(&b, "Update mode:    %s\n", s.UpdateMode)
	if s.LastKnown != nil {
		fmt.Fprintf(&b, "Last update:    %s seen %s\n", s.LastKnown.Version, s.LastKnown.SeenAt.Format(time.RFC3339))
	} else {
		b.WriteString("Last update:    none recorded\n")
	}
	fmt.Fprintf(&b, "Review wins:    %d", s.Review.WinCount)
	if s.Review.HasCompletedReview {
		b.WriteString(" (review completed)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Review prompts: %d\n", s.Review.PromptCount)
	fmt.Fprintf(&b, "Journal:        %d events", s.JournalEvents)
	return b.String()
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the engine state",
		Long: `Show a one-shot summary: app identity, the newest update the journal has
seen, the persisted review state, and the journal size. Never touches the
network.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			status := &Status{
				Platform:       eng.Config.App.Platform.String(),
				BundleID:       eng.Config.App.BundleID,
				CurrentVersion: eng.Config.App.CurrentVersion,
				UpdateMode:     eng.Config.Update.Mode.String(),
				Review:         eng.Review.State(),
			}

			recorded, err := eng.Journal.List()
			if err != nil {
				return err
			}
			status.JournalEvents = len(recorded)
			for _, ev := range recorded {
				// Newest first; the first update_available is the latest seen.
				if ev.Type == events.TypeUpdateAvailable {
					status.LastKnown = &lastKnownUpdate{Version: ev.Version, SeenAt: ev.At}
					break
				}
			}

			writer, err := newWriter()
			if err != nil {
				return err
			}
			return writer.Write(status)
		},
	}
}
