package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhnc/appupdater/internal/interactive"
	"github.com/minhnc/appupdater/internal/types"
)

func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Record wins and drive the review prompt flow",
	}

	cmd.AddCommand(newReviewWinCmd())
	cmd.AddCommand(newReviewPromptCmd())
	cmd.AddCommand(newReviewRequestCmd())
	cmd.AddCommand(newReviewStateCmd())

	return cmd
}

func newReviewWinCmd() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "win",
		Short: "Record a positive user moment",
		Long: `Record one or more wins. When the accepted win count reaches the
configured threshold the happiness gate opens; on a terminal it is asked
right away, otherwise resolve it later with review prompt.

Examples:
  appupdater review win
  appupdater review win --count 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("count must be at least 1")
			}

			eng, err := newEngine()
			if err != nil {
				return err
			}

			gateShown := false
			for i := 0; i < count; i++ {
				shown, err := eng.Review.RecordWin(cmd.Context())
				if err != nil {
					return err
				}
				gateShown = gateShown || shown
			}

			if !quiet {
				fmt.Printf("win count: %d\n", eng.Review.State().WinCount)
			}

			if gateShown {
				return resolveGate(cmd, eng)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "count", 1, "Number of wins to record")

	return cmd
}

func newReviewPromptCmd() *cobra.Command {
	var outcomeFlag string

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Resolve the happiness gate",
		Long: `Ask the happiness-gate question and route the answer: a positive answer
requests the review flow, a negative one diverts to feedback, dismissing
does nothing. Every outcome starts a fresh cooldown.

Examples:
  appupdater review prompt
  appupdater review prompt --outcome positive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			if outcomeFlag != "" {
				outcome, err := types.ParseGateOutcome(outcomeFlag)
				if err != nil {
					return err
				}
				return eng.Review.ResolveGate(cmd.Context(), outcome)
			}
			return resolveGate(cmd, eng)
		},
	}

	cmd.Flags().StringVar(&outcomeFlag, "outcome", "", "Resolve non-interactively: positive, negative, or dismiss")

	_ = cmd.RegisterFlagCompletionFunc("outcome", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"positive", "negative", "dismiss"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// resolveGate asks the gate question on a terminal; off-terminal the gate
// stays unresolved so a non-interactive caller can use --outcome.
func resolveGate(cmd *cobra.Command, eng *Engine) error {
	if !interactive.IsTerminal() {
		fmt.Println("happiness gate pending; resolve with: appupdater review prompt --outcome <positive|negative|dismiss>")
		return nil
	}

	outcome := interactive.NewPrompter().AskGate(eng.Config.App.BundleID)
	if err := eng.Review.ResolveGate(cmd.Context(), outcome); err != nil {
		return err
	}
	if outcome == types.GateOutcomeNegative && !quiet {
		fmt.Println("Sorry to hear that. Tell us what went wrong so we can fix it.")
	}
	return nil
}

func newReviewRequestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request",
		Short: "Force the review request path",
		Long: `Run the review request directly, skipping the win counting: the native
review dialog when the cooldown allows it, the store review page otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}
			return eng.Review.RequestReview(cmd.Context())
		},
	}
}

func newReviewStateCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show or reset the persisted review state",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			if reset {
				if err := eng.Review.Reset(); err != nil {
					return err
				}
				if !quiet {
					fmt.Println("review state reset")
				}
				return nil
			}

			writer, err := newWriter()
			if err != nil {
				return err
			}
			return writer.Write(eng.Review.State())
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Clear the persisted review state")

	return cmd
}
