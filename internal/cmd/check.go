package cmd

import (
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer release is available",
		Long: `Query the configured update source and report whether a newer release of
the app exists. Results are cached; --force bypasses the cache.

Examples:
  appupdater check
  appupdater check --force
  appupdater check -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			result, err := eng.Update.Check(cmd.Context(), force)
			if err != nil {
				return err
			}

			writer, err := newWriter()
			if err != nil {
				return err
			}
			return writer.Write(result)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Bypass the result cache")

	return cmd
}
