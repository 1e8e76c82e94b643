package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install a finished flexible download",
		Long: `Ask the store bridge to install a previously downloaded flexible update.
The bridge decides whether a finished download exists; within one process,
download --install chains the two steps through the state machine instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			if err := eng.Client.CompleteFlexibleUpdate(cmd.Context()); err != nil {
				return err
			}

			if !quiet {
				fmt.Println("update installed")
			}
			return nil
		},
	}
}
