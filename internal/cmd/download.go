package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/minhnc/appupdater/internal/download"
	"github.com/minhnc/appupdater/internal/types"
)

func newDownloadCmd() *cobra.Command {
	var (
		modeFlag   string
		andInstall bool
	)

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download an available update",
		Long: `Start the update download. Flexible downloads fetch in the background and
wait for install; immediate mode hands control to the platform store flow.

Examples:
  appupdater download
  appupdater download --mode immediate
  appupdater download --install`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := types.ParseDownloadMode(modeFlag)
			if err != nil {
				return err
			}

			eng, err := newEngine()
			if err != nil {
				return err
			}

			if !quiet {
				eng.Download.OnProgress(func(p download.Progress) {
					fmt.Printf("downloading... %3d%% (%d/%d bytes)\n", p.Percent, p.BytesDownloaded, p.TotalBytes)
				})
			}

			if err := eng.Download.Start(cmd.Context(), mode); err != nil {
				return err
			}

			if eng.Download.State() == download.StateReadyToInstall && andInstall {
				if err := eng.Download.Install(cmd.Context()); err != nil {
					return err
				}
			}

			if !quiet {
				fmt.Printf("download state: %s\n", eng.Download.State())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modeFlag, "mode", "flexible", "Download mode: immediate or flexible")
	cmd.Flags().BoolVar(&andInstall, "install", false, "Install as soon as the flexible download finishes")

	_ = cmd.RegisterFlagCompletionFunc("mode", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"immediate", "flexible"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
