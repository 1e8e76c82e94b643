// Package cmd contains the CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	outputFormat string
	configPath   string
	verbose      bool
	quiet        bool
)

func Execute(version, commit, date string) error {
	rootCmd := &cobra.Command{
		Use:   "appupdater",
		Short: "In-app update checks, downloads, and review prompting",
		Long: `appupdater decides whether a newer release of an app exists, drives the
download/install flow, and gates store review prompts behind a happiness gate.

Describe the app in appupdater.toml and drive the engine with check, download,
and review.`,
		Version:      version,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "Output format: text, json, yaml")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to appupdater config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newDownloadCmd())
	rootCmd.AddCommand(newInstallCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))
	rootCmd.AddCommand(newCompletionCmd())

	// Register completion function for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return rootCmd.Execute()
}
