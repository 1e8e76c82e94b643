package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/minhnc/appupdater/internal/templates"
)

func newInitCmd() *cobra.Command {
	var (
		templateName string
		formatFlag   string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter appupdater config",
		Long: `Create an appupdater config file in the current directory from an
embedded template.

Examples:
  appupdater init
  appupdater init --template ios
  appupdater init --format yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := templates.Get(templateName, formatFlag)
			if err != nil {
				return err
			}

			path := "appupdater." + tmpl.Format
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := os.WriteFile(path, tmpl.Content, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			if !quiet {
				fmt.Printf("Created %s (%s)\n", path, templates.GetDescription(tmpl.Name))
				fmt.Println("Edit the app section, then run: appupdater check")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templateName, "template", "android", "Template to use")
	cmd.Flags().StringVar(&formatFlag, "format", "toml", "Config format: toml or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	_ = cmd.RegisterFlagCompletionFunc("template", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return templates.List(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}
