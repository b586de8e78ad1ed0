// Package cmd provides the command-line interface for the specif-jira adapter.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "specif-jira",
		Short: "specif-jira exposes Jira projects as SpecIF hierarchies and resources",
		Long: `specif-jira is a CLI for the Jira interchange adapter. It reads Jira projects
and requirement issues and presents them as SpecIF hierarchies and resources,
and it creates Jira issues from SpecIF resources.

Connection settings come from the environment (JIRA_URL, JIRA_USERNAME,
JIRA_TOKEN, JIRA_TIMEOUT, SPECIF_METADATA_FILE, LOG_LEVEL) or from a config
file passed with --config.`,
		SilenceUsage: true,
	}

	// Add persistent flags that will be available to all commands
	rootCmd.PersistentFlags().String("config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().StringP("output", "o", formatJSON, "output format: json or yaml")

	rootCmd.AddCommand(
		newProjectsCmd(),
		newHierarchiesCmd(),
		newResourceCmd(),
		newSaveCmd(),
		newStatusesCmd(),
	)

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
