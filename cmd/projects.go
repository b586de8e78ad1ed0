package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/specif-jira/internal/logging"
)

func newProjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List Jira projects as SpecIF project descriptors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			descriptors, err := a.reader.GetProjectDescriptors(cmd.Context())
			if err != nil {
				return err
			}

			logging.Debug("listed projects", "count", len(descriptors))
			return render(cmd.OutOrStdout(), a.output, descriptors)
		},
	}
}
