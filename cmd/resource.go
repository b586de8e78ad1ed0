package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/internal/provider"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

func newResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resource <id>",
		Short: "Show the SpecIF resource of a Jira issue or project hierarchy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			revision, err := cmd.Flags().GetString("revision")
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			key := models.NewKey(args[0], revision)
			resource, err := a.reader.GetResourceByKey(cmd.Context(), key)
			if errors.Is(err, provider.ErrNotFound) {
				// Hierarchy resources are only known after the roots are built.
				logging.Debug("building hierarchy roots for resource lookup", "id", key.ID)
				if _, err := a.reader.GetAllHierarchyRootNodes(cmd.Context(), ""); err != nil {
					return err
				}
				resource, err = a.reader.GetResourceByKey(cmd.Context(), key)
			}
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), a.output, resource)
		},
	}

	cmd.Flags().StringP("revision", "r", "", "resource revision; hierarchy resources use revision 1")
	return cmd
}
