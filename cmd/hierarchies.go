package cmd

import (
	"github.com/spf13/cobra"

	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

func newHierarchiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hierarchies",
		Short: "Show Jira projects as SpecIF hierarchies",
		Long: `Show one hierarchy per Jira project. Each hierarchy has a child node for every
issue of type "Requirement" or "Customer Requirement", in Jira search order.

Example:
  specif-jira hierarchies --roots-only
  specif-jira hierarchies --project _3f2a..._10000 -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rootsOnly, err := cmd.Flags().GetBool("roots-only")
			if err != nil {
				return err
			}
			projectID, err := cmd.Flags().GetString("project")
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			var nodes []*models.Node
			switch {
			case rootsOnly:
				nodes, err = a.reader.GetAllHierarchyRootNodes(cmd.Context(), projectID)
			case projectID != "":
				nodes, err = a.reader.GetProjectHierarchies(cmd.Context(), projectID)
			default:
				nodes, err = a.reader.GetAllHierarchies(cmd.Context())
			}
			if err != nil {
				return err
			}

			logging.Debug("built hierarchies",
				"count", len(nodes),
				"roots_only", rootsOnly,
				"project", projectID)

			return render(cmd.OutOrStdout(), a.output, nodes)
		},
	}

	cmd.Flags().Bool("roots-only", false, "list root nodes without issue children")
	cmd.Flags().StringP("project", "p", "", "interchange ID of the only project to include")
	return cmd
}
