package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielolaszy/specif-jira/internal/logging"
	"github.com/danielolaszy/specif-jira/pkg/models"
)

func newSaveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a Jira issue from a SpecIF resource",
		Long: `Create a Jira issue from a SpecIF resource read from a YAML or JSON file.

Resources of class RC-Requirement become "Requirement" issues, or
"Customer Requirement" issues when their SpecIF:Perspective property is
"user-perspective". The created issue is read back and printed.

Example:
  specif-jira save --file login.yaml --project _3f2a..._10000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := cmd.Flags().GetString("file")
			if err != nil {
				return err
			}
			projectID, err := cmd.Flags().GetString("project")
			if err != nil {
				return err
			}

			if file == "" {
				return fmt.Errorf("file flag is required")
			}

			resource, err := readResourceFile(file)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			saved, err := a.writer.SaveResource(cmd.Context(), resource, projectID)
			if err != nil {
				return err
			}

			logging.Info("saved resource", "id", saved.ID, "revision", saved.Revision)
			return render(cmd.OutOrStdout(), a.output, saved)
		},
	}

	cmd.Flags().StringP("file", "f", "", "resource file (yaml or json)")
	cmd.Flags().StringP("project", "p", "", "interchange ID of the target project")
	return cmd
}

func readResourceFile(path string) (*models.Resource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource file: %w", err)
	}
	defer f.Close()

	return decodeResource(f)
}

// decodeResource reads a resource document. JSON input is accepted as YAML.
func decodeResource(r io.Reader) (*models.Resource, error) {
	var resource models.Resource
	if err := yaml.NewDecoder(r).Decode(&resource); err != nil {
		return nil, fmt.Errorf("failed to decode resource: %w", err)
	}
	if resource.Class.ID == "" {
		return nil, fmt.Errorf("resource has no class")
	}
	return &resource, nil
}
