package cmd

import (
	"github.com/spf13/cobra"
)

type statusView struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

func newStatusesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List the Jira statuses used for the SpecIF:Status property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			statuses := a.reader.Statuses()
			views := make([]statusView, 0, len(statuses))
			for _, s := range statuses {
				views = append(views, statusView{ID: s.ID, Name: s.Name, Category: s.StatusCategory.Name})
			}
			return render(cmd.OutOrStdout(), a.output, views)
		},
	}
}
