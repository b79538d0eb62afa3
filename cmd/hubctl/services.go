package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/servicehub/internal/application"
)

func newServicesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Inspect services",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List services; undefined categories are marked with !",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string) error {
			services, err := a.services.List(cmd.Context())
			if err != nil {
				return err
			}
			categories, err := a.categories.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tURL")
			for _, s := range services {
				category := s.Category
				if application.IsOrphaned(s, categories) {
					category += "!"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Name, category, s.URL)
			}
			return tw.Flush()
		}),
	})

	return cmd
}
