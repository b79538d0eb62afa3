package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/servicehub/internal/application"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List or delete categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories with their service counts",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string) error {
			categories, err := a.categories.List(cmd.Context())
			if err != nil {
				return err
			}
			services, err := a.services.List(cmd.Context())
			if err != nil {
				return err
			}
			usage := application.CategoryUsage(services)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSERVICES")
			for _, c := range categories {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", c.ID, c.Name, usage[c.ID])
			}
			return tw.Flush()
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category, moving its services to the default category",
		Long: `Delete a category. Services that reference it are moved to the default
category first; the default category itself cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: withStore(a, func(cmd *cobra.Command, args []string) error {
			result, err := a.categories.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Category %s deleted, %d services moved to default\n", args[0], result.MovedCount)
			return nil
		}),
	})

	return cmd
}

func newRepairCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Move services with an undefined category to the default category",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string) error {
			result, err := a.categories.Repair(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if result.FixedCount == 0 {
				fmt.Fprintln(out, "No services with undefined categories")
				return nil
			}
			fmt.Fprintf(out, "Fixed %d services with undefined categories\n", result.FixedCount)
			for _, name := range result.Names {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		}),
	}
}
