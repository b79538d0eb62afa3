package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newDocumentsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "documents",
		Short: "Show the documents stored in the SQLite database",
		Args:  cobra.NoArgs,
		RunE: withStore(a, func(cmd *cobra.Command, _ []string) error {
			if a.backend.Documents == nil {
				return errors.New("documents are only listed for SERVICEHUB_STORE=sqlite")
			}

			docs, err := a.backend.Documents.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tBYTES\tUPDATED")
			for _, d := range docs {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Name, d.Size, d.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		}),
	}
}
