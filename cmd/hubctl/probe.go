package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/servicehub/internal/adapter/driven/probe"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

func newProbeCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe <url>",
		Short: "Check whether a URL is reachable",
		Long: `Send a HEAD request to the URL the way the server's status poller does.
Any HTTP response counts as online. Exits non-zero when the URL is offline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result := probe.NewHTTPProber(timeout).Probe(cmd.Context(), args[0])

			out := cmd.OutOrStdout()
			switch {
			case result.StatusCode > 0:
				fmt.Fprintf(out, "%s %s (%d %s, %dms)\n", result.URL, result.Status, result.StatusCode, result.StatusText, result.Latency.Milliseconds())
			case result.Error != "":
				fmt.Fprintf(out, "%s %s (%s)\n", result.URL, result.Status, result.Error)
			default:
				fmt.Fprintf(out, "%s %s\n", result.URL, result.Status)
			}

			if result.Status == model.ProbeStatusOffline {
				return fmt.Errorf("%s is offline", result.URL)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", probe.DefaultTimeout, "probe timeout")

	return cmd
}
