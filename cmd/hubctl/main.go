// Command hubctl performs maintenance on the ServiceHub documents using the
// same configuration and store as the server.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/config"
	"github.com/ericfisherdev/servicehub/internal/storage"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds the store opened for a single command run.
type app struct {
	cfg        *config.Config
	backend    *storage.Backend
	categories *application.CategoryService
	services   *application.ServiceCatalog
}

func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.backend = backend
	a.categories = application.NewCategoryService(backend.Store)
	a.services = application.NewServiceCatalog(backend.Store)
	return nil
}

func (a *app) close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		slog.Error("error closing store", "error", err)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:   "hubctl",
		Short: "Maintain the ServiceHub services and categories",
		Long: `hubctl reads SERVICEHUB_* environment variables like the server does and
operates on the same JSON files or SQLite database.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(
		newCategoriesCmd(a),
		newServicesCmd(a),
		newRepairCmd(a),
		newProbeCmd(),
		newDocumentsCmd(a),
	)
	return root
}

// withStore opens the store for the duration of fn.
func withStore(a *app, fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.open(cmd.Context()); err != nil {
			return err
		}
		defer a.close()
		return fn(cmd, args)
	}
}
