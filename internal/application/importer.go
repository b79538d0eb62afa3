package application

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// ImportDocuments copies both documents from src into dst when dst holds no
// services and no categories. It reports whether anything was copied. Used to
// carry hand-maintained JSON documents over to the SQLite store on first start.
func ImportDocuments(ctx context.Context, dst driven.DocumentStore, src driven.DocumentReader) (bool, error) {
	services, err := src.Services(ctx)
	if err != nil {
		return false, storageError("read import services", err)
	}
	categories, err := src.Categories(ctx)
	if err != nil {
		return false, storageError("read import categories", err)
	}
	if len(services) == 0 && len(categories) == 0 {
		return false, nil
	}

	var imported bool
	err = dst.Update(ctx, func(tx driven.DocumentTx) error {
		existingServices, err := tx.Services(ctx)
		if err != nil {
			return err
		}
		existingCategories, err := tx.Categories(ctx)
		if err != nil {
			return err
		}
		if len(existingServices) > 0 || len(existingCategories) > 0 {
			return nil
		}

		if err := tx.SaveCategories(ctx, categories); err != nil {
			return err
		}
		if err := tx.SaveServices(ctx, services); err != nil {
			return err
		}
		imported = true
		return nil
	})
	if err != nil {
		return false, classify("import documents", err)
	}

	if imported {
		slog.Info("documents imported", "services", len(services), "categories", len(categories))
	}
	return imported, nil
}
