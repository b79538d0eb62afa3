// Package storage opens the document store selected by the configuration.
// The server and the maintenance CLI share it so both always see the same
// documents.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/servicehub/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/servicehub/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/servicehub/internal/application"
	"github.com/ericfisherdev/servicehub/internal/config"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// Backend is an opened document store.
type Backend struct {
	Store driven.DocumentStore

	// Watcher is set when the store can report out-of-band edits (JSON files).
	Watcher driven.DocumentWatcher

	// DB and Documents are set for the SQLite backend.
	DB        *sqliteadapter.DB
	Documents *sqliteadapter.DocumentStore
}

// Open opens the configured backend. For SQLite the database is migrated and,
// on first start, seeded from any JSON documents found in the data directory.
// Once either document has been written to the database the JSON files are
// ignored, even if the stored documents are empty.
func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	files, err := jsonfile.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	if !cfg.UsesSQLite() {
		slog.Info("using json document store", "dir", files.Dir())
		return &Backend{Store: files, Watcher: files}, nil
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	slog.Info("database opened", "path", db.Path())

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	docs := sqliteadapter.NewDocumentStore(db)
	if err := seed(ctx, docs, files); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Backend{Store: docs, DB: db, Documents: docs}, nil
}

func seed(ctx context.Context, docs *sqliteadapter.DocumentStore, files *jsonfile.Store) error {
	stored, err := docs.List(ctx)
	if err != nil {
		return fmt.Errorf("list stored documents: %w", err)
	}
	if len(stored) > 0 {
		slog.Debug("database already holds documents, skipping seed", "documents", len(stored))
		return nil
	}

	if _, err := application.ImportDocuments(ctx, docs, files); err != nil {
		return fmt.Errorf("seed database from %s: %w", files.Dir(), err)
	}
	return nil
}

// Close releases the database connections, if any.
func (b *Backend) Close() error {
	if b.DB == nil {
		return nil
	}
	return b.DB.Close()
}
