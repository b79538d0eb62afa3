package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

func TestDocumentStore_EmptyDatabaseReadsEmpty(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()

	services, err := store.Services(ctx)
	require.NoError(t, err)
	assert.Empty(t, services)

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDocumentStore_UpdateCommits(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()

	services := []model.Service{
		{ID: "1", Name: "JIRA", URL: "http://jira", Category: "jira", Description: "Issue **tracker**"},
		{ID: "2", Name: "Wiki", URL: "http://wiki"},
	}
	categories := []model.Category{{ID: "jira", Name: "Jira Server"}}

	err := store.Update(ctx, func(tx driven.DocumentTx) error {
		if err := tx.SaveCategories(ctx, categories); err != nil {
			return err
		}
		return tx.SaveServices(ctx, services)
	})
	require.NoError(t, err)

	gotServices, err := store.Services(ctx)
	require.NoError(t, err)
	assert.Equal(t, services, gotServices)

	gotCategories, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, categories, gotCategories)
}

func TestDocumentStore_SaveReplacesWholeDocument(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()

	save := func(categories []model.Category) {
		t.Helper()
		require.NoError(t, store.Update(ctx, func(tx driven.DocumentTx) error {
			return tx.SaveCategories(ctx, categories)
		}))
	}

	save([]model.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}})
	save([]model.Category{{ID: "c", Name: "C"}})

	got, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.Category{{ID: "c", Name: "C"}}, got)
}

func TestDocumentStore_TxReadsOwnWrites(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()

	err := store.Update(ctx, func(tx driven.DocumentTx) error {
		if err := tx.SaveCategories(ctx, []model.Category{{ID: "default", Name: "Uncategorized"}}); err != nil {
			return err
		}
		got, err := tx.Categories(ctx)
		if err != nil {
			return err
		}
		assert.Len(t, got, 1)
		return nil
	})
	require.NoError(t, err)
}

func TestDocumentStore_FailedUpdateRollsBack(t *testing.T) {
	store := NewDocumentStore(setupTestDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Update(ctx, func(tx driven.DocumentTx) error {
		if err := tx.SaveCategories(ctx, []model.Category{{ID: "a", Name: "A"}}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := store.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDocumentStore_CorruptBody(t *testing.T) {
	db := setupTestDB(t)
	store := NewDocumentStore(db)
	ctx := context.Background()

	_, err := db.Writer.ExecContext(ctx,
		`INSERT INTO documents (name, body) VALUES ('services', '{broken')`)
	require.NoError(t, err)

	_, err = store.Services(ctx)
	require.ErrorIs(t, err, driven.ErrDocumentCorrupt)
}

func TestDocumentStore_List(t *testing.T) {
	db := setupTestDB(t)
	store := NewDocumentStore(db)
	ctx := context.Background()

	infos, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, infos)

	require.NoError(t, store.Update(ctx, func(tx driven.DocumentTx) error {
		if err := tx.SaveServices(ctx, []model.Service{}); err != nil {
			return err
		}
		return tx.SaveCategories(ctx, []model.Category{{ID: "a", Name: "A"}})
	}))

	// A row written by hand carries the column default timestamp.
	_, err = db.Writer.ExecContext(ctx, `INSERT INTO documents (name, body) VALUES ('legacy', '[]')`)
	require.NoError(t, err)

	infos, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "categories", infos[0].Name)
	assert.Equal(t, "legacy", infos[1].Name)
	assert.Equal(t, "services", infos[2].Name)
	assert.Equal(t, len("[]\n"), infos[2].Size)
	for _, info := range infos {
		assert.False(t, info.UpdatedAt.IsZero(), info.Name)
	}
}

func TestNewDB_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "servicehub.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer))
	// Second run is a no-op.
	require.NoError(t, RunMigrations(db.Writer))
	assert.Equal(t, path, db.Path())

	store := NewDocumentStore(db)
	ctx := context.Background()
	require.NoError(t, store.Update(ctx, func(tx driven.DocumentTx) error {
		return tx.SaveServices(ctx, []model.Service{{ID: "1", Name: "A", URL: "http://a"}})
	}))

	got, err := store.Services(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2026-01-15T10:00:00Z",
		"2026-01-15T10:00:00.123456789Z",
		"2026-01-15 10:00:00",
	} {
		_, err := parseTime(s)
		assert.NoError(t, err, s)
	}

	_, err := parseTime("yesterday")
	assert.Error(t, err)
}
