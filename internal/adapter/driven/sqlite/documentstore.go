package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/servicehub/internal/adapter/driven/document"
	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentInfo describes a stored document.
type DocumentInfo struct {
	Name      string
	Size      int
	UpdatedAt time.Time
}

// DocumentStore is the SQLite implementation of the DocumentStore port. Each
// document is one row of the documents table holding the same JSON array the
// file backend writes.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore backed by the given DB.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Services reads the services document. A missing row reads as empty.
func (s *DocumentStore) Services(ctx context.Context) ([]model.Service, error) {
	body, err := readDocument(ctx, s.db.Reader, driven.DocumentServices)
	if err != nil {
		return nil, err
	}
	return document.DecodeServices(body)
}

// Categories reads the categories document. A missing row reads as empty.
func (s *DocumentStore) Categories(ctx context.Context) ([]model.Category, error) {
	body, err := readDocument(ctx, s.db.Reader, driven.DocumentCategories)
	if err != nil {
		return nil, err
	}
	return document.DecodeCategories(body)
}

// Update runs fn inside a transaction on the single writer connection. The
// transaction commits only if fn returns nil; otherwise every save made
// through it is discarded.
func (s *DocumentStore) Update(ctx context.Context, fn func(tx driven.DocumentTx) error) error {
	tx, err := s.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin document update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&documentTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit document update: %w", err)
	}
	return nil
}

// List returns the stored documents ordered by name.
func (s *DocumentStore) List(ctx context.Context) ([]DocumentInfo, error) {
	const query = `SELECT name, length(body), updated_at FROM documents ORDER BY name`

	rows, err := s.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var infos []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var updatedAt string

		if err := rows.Scan(&info.Name, &info.Size, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}

		info.UpdatedAt, err = parseTime(updatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse updated_at for %s: %w", info.Name, err)
		}
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return infos, nil
}

// documentTx reads and writes through an open transaction, so reads observe
// earlier saves in the same Update.
type documentTx struct {
	tx *sql.Tx
}

func (t *documentTx) Services(ctx context.Context) ([]model.Service, error) {
	body, err := readDocument(ctx, t.tx, driven.DocumentServices)
	if err != nil {
		return nil, err
	}
	return document.DecodeServices(body)
}

func (t *documentTx) Categories(ctx context.Context) ([]model.Category, error) {
	body, err := readDocument(ctx, t.tx, driven.DocumentCategories)
	if err != nil {
		return nil, err
	}
	return document.DecodeCategories(body)
}

func (t *documentTx) SaveServices(ctx context.Context, services []model.Service) error {
	body, err := document.EncodeServices(services)
	if err != nil {
		return err
	}
	return writeDocument(ctx, t.tx, driven.DocumentServices, body)
}

func (t *documentTx) SaveCategories(ctx context.Context, categories []model.Category) error {
	body, err := document.EncodeCategories(categories)
	if err != nil {
		return err
	}
	return writeDocument(ctx, t.tx, driven.DocumentCategories, body)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func readDocument(ctx context.Context, q querier, name string) ([]byte, error) {
	const query = `SELECT body FROM documents WHERE name = ?`

	var body string
	err := q.QueryRowContext(ctx, query, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s document: %w", name, err)
	}

	return []byte(body), nil
}

func writeDocument(ctx context.Context, q querier, name string, body []byte) error {
	const query = `
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`

	updatedAt := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := q.ExecContext(ctx, query, name, string(body), updatedAt); err != nil {
		return fmt.Errorf("write %s document: %w", name, err)
	}

	return nil
}

// parseTime tries the datetime formats SQLite and this package write.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
