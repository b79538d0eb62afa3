// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
)

// Document names shared by every DocumentStore implementation.
const (
	DocumentServices   = "services"
	DocumentCategories = "categories"
)

// ErrDocumentCorrupt indicates a persisted document could not be decoded as a
// list of records.
var ErrDocumentCorrupt = errors.New("document is corrupt")

// DocumentReader reads whole documents. Missing documents read as empty lists.
type DocumentReader interface {
	Services(ctx context.Context) ([]model.Service, error)
	Categories(ctx context.Context) ([]model.Category, error)
}

// DocumentTx is the view of the store handed to an Update callback. Reads
// observe earlier saves made through the same DocumentTx. Each save replaces
// the whole document.
type DocumentTx interface {
	DocumentReader
	SaveServices(ctx context.Context, services []model.Service) error
	SaveCategories(ctx context.Context, categories []model.Category) error
}

// DocumentStore defines the driven port for the services and categories
// documents. Update serializes read-modify-write sequences: no other Update
// on the same store runs while fn executes. Whether saves made before fn
// returns an error are kept is up to the implementation.
type DocumentStore interface {
	DocumentReader
	Update(ctx context.Context, fn func(tx DocumentTx) error) error
}

// DocumentWatcher is implemented by stores that can observe out-of-band edits
// to their documents. Watch blocks until ctx is canceled and calls onChange
// with the document name after each change.
type DocumentWatcher interface {
	Watch(ctx context.Context, onChange func(document string)) error
}
