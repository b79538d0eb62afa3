package application

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the application services. Handlers map them to
// HTTP status codes with errors.Is.
var (
	// ErrCategoryNotFound indicates the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryExists indicates a category with the same ID already exists.
	ErrCategoryExists = errors.New("category already exists")

	// ErrDefaultCategoryProtected indicates an attempt to delete the default category.
	ErrDefaultCategoryProtected = errors.New("default category cannot be deleted")

	// ErrInvalidCategory indicates a category record is missing its ID.
	ErrInvalidCategory = errors.New("category id is required")

	// ErrServiceNotFound indicates the referenced service does not exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidService indicates a service record is missing a required field.
	ErrInvalidService = errors.New("service name and url are required")

	// ErrStorage indicates the document store failed to read or write.
	ErrStorage = errors.New("storage failure")
)

// storageError wraps a document store failure so callers can match ErrStorage
// while keeping the underlying cause in the chain.
func storageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

// domainErrors are the sentinels that pass through classify unchanged.
var domainErrors = []error{
	ErrCategoryNotFound,
	ErrCategoryExists,
	ErrDefaultCategoryProtected,
	ErrInvalidCategory,
	ErrServiceNotFound,
	ErrInvalidService,
	ErrStorage,
}

// classify returns err unchanged when it already carries an application
// sentinel, and wraps it as a storage failure otherwise.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range domainErrors {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	return storageError(op, err)
}
