package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// DeleteCategoryResult reports the outcome of a category deletion.
type DeleteCategoryResult struct {
	MovedCount int // Services reassigned to the default category.
}

// RepairResult reports the outcome of a repair run.
type RepairResult struct {
	FixedCount int
	Names      []string // Names of the services that were reassigned, in catalog order.
}

// CategoryService maintains the category registry and keeps service
// references consistent with it. Every mutation runs inside a single
// DocumentStore.Update so multi-step sequences are not interleaved with other
// writers.
type CategoryService struct {
	store driven.DocumentStore
}

// NewCategoryService creates a CategoryService backed by the given store.
func NewCategoryService(store driven.DocumentStore) *CategoryService {
	return &CategoryService{store: store}
}

// List returns all categories in persisted order.
func (s *CategoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.store.Categories(ctx)
	if err != nil {
		return nil, storageError("list categories", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// ReplaceAll overwrites the whole category collection. No validation is
// applied and service references are not touched.
func (s *CategoryService) ReplaceAll(ctx context.Context, categories []model.Category) error {
	err := s.store.Update(ctx, func(tx driven.DocumentTx) error {
		return tx.SaveCategories(ctx, categories)
	})
	return classify("replace categories", err)
}

// Add appends a new category. It returns ErrCategoryExists, without writing,
// if the ID is already taken. The stored record is returned unchanged.
func (s *CategoryService) Add(ctx context.Context, category model.Category) (model.Category, error) {
	if category.ID == "" {
		return model.Category{}, ErrInvalidCategory
	}

	err := s.store.Update(ctx, func(tx driven.DocumentTx) error {
		categories, err := tx.Categories(ctx)
		if err != nil {
			return err
		}

		if indexOfCategory(categories, category.ID) >= 0 {
			return fmt.Errorf("add category %q: %w", category.ID, ErrCategoryExists)
		}

		return tx.SaveCategories(ctx, append(categories, category))
	})
	if err != nil {
		return model.Category{}, classify("add category", err)
	}

	return category, nil
}

// Update replaces the category stored under id, keeping its position. When
// the record carries a different ID, that ID must not belong to another
// category. Services referencing the old ID are left as they are; a later
// Repair reassigns them.
func (s *CategoryService) Update(ctx context.Context, id string, category model.Category) (model.Category, error) {
	if category.ID == "" {
		category.ID = id
	}

	err := s.store.Update(ctx, func(tx driven.DocumentTx) error {
		categories, err := tx.Categories(ctx)
		if err != nil {
			return err
		}

		idx := indexOfCategory(categories, id)
		if idx < 0 {
			return fmt.Errorf("update category %q: %w", id, ErrCategoryNotFound)
		}

		if category.ID != id {
			if other := indexOfCategory(categories, category.ID); other >= 0 && other != idx {
				return fmt.Errorf("rename category %q to %q: %w", id, category.ID, ErrCategoryExists)
			}
		}

		categories[idx] = category
		return tx.SaveCategories(ctx, categories)
	})
	if err != nil {
		return model.Category{}, classify("update category", err)
	}

	return category, nil
}

// Delete removes a category and reassigns its services to the default
// category. The default category is created first when missing, and services
// are repointed before the category disappears, so no persisted state ever
// references a deleted category.
func (s *CategoryService) Delete(ctx context.Context, id string) (DeleteCategoryResult, error) {
	if id == model.DefaultCategoryID {
		return DeleteCategoryResult{}, fmt.Errorf("delete category %q: %w", id, ErrDefaultCategoryProtected)
	}

	var result DeleteCategoryResult

	err := s.store.Update(ctx, func(tx driven.DocumentTx) error {
		categories, err := tx.Categories(ctx)
		if err != nil {
			return err
		}
		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}

		if indexOfCategory(categories, id) < 0 {
			return fmt.Errorf("delete category %q: %w", id, ErrCategoryNotFound)
		}

		categories, created := ensureDefaultCategory(categories)
		if created {
			if err := tx.SaveCategories(ctx, categories); err != nil {
				return err
			}
		}

		moved := reassignCategory(services, func(svc model.Service) bool {
			return svc.Category == id
		})
		if len(moved) > 0 {
			if err := tx.SaveServices(ctx, services); err != nil {
				return err
			}
		}

		if err := tx.SaveCategories(ctx, withoutCategory(categories, id)); err != nil {
			return err
		}

		result.MovedCount = len(moved)
		return nil
	})
	if err != nil {
		return DeleteCategoryResult{}, classify("delete category", err)
	}

	slog.Info("category deleted", "category", id, "moved_services", result.MovedCount)
	return result, nil
}

// Repair reassigns every service whose category is empty or unknown to the
// default category, creating the default category if needed. Running it again
// without intervening changes fixes nothing.
func (s *CategoryService) Repair(ctx context.Context) (RepairResult, error) {
	result := RepairResult{Names: []string{}}

	err := s.store.Update(ctx, func(tx driven.DocumentTx) error {
		categories, err := tx.Categories(ctx)
		if err != nil {
			return err
		}

		categories, created := ensureDefaultCategory(categories)
		if created {
			if err := tx.SaveCategories(ctx, categories); err != nil {
				return err
			}
		}

		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}

		valid := make(map[string]struct{}, len(categories))
		for _, c := range categories {
			valid[c.ID] = struct{}{}
		}

		broken := reassignCategory(services, func(svc model.Service) bool {
			if !svc.HasCategory() {
				return true
			}
			_, ok := valid[svc.Category]
			return !ok
		})
		if len(broken) == 0 {
			return nil
		}

		if err := tx.SaveServices(ctx, services); err != nil {
			return err
		}

		for _, i := range broken {
			result.Names = append(result.Names, services[i].Name)
		}
		result.FixedCount = len(broken)
		return nil
	})
	if err != nil {
		return RepairResult{}, classify("repair categories", err)
	}

	if result.FixedCount > 0 {
		slog.Info("undefined categories repaired", "fixed", result.FixedCount, "services", result.Names)
	}
	return result, nil
}

// ensureDefaultCategory appends the default category when it is missing and
// reports whether it did.
func ensureDefaultCategory(categories []model.Category) ([]model.Category, bool) {
	if indexOfCategory(categories, model.DefaultCategoryID) >= 0 {
		return categories, false
	}
	return append(categories, model.DefaultCategory()), true
}

// reassignCategory points every service matching pred at the default category
// in place and returns the indices it changed.
func reassignCategory(services []model.Service, pred func(model.Service) bool) []int {
	var changed []int
	for i := range services {
		if pred(services[i]) {
			services[i].Category = model.DefaultCategoryID
			changed = append(changed, i)
		}
	}
	return changed
}

// withoutCategory returns a new slice holding every category except id.
func withoutCategory(categories []model.Category, id string) []model.Category {
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

func indexOfCategory(categories []model.Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
