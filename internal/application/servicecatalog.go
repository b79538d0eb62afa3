package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// ServiceCatalog manages the services collection. Category references are
// never validated here; CategoryService.Repair is the only place that
// enforces them.
type ServiceCatalog struct {
	store driven.DocumentStore
	newID func() string
}

// NewServiceCatalog creates a ServiceCatalog backed by the given store.
func NewServiceCatalog(store driven.DocumentStore) *ServiceCatalog {
	return &ServiceCatalog{
		store: store,
		newID: uuid.NewString,
	}
}

// List returns all services in persisted order.
func (c *ServiceCatalog) List(ctx context.Context) ([]model.Service, error) {
	services, err := c.store.Services(ctx)
	if err != nil {
		return nil, storageError("list services", err)
	}
	if services == nil {
		services = []model.Service{}
	}
	return services, nil
}

// Get returns the service with the given ID.
func (c *ServiceCatalog) Get(ctx context.Context, id string) (model.Service, error) {
	services, err := c.List(ctx)
	if err != nil {
		return model.Service{}, err
	}

	idx := indexOfService(services, id)
	if idx < 0 {
		return model.Service{}, fmt.Errorf("get service %q: %w", id, ErrServiceNotFound)
	}
	return services[idx], nil
}

// ReplaceAll overwrites the whole services collection in a single write.
// Records without an ID are given one. The stored records are returned.
func (c *ServiceCatalog) ReplaceAll(ctx context.Context, services []model.Service) ([]model.Service, error) {
	stored := make([]model.Service, len(services))
	copy(stored, services)
	c.assignIDs(stored)

	err := c.store.Update(ctx, func(tx driven.DocumentTx) error {
		return tx.SaveServices(ctx, stored)
	})
	if err != nil {
		return nil, classify("replace services", err)
	}
	return stored, nil
}

// Add appends a service and returns the stored record with its new ID.
func (c *ServiceCatalog) Add(ctx context.Context, svc model.Service) (model.Service, error) {
	if svc.Name == "" || svc.URL == "" {
		return model.Service{}, ErrInvalidService
	}
	svc.ID = c.newID()

	err := c.store.Update(ctx, func(tx driven.DocumentTx) error {
		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}
		return tx.SaveServices(ctx, append(services, svc))
	})
	if err != nil {
		return model.Service{}, classify("add service", err)
	}
	return svc, nil
}

// Update replaces the service stored under id, keeping its position and ID.
func (c *ServiceCatalog) Update(ctx context.Context, id string, svc model.Service) (model.Service, error) {
	if svc.Name == "" || svc.URL == "" {
		return model.Service{}, ErrInvalidService
	}
	svc.ID = id

	err := c.store.Update(ctx, func(tx driven.DocumentTx) error {
		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}

		idx := indexOfService(services, id)
		if idx < 0 {
			return fmt.Errorf("update service %q: %w", id, ErrServiceNotFound)
		}

		services[idx] = svc
		return tx.SaveServices(ctx, services)
	})
	if err != nil {
		return model.Service{}, classify("update service", err)
	}
	return svc, nil
}

// Remove deletes the service with the given ID.
func (c *ServiceCatalog) Remove(ctx context.Context, id string) error {
	err := c.store.Update(ctx, func(tx driven.DocumentTx) error {
		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}

		idx := indexOfService(services, id)
		if idx < 0 {
			return fmt.Errorf("remove service %q: %w", id, ErrServiceNotFound)
		}

		remaining := make([]model.Service, 0, len(services)-1)
		remaining = append(remaining, services[:idx]...)
		remaining = append(remaining, services[idx+1:]...)
		return tx.SaveServices(ctx, remaining)
	})
	return classify("remove service", err)
}

// EnsureIDs gives every persisted service without an ID a new one. It writes
// only when at least one record changed and returns how many did. Documents
// edited by hand are brought up to date this way at startup.
func (c *ServiceCatalog) EnsureIDs(ctx context.Context) (int, error) {
	var assigned int

	err := c.store.Update(ctx, func(tx driven.DocumentTx) error {
		services, err := tx.Services(ctx)
		if err != nil {
			return err
		}

		assigned = c.assignIDs(services)
		if assigned == 0 {
			return nil
		}
		return tx.SaveServices(ctx, services)
	})
	if err != nil {
		return 0, classify("assign service ids", err)
	}

	if assigned > 0 {
		slog.Info("assigned service ids", "count", assigned)
	}
	return assigned, nil
}

// assignIDs fills empty IDs in place and returns how many it filled.
func (c *ServiceCatalog) assignIDs(services []model.Service) int {
	var n int
	for i := range services {
		if services[i].ID == "" {
			services[i].ID = c.newID()
			n++
		}
	}
	return n
}

func indexOfService(services []model.Service, id string) int {
	if id == "" {
		return -1
	}
	for i, s := range services {
		if s.ID == id {
			return i
		}
	}
	return -1
}
