package application_test

import (
	"context"
	"sync"

	"github.com/ericfisherdev/servicehub/internal/domain/model"
	"github.com/ericfisherdev/servicehub/internal/domain/port/driven"
)

// memStore is an in-memory driven.DocumentStore that counts writes.
type memStore struct {
	mu             sync.Mutex
	services       []model.Service
	categories     []model.Category
	serviceWrites  int
	categoryWrites int

	readErr         error
	saveServicesErr error
}

func newMemStore(services []model.Service, categories []model.Category) *memStore {
	return &memStore{services: services, categories: categories}
}

func (m *memStore) Services(_ context.Context) ([]model.Service, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return cloneServices(m.services), nil
}

func (m *memStore) Categories(_ context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	return cloneCategories(m.categories), nil
}

func (m *memStore) Update(_ context.Context, fn func(tx driven.DocumentTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(&memTx{m: m})
}

func (m *memStore) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.serviceWrites + m.categoryWrites
}

// memTx accesses the store fields directly; the store lock is already held.
type memTx struct {
	m *memStore
}

func (t *memTx) Services(_ context.Context) ([]model.Service, error) {
	if t.m.readErr != nil {
		return nil, t.m.readErr
	}
	return cloneServices(t.m.services), nil
}

func (t *memTx) Categories(_ context.Context) ([]model.Category, error) {
	if t.m.readErr != nil {
		return nil, t.m.readErr
	}
	return cloneCategories(t.m.categories), nil
}

func (t *memTx) SaveServices(_ context.Context, services []model.Service) error {
	if t.m.saveServicesErr != nil {
		return t.m.saveServicesErr
	}
	t.m.services = cloneServices(services)
	t.m.serviceWrites++
	return nil
}

func (t *memTx) SaveCategories(_ context.Context, categories []model.Category) error {
	t.m.categories = cloneCategories(categories)
	t.m.categoryWrites++
	return nil
}

func cloneServices(in []model.Service) []model.Service {
	if in == nil {
		return nil
	}
	out := make([]model.Service, len(in))
	copy(out, in)
	return out
}

func cloneCategories(in []model.Category) []model.Category {
	if in == nil {
		return nil
	}
	out := make([]model.Category, len(in))
	copy(out, in)
	return out
}
