// Package courierrepo keeps couriers in process memory.
package courierrepo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

var _ ports.CourierRepository = (*MemoryCourierRepository)(nil)

type MemoryCourierRepository struct {
	mu       sync.RWMutex
	couriers map[kernel.UUID]*courier.Courier
}

func NewMemoryCourierRepository() *MemoryCourierRepository {
	return &MemoryCourierRepository{
		couriers: make(map[kernel.UUID]*courier.Courier),
	}
}

func (r *MemoryCourierRepository) Add(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.couriers[aggregate.ID()]; ok {
		return errs.NewObjectConflictError("courier", aggregate.ID().String())
	}
	r.couriers[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *MemoryCourierRepository) Update(_ context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.couriers[aggregate.ID()]; !ok {
		return errs.NewObjectNotFoundError("courier", aggregate.ID().String())
	}
	r.couriers[aggregate.ID()] = aggregate.Clone()
	return nil
}

func (r *MemoryCourierRepository) Get(_ context.Context, id kernel.UUID) (*courier.Courier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.couriers[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("courier", id.String())
	}
	return stored.Clone(), nil
}

// List returns every courier ordered by name, then id.
func (r *MemoryCourierRepository) List(_ context.Context) ([]*courier.Courier, error) {
	return r.list(func(*courier.Courier) bool { return true }), nil
}

func (r *MemoryCourierRepository) ListOnline(_ context.Context) ([]*courier.Courier, error) {
	return r.list((*courier.Courier).IsOnline), nil
}

func (r *MemoryCourierRepository) list(keep func(*courier.Courier) bool) []*courier.Courier {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*courier.Courier, 0, len(r.couriers))
	for _, stored := range r.couriers {
		if keep(stored) {
			result = append(result, stored.Clone())
		}
	}
	slices.SortFunc(result, func(a, b *courier.Courier) int {
		if c := strings.Compare(a.Name(), b.Name()); c != 0 {
			return c
		}
		return a.ID().Compare(b.ID())
	})
	return result
}
