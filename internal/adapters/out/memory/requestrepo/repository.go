// Package requestrepo keeps delivery requests in process memory.
// It is the default store when no database is configured and backs the handler tests.
package requestrepo

import (
	"context"
	"slices"
	"sync"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

var _ ports.RequestRepository = (*MemoryRequestRepository)(nil)

// MemoryRequestRepository implements ports.RequestRepository over a mutex-guarded map.
// Stored requests are clones; callers never share state with the store.
type MemoryRequestRepository struct {
	mu       sync.RWMutex
	requests map[kernel.UUID]*delivery.Request
}

func NewMemoryRequestRepository() *MemoryRequestRepository {
	return &MemoryRequestRepository{
		requests: make(map[kernel.UUID]*delivery.Request),
	}
}

// Add stores a new request. Adding an existing id is a conflict.
func (r *MemoryRequestRepository) Add(_ context.Context, request *delivery.Request) error {
	if err := request.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.requests[request.ID()]; ok {
		return errs.NewObjectConflictError("request", request.ID().String())
	}
	r.requests[request.ID()] = request.Clone()
	return nil
}

// Update replaces the stored request only if its status still equals expected.
func (r *MemoryRequestRepository) Update(_ context.Context, request *delivery.Request, expected delivery.Status) error {
	if err := request.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.requests[request.ID()]
	if !ok {
		return errs.NewObjectNotFoundError("request", request.ID().String())
	}
	if stored.Status() != expected {
		return errs.NewObjectConflictError("request", request.ID().String())
	}
	r.requests[request.ID()] = request.Clone()
	return nil
}

func (r *MemoryRequestRepository) Get(_ context.Context, id kernel.UUID) (*delivery.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.requests[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("request", id.String())
	}
	return stored.Clone(), nil
}

// List returns the requests matching filter, oldest first.
func (r *MemoryRequestRepository) List(_ context.Context, filter ports.RequestFilter) ([]*delivery.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*delivery.Request, 0, len(r.requests))
	for _, stored := range r.requests {
		if filter.Status != nil && stored.Status() != *filter.Status {
			continue
		}
		if filter.CourierID != nil && !stored.IsAssignedTo(*filter.CourierID) {
			continue
		}
		result = append(result, stored.Clone())
	}

	slices.SortFunc(result, func(a, b *delivery.Request) int {
		if c := a.CreatedAt().Compare(b.CreatedAt()); c != 0 {
			return c
		}
		return a.ID().Compare(b.ID())
	})
	return result, nil
}

func (r *MemoryRequestRepository) ListPending(ctx context.Context) ([]*delivery.Request, error) {
	pending := delivery.Pending
	return r.List(ctx, ports.RequestFilter{Status: &pending})
}

// FindActiveByCourier returns the undelivered request assigned to the courier.
func (r *MemoryRequestRepository) FindActiveByCourier(_ context.Context, courierID kernel.UUID) (*delivery.Request, error) {
	if err := courierID.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, stored := range r.requests {
		if stored.IsAssignedTo(courierID) && !stored.Status().IsTerminal() {
			return stored.Clone(), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("active request of courier", courierID.String())
}
