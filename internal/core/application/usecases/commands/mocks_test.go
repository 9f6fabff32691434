package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"courier-dispatch/internal/core/domain/model/courier"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/session"
	"courier-dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return baseTime }

type MockRequestRepository struct{ mock.Mock }

func (m *MockRequestRepository) Add(ctx context.Context, r *delivery.Request) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRequestRepository) Update(ctx context.Context, r *delivery.Request, expected delivery.Status) error {
	args := m.Called(ctx, r, expected)
	return args.Error(0)
}

func (m *MockRequestRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Request, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Request), args.Error(1)
}

func (m *MockRequestRepository) List(ctx context.Context, filter ports.RequestFilter) ([]*delivery.Request, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Request), args.Error(1)
}

func (m *MockRequestRepository) ListPending(ctx context.Context) ([]*delivery.Request, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Request), args.Error(1)
}

func (m *MockRequestRepository) FindActiveByCourier(ctx context.Context, courierID kernel.UUID) (*delivery.Request, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Request), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) List(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) ListOnline(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

// MockSessionStore applies Update callbacks to the session configured as the first return value.
type MockSessionStore struct{ mock.Mock }

func (m *MockSessionStore) Start(ctx context.Context, s *session.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, courierID kernel.UUID) (*session.Session, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*session.Session), args.Error(1)
}

func (m *MockSessionStore) Update(
	ctx context.Context,
	courierID kernel.UUID,
	fn func(*session.Session) error,
) (*session.Session, error) {
	args := m.Called(ctx, courierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	s := args.Get(0).(*session.Session)
	if err := fn(s); err != nil {
		return nil, err
	}
	return s, args.Error(1)
}

func (m *MockSessionStore) End(ctx context.Context, courierID kernel.UUID) error {
	args := m.Called(ctx, courierID)
	return args.Error(0)
}

func (m *MockSessionStore) List(ctx context.Context) ([]*session.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*session.Session), args.Error(1)
}

type MockAddressResolver struct{ mock.Mock }

func (m *MockAddressResolver) Resolve(ctx context.Context, address kernel.Address) (kernel.Place, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.Place), args.Error(1)
}

type spyPublisher struct {
	mu     sync.Mutex
	events []ports.Event
}

func (p *spyPublisher) Publish(_ context.Context, e ports.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *spyPublisher) kinds() []ports.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]ports.EventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

type spyRecorder struct {
	statuses []string
}

func (r *spyRecorder) ObserveTransition(status string) {
	r.statuses = append(r.statuses, status)
}

var (
	pickupAddress  = kernel.NewAddress("Rua A", "10", "Centro", "Sao Paulo")
	dropoffAddress = kernel.NewAddress("Rua B", "20", "Se", "Sao Paulo")
)

func newPlace(t *testing.T, lat, lng float64) kernel.Place {
	t.Helper()
	p, err := kernel.NewPlace(kernel.MustNewLocation(lat, lng), "somewhere", kernel.PrecisionExact)
	require.NoError(t, err)
	return p
}

func newRecipient(t *testing.T) delivery.Recipient {
	t.Helper()
	r, err := delivery.NewRecipient("Maria", "+55 11 99999-0000")
	require.NoError(t, err)
	return r
}

func newResolvedRequest(t *testing.T, createdAt time.Time) *delivery.Request {
	t.Helper()
	r, err := delivery.NewRequest(
		kernel.NewUUID(), "documents", newRecipient(t),
		pickupAddress, dropoffAddress,
		delivery.PaymentPix, delivery.PayerSender, createdAt,
	)
	require.NoError(t, err)
	require.NoError(t, r.ResolveStop(delivery.StopPickup, newPlace(t, 0, 0)))
	require.NoError(t, r.ResolveStop(delivery.StopDropoff, newPlace(t, 0, 1)))
	return r
}

func newCourier(t *testing.T, online bool) *courier.Courier {
	t.Helper()
	c, err := courier.RestoreCourier(kernel.NewUUID(), "Ana", kernel.MustNewLocation(0, 0), online)
	require.NoError(t, err)
	return c
}

func newSession(t *testing.T, courierID kernel.UUID) *session.Session {
	t.Helper()
	s, err := session.NewSession(courierID, baseTime)
	require.NoError(t, err)
	return s
}
