package requestrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"courier-dispatch/internal/adapters/out/postgres/requestrepo"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// RequestRepositoryIntegrationTestSuite verifies request persistence and the
// compare-and-set update against a real PostgreSQL.
type RequestRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *requestrepo.GormRequestRepository
}

func (suite *RequestRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&requestrepo.RequestDTO{}))
}

func (suite *RequestRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE requests").Error)
	suite.repository = requestrepo.NewGormRequestRepository(suite.db)
}

func (suite *RequestRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RequestRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	r := suite.createResolvedRequest(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	suite.Require().NoError(suite.repository.Add(ctx, r))
	got, err := suite.repository.Get(ctx, r.ID())

	suite.Require().NoError(err)
	suite.True(got.IsEqual(r))
	suite.Equal(r.Item(), got.Item())
	suite.Equal(r.Recipient().Name(), got.Recipient().Name())
	suite.Equal(r.Recipient().Phone(), got.Recipient().Phone())
	suite.True(got.Address(delivery.StopPickup).IsEqual(r.Address(delivery.StopPickup)))
	suite.Equal(delivery.PaymentPix, got.PaymentMethod())
	suite.Equal(delivery.PayerRecipient, got.Payer())
	suite.Equal(delivery.Pending, got.Status())
	suite.Nil(got.Courier())
	suite.True(got.CreatedAt().Equal(r.CreatedAt()))

	place, ok := got.Place(delivery.StopDropoff)
	suite.Require().True(ok)
	suite.Equal(kernel.PrecisionStreet, place.Precision())
	suite.Equal("Rua B, Se", place.DisplayName())
	suite.InDelta(-23.56, place.Location().Lat(), 1e-9)
}

func (suite *RequestRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RequestRepositoryIntegrationTestSuite) TestUpdate_CompareAndSet() {
	ctx := context.Background()
	r := suite.createResolvedRequest(time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, r))
	courierID := kernel.NewUUID()
	suite.Require().NoError(r.Accept(courierID))

	errStale := suite.repository.Update(ctx, r, delivery.PickedUp)
	errFresh := suite.repository.Update(ctx, r, delivery.Pending)
	errAgain := suite.repository.Update(ctx, r, delivery.Pending)

	suite.Require().ErrorIs(errStale, errs.ErrObjectConflict)
	suite.Require().NoError(errFresh)
	suite.Require().ErrorIs(errAgain, errs.ErrObjectConflict)

	got, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	suite.Equal(delivery.Accepted, got.Status())
	suite.True(got.IsAssignedTo(courierID))
}

func (suite *RequestRepositoryIntegrationTestSuite) TestUpdate_ClearsPlaceOnAddressChange() {
	ctx := context.Background()
	r := suite.createResolvedRequest(time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, r))

	changed, err := r.ChangeAddress(delivery.StopPickup, kernel.NewAddress("Rua Nova", "5", "", "Sao Paulo"))
	suite.Require().NoError(err)
	suite.Require().True(changed)
	suite.Require().NoError(suite.repository.Update(ctx, r, delivery.Pending))

	got, err := suite.repository.Get(ctx, r.ID())
	suite.Require().NoError(err)
	_, resolved := got.Place(delivery.StopPickup)
	suite.False(resolved)
	suite.Equal("Rua Nova", got.Address(delivery.StopPickup).Street())
}

func (suite *RequestRepositoryIntegrationTestSuite) TestUpdate_NotFound() {
	r := suite.createResolvedRequest(time.Now())

	err := suite.repository.Update(context.Background(), r, delivery.Pending)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *RequestRepositoryIntegrationTestSuite) TestUpdate_ConcurrentAcceptsOnlyOneWins() {
	ctx := context.Background()
	r := suite.createResolvedRequest(time.Now())
	suite.Require().NoError(suite.repository.Add(ctx, r))

	const workers = 8
	results := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := r.Clone()
			if err := local.Accept(kernel.NewUUID()); err != nil {
				results[i] = err
				return
			}
			results[i] = suite.repository.Update(ctx, local, delivery.Pending)
		}()
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, errs.ErrObjectConflict):
			conflicts++
		}
	}
	suite.Equal(1, wins)
	suite.Equal(workers-1, conflicts)
}

func (suite *RequestRepositoryIntegrationTestSuite) TestListAndFindActive() {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	second := suite.createResolvedRequest(base.Add(time.Minute))
	first := suite.createResolvedRequest(base)
	courierID := kernel.NewUUID()
	active := suite.createResolvedRequest(base.Add(2 * time.Minute))
	suite.Require().NoError(active.Accept(courierID))
	for _, r := range []*delivery.Request{second, first, active} {
		suite.Require().NoError(suite.repository.Add(ctx, r))
	}

	pending, err := suite.repository.ListPending(ctx)
	suite.Require().NoError(err)
	all, err := suite.repository.List(ctx, ports.RequestFilter{})
	suite.Require().NoError(err)
	byCourier, err := suite.repository.List(ctx, ports.RequestFilter{CourierID: &courierID})
	suite.Require().NoError(err)
	found, err := suite.repository.FindActiveByCourier(ctx, courierID)
	suite.Require().NoError(err)
	_, errIdle := suite.repository.FindActiveByCourier(ctx, kernel.NewUUID())

	suite.Require().Len(pending, 2)
	suite.True(pending[0].IsEqual(first))
	suite.True(pending[1].IsEqual(second))
	suite.Len(all, 3)
	suite.Require().Len(byCourier, 1)
	suite.True(found.IsEqual(active))
	suite.Require().ErrorIs(errIdle, errs.ErrObjectNotFound)
}

func (suite *RequestRepositoryIntegrationTestSuite) createResolvedRequest(createdAt time.Time) *delivery.Request {
	recipient, err := delivery.NewRecipient("Maria", "+55 11 99999-0000")
	suite.Require().NoError(err)
	r, err := delivery.NewRequest(
		kernel.NewUUID(),
		"documents",
		recipient,
		kernel.NewAddress("Rua A", "10", "Centro", "Sao Paulo"),
		kernel.NewAddress("Rua B", "", "Se", "Sao Paulo"),
		delivery.PaymentPix,
		delivery.PayerRecipient,
		createdAt.UTC().Truncate(time.Microsecond),
	)
	suite.Require().NoError(err)

	pickup, err := kernel.NewPlace(kernel.MustNewLocation(-23.55, -46.63), "Rua A, 10", kernel.PrecisionExact)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewPlace(kernel.MustNewLocation(-23.56, -46.64), "Rua B, Se", kernel.PrecisionStreet)
	suite.Require().NoError(err)
	suite.Require().NoError(r.ResolveStop(delivery.StopPickup, pickup))
	suite.Require().NoError(r.ResolveStop(delivery.StopDropoff, dropoff))
	return r
}

func TestRequestRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RequestRepositoryIntegrationTestSuite))
}
