package geocoding_test

import (
	"context"
	"errors"
	"testing"

	"courier-dispatch/internal/core/application/geocoding"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Search(ctx context.Context, query string) (ports.GeocodeHit, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(ports.GeocodeHit), args.Error(1)
}

type spyRecorder struct{ outcomes []string }

func (s *spyRecorder) ObserveResolution(outcome string) {
	s.outcomes = append(s.outcomes, outcome)
}

var (
	hitLocation = kernel.MustNewLocation(-23.55, -46.63)
	hit         = ports.GeocodeHit{Location: hitLocation, DisplayName: "Rua X, 100 - Y"}
	noMatch     = errs.NewObjectNotFoundError("geocode result", "query")
)

func newResolver(t *testing.T, g ports.Geocoder, opts ...geocoding.Option) *geocoding.Resolver {
	t.Helper()

	r, err := geocoding.NewResolver(g, opts...)
	require.NoError(t, err)
	return r
}

func TestResolver_ExactTierFirstAndAlone(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	g.On("Search", mock.Anything, "Rua X, 100, Y").Return(hit, nil).Once()
	recorder := &spyRecorder{}

	place, err := newResolver(t, g, geocoding.WithRecorder(recorder)).
		Resolve(ctx, kernel.NewAddress("Rua X", "100", "Centro", "Y"))

	require.NoError(t, err)
	assert.Equal(t, kernel.PrecisionExact, place.Precision())
	assert.Equal(t, hitLocation, place.Location())
	assert.Equal(t, "Rua X, 100 - Y", place.DisplayName())
	assert.Equal(t, []string{"exact"}, recorder.outcomes)
	g.AssertExpectations(t)
	g.AssertNumberOfCalls(t, "Search", 1)
}

func TestResolver_FallsThroughInOrder(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	mock.InOrder(
		g.On("Search", mock.Anything, "Rua X, 100, Y").Return(ports.GeocodeHit{}, noMatch).Once(),
		g.On("Search", mock.Anything, "Rua X, Y").Return(ports.GeocodeHit{}, errors.New("connection reset")).Once(),
		g.On("Search", mock.Anything, "Centro, Y").Return(hit, nil).Once(),
	)

	place, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("Rua X", "100", "Centro", "Y"))

	require.NoError(t, err)
	assert.Equal(t, kernel.PrecisionNeighborhood, place.Precision())
	g.AssertExpectations(t)
	g.AssertNumberOfCalls(t, "Search", 3)
}

func TestResolver_CityOnlyIssuesExactlyOneQuery(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	g.On("Search", mock.Anything, "Y").Return(ports.GeocodeHit{Location: hitLocation}, nil).Once()

	place, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("", "", "", "Y"))

	require.NoError(t, err)
	assert.Equal(t, kernel.PrecisionCity, place.Precision())
	assert.Equal(t, "Y", place.DisplayName(), "query is used when the geocoder gives no name")
	g.AssertNumberOfCalls(t, "Search", 1)
}

func TestResolver_NoCityIssuesNoQuery(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	recorder := &spyRecorder{}

	_, err := newResolver(t, g, geocoding.WithRecorder(recorder)).
		Resolve(ctx, kernel.NewAddress("Rua X", "100", "Centro", ""))

	require.ErrorIs(t, err, geocoding.ErrAddressNotFound)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	g.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	assert.Equal(t, []string{geocoding.OutcomeNotFound}, recorder.outcomes)
}

func TestResolver_SkipsTiersWithMissingFields(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	mock.InOrder(
		g.On("Search", mock.Anything, "Rua X, Y").Return(ports.GeocodeHit{}, noMatch).Once(),
		g.On("Search", mock.Anything, "Y").Return(hit, nil).Once(),
	)

	place, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("Rua X", "", "", "Y"))

	require.NoError(t, err)
	assert.Equal(t, kernel.PrecisionCity, place.Precision())
	g.AssertExpectations(t)
	g.AssertNumberOfCalls(t, "Search", 2)
}

func TestResolver_AllTiersEmpty(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	g.On("Search", mock.Anything, mock.Anything).Return(ports.GeocodeHit{}, errors.New("service unavailable"))

	_, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("Rua X", "100", "Centro", "Y"))

	require.ErrorIs(t, err, geocoding.ErrAddressNotFound)
	g.AssertNumberOfCalls(t, "Search", 4)
}

func TestResolver_UnusableHitFallsThrough(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	mock.InOrder(
		g.On("Search", mock.Anything, "Rua X, Y").Return(ports.GeocodeHit{}, nil).Once(),
		g.On("Search", mock.Anything, "Y").Return(hit, nil).Once(),
	)

	place, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("Rua X", "", "", "Y"))

	require.NoError(t, err)
	assert.Equal(t, kernel.PrecisionCity, place.Precision())
}

func TestResolver_RegionSuffix(t *testing.T) {
	ctx := t.Context()
	g := new(MockGeocoder)
	g.On("Search", mock.Anything, "Y, Brasil").Return(hit, nil).Once()

	_, err := newResolver(t, g, geocoding.WithRegion(" Brasil ")).Resolve(ctx, kernel.NewAddress("", "", "", "Y"))

	require.NoError(t, err)
	g.AssertExpectations(t)
}

func TestResolver_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	g := new(MockGeocoder)

	_, err := newResolver(t, g).Resolve(ctx, kernel.NewAddress("", "", "", "Y"))

	require.ErrorIs(t, err, geocoding.ErrAddressNotFound)
	require.ErrorIs(t, err, context.Canceled)
	g.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestNewResolver_RequiresGeocoder(t *testing.T) {
	_, err := geocoding.NewResolver(nil)
	require.ErrorIs(t, err, geocoding.ErrGeocoderIsRequired)
}
