package route_test

import (
	"testing"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(lat, lng float64) kernel.Location {
	return kernel.MustNewLocation(lat, lng)
}

func TestNewSyntheticPath(t *testing.T) {
	tests := []struct {
		name        string
		origin      kernel.Location
		destination kernel.Location
		corner      kernel.Location
	}{
		{
			name:        "longitude delta wins",
			origin:      loc(0, 0),
			destination: loc(1, 2),
			corner:      loc(0, 2),
		},
		{
			name:        "latitude delta wins",
			origin:      loc(0, 0),
			destination: loc(3, 1),
			corner:      loc(3, 0),
		},
		{
			name:        "equal deltas keep the origin latitude",
			origin:      loc(1, 1),
			destination: loc(2, 2),
			corner:      loc(1, 2),
		},
		{
			name:        "negative deltas compare by magnitude",
			origin:      loc(-23.5, -46.6),
			destination: loc(-23.9, -46.7),
			corner:      loc(-23.9, -46.6),
		},
		{
			name:        "same point",
			origin:      loc(5, 5),
			destination: loc(5, 5),
			corner:      loc(5, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := route.NewSyntheticPath(tt.origin, tt.destination)

			require.NoError(t, err)
			assert.Equal(t, []kernel.Location{tt.origin, tt.corner, tt.destination}, p.Points())
			assert.Equal(t, tt.origin, p.Origin())
			assert.Equal(t, tt.destination, p.Destination())
			assert.Equal(t, route.SourceSyntheticFallback, p.Source())
			assert.True(t, p.IsFallback())
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		a, err := route.NewSyntheticPath(loc(0, 0), loc(1, 2))
		require.NoError(t, err)
		b, err := route.NewSyntheticPath(loc(0, 0), loc(1, 2))
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("invalid endpoint", func(t *testing.T) {
		_, err := route.NewSyntheticPath(kernel.Location{}, loc(1, 2))
		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestNewRoutedPath(t *testing.T) {
	t.Run("points are kept verbatim", func(t *testing.T) {
		points := []kernel.Location{loc(0, 0), loc(0.5, 0.1), loc(1, 2)}

		p, err := route.NewRoutedPath(points)

		require.NoError(t, err)
		assert.Equal(t, points, p.Points())
		assert.Equal(t, route.SourceRouted, p.Source())
		assert.False(t, p.IsFallback())

		points[0] = loc(9, 9)
		assert.Equal(t, loc(0, 0), p.Origin(), "path owns its points")
	})

	t.Run("single point is accepted", func(t *testing.T) {
		p, err := route.NewRoutedPath([]kernel.Location{loc(1, 1)})
		require.NoError(t, err)
		assert.Equal(t, p.Origin(), p.Destination())
	})

	t.Run("empty is rejected", func(t *testing.T) {
		_, err := route.NewRoutedPath(nil)
		require.ErrorIs(t, err, route.ErrPathIsEmpty)
	})

	t.Run("invalid point is rejected", func(t *testing.T) {
		_, err := route.NewRoutedPath([]kernel.Location{loc(1, 1), {}})
		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestPath_LengthMeters(t *testing.T) {
	p, err := route.NewSyntheticPath(loc(0, 0), loc(0, 1))
	require.NoError(t, err)

	assert.InDelta(t, 111_195, p.LengthMeters(), 1)
	assert.True(t, route.Path{}.IsEmpty())
}
