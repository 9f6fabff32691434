package services_test

import (
	"testing"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulator(t *testing.T, step float64) services.PositionSimulator {
	t.Helper()

	sim, err := services.NewPositionSimulator(step)
	require.NoError(t, err)
	return sim
}

func TestNewPositionSimulator(t *testing.T) {
	for _, step := range []float64{0, -0.1, 1.5} {
		_, err := services.NewPositionSimulator(step)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	}
	_, err := services.NewPositionSimulator(1)
	require.NoError(t, err)
}

func TestPositionSimulator_Advance(t *testing.T) {
	sim := newSimulator(t, services.DefaultStep)
	start := kernel.MustNewLocation(0, 0)
	end := kernel.MustNewLocation(10, 10)

	tests := []struct {
		name     string
		progress float64
		want     kernel.Location
	}{
		{"midpoint", 0.5, kernel.MustNewLocation(5, 5)},
		{"start", 0, start},
		{"end", 1, end},
		{"clamped below", -1, start},
		{"clamped above", 2, end},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sim.Advance(start, end, tt.progress)

			require.NoError(t, err)
			assert.InDelta(t, tt.want.Lat(), got.Lat(), 1e-9)
			assert.InDelta(t, tt.want.Lng(), got.Lng(), 1e-9)
		})
	}

	t.Run("invalid endpoints", func(t *testing.T) {
		_, err := sim.Advance(kernel.Location{}, end, 0.5)
		require.ErrorIs(t, err, kernel.ErrLocationIsNotConstructed)
	})
}

func TestPositionSimulator_Step(t *testing.T) {
	sim := newSimulator(t, 0.25)

	t.Run("wraps to zero after exceeding one", func(t *testing.T) {
		progress := 0.0
		var seen []float64
		for range 6 {
			progress = sim.Step(progress, false)
			seen = append(seen, progress)
		}
		assert.Equal(t, []float64{0.25, 0.5, 0.75, 1, 0, 0.25}, seen)
	})

	t.Run("terminal leg holds at one", func(t *testing.T) {
		progress := 0.0
		for range 10 {
			progress = sim.Step(progress, true)
		}
		assert.InDelta(t, 1.0, progress, 0)
	})
}

func TestPositionSimulator_StepReachesEndDespiteRounding(t *testing.T) {
	tests := []struct {
		name  string
		step  float64
		ticks int
	}{
		{"default step", services.DefaultStep, 20},
		{"tenth", 0.1, 10},
		{"third", 1.0 / 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			sim := newSimulator(t, tt.step)
			progress := 0.0

			// Act
			for range tt.ticks {
				progress = sim.Step(progress, false)
			}
			wrapped := sim.Step(progress, false)

			// Assert
			assert.InDelta(t, 1.0, progress, 0)
			assert.Zero(t, wrapped)
		})
	}
}

func TestPositionSimulator_AlongPath(t *testing.T) {
	sim := newSimulator(t, services.DefaultStep)

	t.Run("midpoint of a straight path", func(t *testing.T) {
		path, err := route.NewRoutedPath([]kernel.Location{kernel.MustNewLocation(0, 0), kernel.MustNewLocation(0, 2)})
		require.NoError(t, err)

		got, err := sim.AlongPath(path, 0.5)

		require.NoError(t, err)
		assert.InDelta(t, 0, got.Lat(), 1e-9)
		assert.InDelta(t, 1, got.Lng(), 1e-6)
	})

	t.Run("halfway along an L path is the corner", func(t *testing.T) {
		path, err := route.NewSyntheticPath(kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 1))
		require.NoError(t, err)
		corner := path.Points()[1]

		got, err := sim.AlongPath(path, 0.5)

		require.NoError(t, err)
		assert.InDelta(t, corner.Lat(), got.Lat(), 1e-3)
		assert.InDelta(t, corner.Lng(), got.Lng(), 1e-3)
	})

	t.Run("ends of the path", func(t *testing.T) {
		path, err := route.NewSyntheticPath(kernel.MustNewLocation(0, 0), kernel.MustNewLocation(1, 2))
		require.NoError(t, err)

		start, err := sim.AlongPath(path, 0)
		require.NoError(t, err)
		assert.Equal(t, path.Origin(), start)

		end, err := sim.AlongPath(path, 1)
		require.NoError(t, err)
		assert.Equal(t, path.Destination(), end)
	})

	t.Run("single point path", func(t *testing.T) {
		only := kernel.MustNewLocation(3, 3)
		path, err := route.NewRoutedPath([]kernel.Location{only})
		require.NoError(t, err)

		got, err := sim.AlongPath(path, 0.7)
		require.NoError(t, err)
		assert.Equal(t, only, got)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := sim.AlongPath(route.Path{}, 0.5)
		require.ErrorIs(t, err, route.ErrPathIsEmpty)
	})
}

func TestTrack(t *testing.T) {
	sim := newSimulator(t, 0.5)
	r := newResolvedRequest(t, baseTime)
	require.NoError(t, r.Accept(kernel.NewUUID()))
	require.NoError(t, r.ConfirmPickup())
	require.NoError(t, r.ConfirmArrival())

	leg, err := r.ActiveLeg(kernel.MustNewLocation(5, 5))
	require.NoError(t, err)
	path, err := route.NewSyntheticPath(leg.Origin(), leg.Destination())
	require.NoError(t, err)

	track, err := services.NewTrack(leg, path)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, track.Progress(), 0)

	start, err := track.Position(sim)
	require.NoError(t, err)
	assert.Equal(t, leg.Origin(), start)

	_, err = track.Tick(sim)
	require.NoError(t, err)
	_, err = track.Tick(sim)
	require.NoError(t, err)
	pos, err := track.Tick(sim)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, track.Progress(), 0, "arrived leg is terminal and holds")
	assert.Equal(t, leg.Destination(), pos)

	_, err = services.NewTrack(delivery.Leg{}, path)
	require.ErrorIs(t, err, delivery.ErrLegIsNotConstructed)
	_, err = services.NewTrack(leg, route.Path{})
	require.ErrorIs(t, err, route.ErrPathIsEmpty)
}
