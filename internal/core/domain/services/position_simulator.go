package services

import (
	"errors"
	"fmt"
	"math"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/pkg/errs"
)

// DefaultStep is the progress added per simulation tick.
const DefaultStep = 0.05

// PositionSimulator emulates courier motion by linear interpolation along a leg.
// It holds no state besides its step size; progress lives in Track.
type PositionSimulator struct {
	step float64
}

// NewPositionSimulator creates a simulator advancing by step per tick. Step must be in (0, 1].
func NewPositionSimulator(step float64) (PositionSimulator, error) {
	if step <= 0 || step > 1 {
		return PositionSimulator{}, errs.NewValueIsOutOfRangeError("step", step, 0.0, 1.0)
	}
	return PositionSimulator{step: step}, nil
}

// Advance interpolates between start and end. Progress is clamped to [0, 1].
//
// Example:
//
//	p, _ := sim.Advance(kernel.MustNewLocation(0, 0), kernel.MustNewLocation(10, 10), 0.5)
//	// p = Location(5,5)
func (s PositionSimulator) Advance(start, end kernel.Location, progress float64) (kernel.Location, error) {
	if err := errors.Join(start.Validate(), end.Validate()); err != nil {
		return kernel.Location{}, err
	}

	progress = clamp(progress)
	return kernel.NewLocation(
		start.Lat()+(end.Lat()-start.Lat())*progress,
		start.Lng()+(end.Lng()-start.Lng())*progress,
	)
}

// progressEpsilon absorbs the rounding accumulated by repeated float steps, so that a
// leg always draws its end point before it wraps.
const progressEpsilon = 1e-9

// Step returns the progress after one tick. Past 1 it wraps to 0, unless the leg is
// terminal, in which case it holds at 1.
func (s PositionSimulator) Step(progress float64, terminal bool) float64 {
	next := progress + s.step
	switch {
	case next > 1+progressEpsilon:
		if terminal {
			return 1
		}
		return 0
	case next >= 1-progressEpsilon:
		return 1
	default:
		return next
	}
}

// AlongPath returns the point at the given fraction of the path's length. The segment is
// chosen by cumulative great-circle distance, then interpolated linearly.
func (s PositionSimulator) AlongPath(path route.Path, progress float64) (kernel.Location, error) {
	if path.IsEmpty() {
		return kernel.Location{}, route.ErrPathIsEmpty
	}

	points := path.Points()
	total := path.LengthMeters()
	if len(points) == 1 || total == 0 {
		return points[0], nil
	}

	progress = clamp(progress)
	if progress == 1 {
		return points[len(points)-1], nil
	}

	target := total * progress
	for i := 1; i < len(points); i++ {
		seg, err := points[i-1].DistanceTo(points[i])
		if err != nil {
			return kernel.Location{}, err
		}
		if target <= seg && seg > 0 {
			return s.Advance(points[i-1], points[i], target/seg)
		}
		target -= seg
	}

	return points[len(points)-1], nil
}

func clamp(progress float64) float64 {
	switch {
	case progress < 0 || math.IsNaN(progress):
		return 0
	case progress > 1:
		return 1
	default:
		return progress
	}
}

// String is used in logs.
func (s PositionSimulator) String() string {
	return fmt.Sprintf("PositionSimulator(step=%g)", s.step)
}
