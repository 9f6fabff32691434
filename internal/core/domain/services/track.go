package services

import (
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
)

// Track is the simulation state of one active leg: the leg, the path to follow and the
// progress along it. A new leg always starts a new Track at progress 0.
// Track is not safe for concurrent use.
type Track struct {
	leg      delivery.Leg
	path     route.Path
	progress float64
}

func NewTrack(leg delivery.Leg, path route.Path) (*Track, error) {
	if err := leg.Validate(); err != nil {
		return nil, err
	}
	if path.IsEmpty() {
		return nil, route.ErrPathIsEmpty
	}
	return &Track{leg: leg, path: path}, nil
}

func (t *Track) Leg() delivery.Leg {
	return t.leg
}

func (t *Track) Path() route.Path {
	return t.path
}

func (t *Track) Progress() float64 {
	return t.progress
}

// Tick advances the progress by one step and returns the new position.
func (t *Track) Tick(sim PositionSimulator) (kernel.Location, error) {
	t.progress = sim.Step(t.progress, t.leg.IsTerminal())
	return t.Position(sim)
}

// Position returns the point at the current progress.
func (t *Track) Position(sim PositionSimulator) (kernel.Location, error) {
	return sim.AlongPath(t.path, t.progress)
}
