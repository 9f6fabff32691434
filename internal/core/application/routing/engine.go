// Package routing obtains the path a courier follows along a leg: the routing service's
// answer when there is one, a deterministic L-shaped path otherwise.
package routing

import (
	"context"
	"errors"
	"log/slog"

	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/core/ports"
)

// Recorder counts computed paths by route.Source.
type Recorder interface {
	ObserveRoute(source string)
}

type Option func(*Engine)

func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

type Engine struct {
	router   ports.Router
	recorder Recorder
	logger   *slog.Logger
}

// NewEngine creates an Engine. A nil router is allowed and makes every path synthetic.
func NewEngine(router ports.Router, opts ...Option) *Engine {
	e := &Engine{
		router: router,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("component", "route_engine")
	return e
}

// ComputeRoute returns the routing service's waypoints verbatim when the call succeeds
// with at least one valid point. A transport error, a malformed answer or an empty list
// all produce the synthetic [origin, corner, destination] path instead.
//
// The only errors returned are validation errors for the endpoints; the result is
// otherwise never empty.
func (e *Engine) ComputeRoute(ctx context.Context, origin, destination kernel.Location) (route.Path, error) {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return route.Path{}, err
	}

	if e.router != nil {
		path, err := e.routed(ctx, origin, destination)
		if err == nil {
			e.observe(path.Source())
			return path, nil
		}
		e.logger.DebugContext(ctx, "routing service unavailable, using synthetic path",
			"origin", origin.String(), "destination", destination.String(), "error", err)
	}

	path, err := route.NewSyntheticPath(origin, destination)
	if err != nil {
		return route.Path{}, err
	}
	e.observe(path.Source())
	return path, nil
}

func (e *Engine) routed(ctx context.Context, origin, destination kernel.Location) (route.Path, error) {
	points, err := e.router.Route(ctx, origin, destination)
	if err != nil {
		return route.Path{}, err
	}
	return route.NewRoutedPath(points)
}

func (e *Engine) observe(source route.Source) {
	if e.recorder != nil {
		e.recorder.ObserveRoute(source.String())
	}
}
