package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/model/route"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

var _ queries.TrackSource = (*CourierTrackingJob)(nil)

type routeComputer interface {
	ComputeRoute(ctx context.Context, origin, destination kernel.Location) (route.Path, error)
}

// tracked is the state of one request with a courier on the way. track stays nil until
// the route for the current generation arrives.
type tracked struct {
	generation uint64
	courierID  kernel.UUID
	status     delivery.Status
	leg        delivery.Leg
	track      *services.Track
	entry      cron.EntryID
}

// CourierTrackingJob moves a simulated marker along the active leg of every request
// that has a courier. Each tracked request owns one cron entry; a status transition
// replaces the entry and starts the new leg from progress 0.
//
// Route computation runs in the background. Results are tagged with a generation and
// a result for a leg that has since been replaced is discarded.
//
// Events only tell the job which request to look at. The state itself is always read
// back from the repository, and a periodic reconcile catches up with events the bus
// dropped.
type CourierTrackingJob struct {
	requests          ports.RequestRepository
	couriers          ports.CourierRepository
	routes            routeComputer
	subscriber        ports.EventSubscriber
	publisher         ports.EventPublisher
	simulator         services.PositionSimulator
	schedule          string
	reconcileSchedule string
	now               func() time.Time
	cron              *cron.Cron
	logger            *slog.Logger

	mu         sync.Mutex
	tracks     map[kernel.UUID]*tracked
	generation uint64

	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
	wg          sync.WaitGroup
}

func NewCourierTrackingJob(
	requests ports.RequestRepository,
	couriers ports.CourierRepository,
	routes routeComputer,
	subscriber ports.EventSubscriber,
	publisher ports.EventPublisher,
	simulator services.PositionSimulator,
	schedule string,
	reconcileSchedule string,
	logger *slog.Logger,
) *CourierTrackingJob {
	ctx, cancel := context.WithCancel(context.Background())
	return &CourierTrackingJob{
		requests:          requests,
		couriers:          couriers,
		routes:            routes,
		subscriber:        subscriber,
		publisher:         publisher,
		simulator:         simulator,
		schedule:          schedule,
		reconcileSchedule: reconcileSchedule,
		now:               time.Now,
		cron:              cron.New(cron.WithParser(scheduleParser)),
		logger:            logger.With("component", "courier_tracking_job"),
		tracks:            make(map[kernel.UUID]*tracked),
		ctx:               ctx,
		cancel:            cancel,
	}
}

// Start picks up the requests that already have a courier, then follows transitions
// and courier moves.
func (j *CourierTrackingJob) Start() error {
	if _, err := scheduleParser.Parse(j.schedule); err != nil {
		return err
	}

	if err := j.reconcile(j.ctx); err != nil {
		return err
	}

	if _, err := j.cron.AddFunc(j.reconcileSchedule, func() {
		if err := j.reconcile(j.ctx); err != nil {
			j.logger.ErrorContext(j.ctx, "Tracking reconcile failed", "error", err)
		}
	}); err != nil {
		return err
	}

	if j.subscriber != nil {
		events, unsubscribe := j.subscriber.Subscribe(256)
		j.unsubscribe = unsubscribe
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			for event := range events {
				j.onEvent(j.ctx, event)
			}
		}()
	}

	j.cron.Start()
	j.logger.InfoContext(j.ctx, "Courier tracking job started",
		"schedule", j.schedule, "reconcile_schedule", j.reconcileSchedule, "simulator", j.simulator.String())
	return nil
}

// Stop removes every entry and waits for pending route computations.
func (j *CourierTrackingJob) Stop() {
	if j.unsubscribe != nil {
		j.unsubscribe()
	}
	j.cancel()
	<-j.cron.Stop().Done()
	j.wg.Wait()
	j.logger.InfoContext(context.Background(), "Courier tracking job stopped")
}

func (j *CourierTrackingJob) onEvent(ctx context.Context, event ports.Event) {
	var requestID kernel.UUID
	switch event.Kind {
	case ports.EventRequestTransitioned:
		requestID = event.RequestID
	case ports.EventCourierPosition:
		// Ticks and relocations carry their request; a bare position is a courier move.
		if event.RequestID.Validate() == nil {
			return
		}
		active, err := j.requests.FindActiveByCourier(ctx, event.CourierID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return
		}
		if err != nil {
			j.logger.ErrorContext(ctx, "Could not find active request of moved courier",
				"courier_id", event.CourierID.String(), "error", err)
			return
		}
		// Only the pickup leg starts at the courier.
		if active.Status() != delivery.Accepted {
			return
		}
		requestID = active.ID()
	default:
		return
	}

	if err := j.Sync(ctx, requestID); err != nil {
		j.logger.ErrorContext(ctx, "Tracking update failed",
			"request_id", requestID.String(), "error", err)
	}
}

// reconcile syncs every tracked request and every request that should be tracked.
func (j *CourierTrackingJob) reconcile(ctx context.Context) error {
	j.mu.Lock()
	ids := make([]kernel.UUID, 0, len(j.tracks))
	seen := make(map[kernel.UUID]struct{}, len(j.tracks))
	for id := range j.tracks {
		ids = append(ids, id)
		seen[id] = struct{}{}
	}
	j.mu.Unlock()

	for _, status := range []delivery.Status{delivery.Accepted, delivery.PickedUp, delivery.ArrivedDestination} {
		active, err := j.requests.List(ctx, ports.RequestFilter{Status: &status})
		if err != nil {
			return err
		}
		for _, r := range active {
			if _, ok := seen[r.ID()]; ok {
				continue
			}
			ids = append(ids, r.ID())
			seen[r.ID()] = struct{}{}
		}
	}

	for _, id := range ids {
		if err := j.Sync(ctx, id); err != nil {
			j.logger.WarnContext(ctx, "Could not reconcile tracking",
				"request_id", id.String(), "error", err)
		}
	}
	return nil
}

// Sync brings the tracking of a request in line with its stored state: a delivered
// request stops being tracked and its courier is relocated to the dropoff; any other
// status with a courier tracks the current leg. A request whose status and leg are
// unchanged keeps its progress.
func (j *CourierTrackingJob) Sync(ctx context.Context, requestID kernel.UUID) error {
	request, err := j.requests.Get(ctx, requestID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		j.untrack(requestID)
		return nil
	}
	if err != nil {
		return err
	}

	courierID := request.Courier()
	if courierID == nil {
		j.untrack(requestID)
		return nil
	}

	if request.Status() == delivery.Delivered {
		j.untrack(requestID)
		return j.relocate(ctx, request, *courierID)
	}

	c, err := j.couriers.Get(ctx, *courierID)
	if err != nil {
		return err
	}
	leg, err := request.ActiveLeg(c.Location())
	if err != nil {
		return err
	}

	if j.isCurrent(requestID, request.Status(), leg) {
		return nil
	}
	j.retrack(requestID, *courierID, request.Status(), leg)
	return nil
}

func (j *CourierTrackingJob) isCurrent(requestID kernel.UUID, status delivery.Status, leg delivery.Leg) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	current, ok := j.tracks[requestID]
	return ok && current.status == status && current.leg.SameEndpoints(leg)
}

// retrack bumps the generation, drops the previous entry and requests the new route.
// A leg with the same endpoints as the current one reuses its path.
func (j *CourierTrackingJob) retrack(requestID, courierID kernel.UUID, status delivery.Status, leg delivery.Leg) {
	j.mu.Lock()
	j.generation++
	generation := j.generation

	var reuse *route.Path
	if previous, ok := j.tracks[requestID]; ok {
		j.cron.Remove(previous.entry)
		if previous.track != nil && previous.leg.SameEndpoints(leg) {
			path := previous.track.Path()
			reuse = &path
		}
	}
	j.tracks[requestID] = &tracked{
		generation: generation,
		courierID:  courierID,
		status:     status,
		leg:        leg,
	}
	j.mu.Unlock()

	if reuse != nil {
		j.install(requestID, generation, *reuse)
		return
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		path, err := j.routes.ComputeRoute(j.ctx, leg.Origin(), leg.Destination())
		if err != nil {
			j.logger.ErrorContext(j.ctx, "Route computation failed",
				"request_id", requestID.String(), "error", err)
			return
		}
		j.install(requestID, generation, path)
	}()
}

// install attaches the path to the tracked request and schedules its ticks, unless the
// request moved on to another generation meanwhile.
func (j *CourierTrackingJob) install(requestID kernel.UUID, generation uint64, path route.Path) {
	j.mu.Lock()
	defer j.mu.Unlock()

	current, ok := j.tracks[requestID]
	if !ok || current.generation != generation {
		j.logger.DebugContext(j.ctx, "Discarding stale route", "request_id", requestID.String())
		return
	}

	track, err := services.NewTrack(current.leg, path)
	if err != nil {
		j.logger.ErrorContext(j.ctx, "Could not start track", "request_id", requestID.String(), "error", err)
		return
	}

	entry, err := j.cron.AddFunc(j.schedule, func() { j.tick(requestID, generation) })
	if err != nil {
		j.logger.ErrorContext(j.ctx, "Could not schedule track", "request_id", requestID.String(), "error", err)
		return
	}
	current.track = track
	current.entry = entry
}

func (j *CourierTrackingJob) tick(requestID kernel.UUID, generation uint64) {
	j.mu.Lock()
	current, ok := j.tracks[requestID]
	if !ok || current.generation != generation || current.track == nil {
		j.mu.Unlock()
		return
	}
	position, err := current.track.Tick(j.simulator)
	courierID := current.courierID
	j.mu.Unlock()

	if err != nil {
		j.logger.ErrorContext(j.ctx, "Track tick failed", "request_id", requestID.String(), "error", err)
		return
	}

	j.publisher.Publish(j.ctx, ports.Event{
		Kind:       ports.EventCourierPosition,
		OccurredAt: j.now(),
		RequestID:  requestID,
		CourierID:  courierID,
		Position:   position,
	})
}

func (j *CourierTrackingJob) untrack(requestID kernel.UUID) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if previous, ok := j.tracks[requestID]; ok {
		j.cron.Remove(previous.entry)
		delete(j.tracks, requestID)
	}
}

// relocate moves the courier of a delivered request to its dropoff. A courier already
// standing there, or already on another request, is left alone, so repeated syncs of the
// same delivery relocate at most once.
func (j *CourierTrackingJob) relocate(ctx context.Context, request *delivery.Request, courierID kernel.UUID) error {
	dropoff, ok := request.Place(delivery.StopDropoff)
	if !ok {
		return delivery.ErrStopNotResolved
	}

	c, err := j.couriers.Get(ctx, courierID)
	if err != nil {
		return err
	}
	there, err := c.Location().IsEqual(dropoff.Location())
	if err != nil {
		return err
	}
	if there {
		return nil
	}
	_, err = j.requests.FindActiveByCourier(ctx, courierID)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = c.MoveTo(dropoff.Location()); err != nil {
		return err
	}
	if err = j.couriers.Update(ctx, c); err != nil {
		return fmt.Errorf("relocate courier to dropoff: %w", err)
	}

	j.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventCourierPosition,
		OccurredAt: j.now(),
		RequestID:  request.ID(),
		CourierID:  courierID,
		Position:   dropoff.Location(),
	})
	return nil
}

// Snapshot returns the simulated state of a tracked request whose route is ready.
func (j *CourierTrackingJob) Snapshot(requestID kernel.UUID) (queries.TrackSnapshot, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	current, ok := j.tracks[requestID]
	if !ok || current.track == nil {
		return queries.TrackSnapshot{}, false
	}
	position, err := current.track.Position(j.simulator)
	if err != nil {
		return queries.TrackSnapshot{}, false
	}
	return queries.TrackSnapshot{
		Leg:      current.track.Leg(),
		Path:     current.track.Path(),
		Position: position,
		Progress: current.track.Progress(),
	}, true
}
