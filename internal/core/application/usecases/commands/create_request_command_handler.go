package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrPickupNotResolved is joined with the resolver error when the pickup address has no match.
	ErrPickupNotResolved = errors.New("pickup address could not be resolved")
	// ErrDropoffNotResolved is joined with the resolver error when the dropoff address has no match.
	ErrDropoffNotResolved = errors.New("dropoff address could not be resolved")
)

// CreateRequestCommandHandler resolves both addresses of a new request and stores it as PENDING.
//
// Pickup and dropoff are resolved concurrently; if either fails the request is not created.
type CreateRequestCommandHandler struct {
	requests  ports.RequestRepository
	resolver  AddressResolver
	publisher ports.EventPublisher
	recorder  TransitionRecorder
	now       Clock
}

func NewCreateRequestCommandHandler(
	requests ports.RequestRepository,
	resolver AddressResolver,
	publisher ports.EventPublisher,
	recorder TransitionRecorder,
	now Clock,
) CreateRequestCommandHandler {
	return CreateRequestCommandHandler{
		requests:  requests,
		resolver:  resolver,
		publisher: orNopPublisher(publisher),
		recorder:  orNopRecorder(recorder),
		now:       orSystemClock(now),
	}
}

// Handle resolves, creates and persists the request, then publishes request.created.
func (h *CreateRequestCommandHandler) Handle(ctx context.Context, cmd CreateRequestCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	var pickup, dropoff kernel.Place
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		place, err := h.resolver.Resolve(gctx, cmd.Pickup())
		if err != nil {
			return errors.Join(ErrPickupNotResolved, err)
		}
		pickup = place
		return nil
	})
	g.Go(func() error {
		place, err := h.resolver.Resolve(gctx, cmd.Dropoff())
		if err != nil {
			return errors.Join(ErrDropoffNotResolved, err)
		}
		dropoff = place
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	request, err := delivery.NewRequest(
		cmd.RequestID(),
		cmd.Item(),
		cmd.Recipient(),
		cmd.Pickup(),
		cmd.Dropoff(),
		cmd.PaymentMethod(),
		cmd.Payer(),
		h.now(),
	)
	if err != nil {
		return err
	}
	if err = errors.Join(
		request.ResolveStop(delivery.StopPickup, pickup),
		request.ResolveStop(delivery.StopDropoff, dropoff),
	); err != nil {
		return err
	}

	if err = h.requests.Add(ctx, request); err != nil {
		return err
	}

	h.recorder.ObserveTransition(request.Status().String())
	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventRequestCreated,
		OccurredAt: h.now(),
		Request:    request.Clone(),
		RequestID:  request.ID(),
	})
	return nil
}
