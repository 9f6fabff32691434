package commands

import (
	"context"
	"errors"

	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/pkg/errs"
)

// UpdateRequestAddressCommandHandler changes an address and re-resolves it.
//
// The old coordinates are dropped as soon as the address changes, so a request is never
// stored with a new address and stale coordinates. Re-submitting the same address is a no-op.
type UpdateRequestAddressCommandHandler struct {
	requests  ports.RequestRepository
	resolver  AddressResolver
	publisher ports.EventPublisher
	now       Clock
}

func NewUpdateRequestAddressCommandHandler(
	requests ports.RequestRepository,
	resolver AddressResolver,
	publisher ports.EventPublisher,
	now Clock,
) UpdateRequestAddressCommandHandler {
	return UpdateRequestAddressCommandHandler{
		requests:  requests,
		resolver:  resolver,
		publisher: orNopPublisher(publisher),
		now:       orSystemClock(now),
	}
}

// Handle applies the new address. The write only succeeds while the stored request is
// still PENDING; losing that race yields delivery.ErrRequestNotEditable.
func (h *UpdateRequestAddressCommandHandler) Handle(ctx context.Context, cmd UpdateRequestAddressCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	request, err := h.requests.Get(ctx, cmd.RequestID())
	if err != nil {
		return err
	}

	changed, err := request.ChangeAddress(cmd.Stop(), cmd.Address())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	place, err := h.resolver.Resolve(ctx, cmd.Address())
	if err != nil {
		if cmd.Stop() == delivery.StopPickup {
			return errors.Join(ErrPickupNotResolved, err)
		}
		return errors.Join(ErrDropoffNotResolved, err)
	}
	if err = request.ResolveStop(cmd.Stop(), place); err != nil {
		return err
	}

	if err = h.requests.Update(ctx, request, delivery.Pending); err != nil {
		if errors.Is(err, errs.ErrObjectConflict) {
			return delivery.ErrRequestNotEditable
		}
		return err
	}

	h.publisher.Publish(ctx, ports.Event{
		Kind:       ports.EventRequestUpdated,
		OccurredAt: h.now(),
		Request:    request.Clone(),
		RequestID:  request.ID(),
	})
	return nil
}
