package jobs

import (
	"context"
	"log/slog"
	"sync"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/ports"

	"github.com/robfig/cron/v3"
)

type offerRefresher interface {
	Handle(ctx context.Context, cmd commands.RefreshOffersCommand) error
}

// OfferRefreshJob keeps the couriers' current offers in line with the pending requests.
// It re-evaluates offers whenever a request or courier changes, and on a schedule as a
// safety net for anything an event could not trigger.
type OfferRefreshJob struct {
	handler    offerRefresher
	subscriber ports.EventSubscriber
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger

	unsubscribe func()
	wg          sync.WaitGroup
}

// NewOfferRefreshJob creates the job. subscriber may be nil, leaving only the schedule.
func NewOfferRefreshJob(
	handler offerRefresher,
	subscriber ports.EventSubscriber,
	schedule string,
	logger *slog.Logger,
) *OfferRefreshJob {
	return &OfferRefreshJob{
		handler:    handler,
		subscriber: subscriber,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(scheduleParser)),
		logger:     logger.With("component", "offer_refresh_job"),
	}
}

// Start installs the scheduled refresh and begins listening for events.
func (j *OfferRefreshJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.refresh(context.Background(), commands.NewRefreshOffersCommand())
	})
	if err != nil {
		return err
	}

	if j.subscriber != nil {
		events, unsubscribe := j.subscriber.Subscribe(256)
		j.unsubscribe = unsubscribe
		j.wg.Add(1)
		go func() {
			defer j.wg.Done()
			for event := range events {
				j.onEvent(context.Background(), event)
			}
		}()
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Offer refresh job started", "schedule", j.schedule)
	return nil
}

// Stop stops the job and waits for a running refresh to finish.
func (j *OfferRefreshJob) Stop() {
	<-j.cron.Stop().Done()
	if j.unsubscribe != nil {
		j.unsubscribe()
	}
	j.wg.Wait()
	j.logger.InfoContext(context.Background(), "Offer refresh job stopped")
}

// onEvent maps an event to the narrowest refresh that covers it. Presented offers are
// ignored since a refresh produces them itself.
func (j *OfferRefreshJob) onEvent(ctx context.Context, event ports.Event) {
	switch event.Kind {
	case ports.EventRequestCreated, ports.EventRequestUpdated, ports.EventRequestTransitioned:
		j.refresh(ctx, commands.NewRefreshOffersCommand())
	case ports.EventCourierAvailability:
		if event.Online {
			j.refreshCourier(ctx, event.CourierID)
		}
	case ports.EventOfferWithdrawn:
		j.refreshCourier(ctx, event.CourierID)
	case ports.EventOfferPresented, ports.EventCourierPosition:
	}
}

func (j *OfferRefreshJob) refreshCourier(ctx context.Context, courierID kernel.UUID) {
	cmd, err := commands.NewRefreshCourierOfferCommand(courierID)
	if err != nil {
		j.logger.WarnContext(ctx, "Skipping refresh for invalid courier", "error", err)
		return
	}
	j.refresh(ctx, cmd)
}

func (j *OfferRefreshJob) refresh(ctx context.Context, cmd commands.RefreshOffersCommand) {
	if err := j.handler.Handle(ctx, cmd); err != nil {
		j.logger.ErrorContext(ctx, "Offer refresh failed", "error", err)
	}
}
