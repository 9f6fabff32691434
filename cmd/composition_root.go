package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpapi "courier-dispatch/internal/adapters/in/http"
	"courier-dispatch/internal/adapters/out/eventbus"
	"courier-dispatch/internal/adapters/out/fakegeo"
	"courier-dispatch/internal/adapters/out/memory/courierrepo"
	"courier-dispatch/internal/adapters/out/memory/requestrepo"
	"courier-dispatch/internal/adapters/out/memory/sessionstore"
	"courier-dispatch/internal/adapters/out/metrics"
	"courier-dispatch/internal/adapters/out/nominatim"
	"courier-dispatch/internal/adapters/out/ors"
	"courier-dispatch/internal/adapters/out/osrm"
	gormcourierrepo "courier-dispatch/internal/adapters/out/postgres/courierrepo"
	gormrequestrepo "courier-dispatch/internal/adapters/out/postgres/requestrepo"
	"courier-dispatch/internal/adapters/out/redis/geocache"
	"courier-dispatch/internal/core/application/geocoding"
	"courier-dispatch/internal/core/application/routing"
	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/kernel"
	"courier-dispatch/internal/core/domain/services"
	"courier-dispatch/internal/core/ports"
	"courier-dispatch/internal/jobs"
	"courier-dispatch/internal/pkg/httpx"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	retryBaseDelay = 200 * time.Millisecond
	retryMaxDelay  = 2 * time.Second
)

// CompositionRoot owns every long-lived dependency and builds handlers on demand.
type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics.Metrics

	requests ports.RequestRepository
	couriers ports.CourierRepository
	sessions ports.SessionStore
	bus      *eventbus.Bus

	resolver *geocoding.Resolver
	engine   *routing.Engine

	trackingJob *jobs.CourierTrackingJob

	closers []func() error
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
		sessions: sessionstore.NewStore(),
	}

	var err error
	if err = c.registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}
	if c.metrics, err = metrics.New(c.registry); err != nil {
		return nil, err
	}
	c.bus = eventbus.NewBus(c.metrics.DroppedEvents(), logger)

	if err = c.openStorage(ctx); err != nil {
		return nil, errors.Join(err, c.Close())
	}

	geocoder, err := c.newGeocoder(ctx)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}
	c.resolver, err = geocoding.NewResolver(geocoder,
		geocoding.WithRegion(cfg.GeocodeRegion),
		geocoding.WithRecorder(c.metrics),
		geocoding.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.Join(err, c.Close())
	}

	c.engine = routing.NewEngine(c.newRouter(),
		routing.WithRecorder(c.metrics),
		routing.WithLogger(logger),
	)

	return c, nil
}

func (c *CompositionRoot) openStorage(ctx context.Context) error {
	if c.cfg.Storage == StorageMemory {
		c.requests = requestrepo.NewMemoryRequestRepository()
		c.couriers = courierrepo.NewMemoryCourierRepository()
		return nil
	}

	db, err := gorm.Open(postgres.Open(c.cfg.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)

	if err = sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	if err = db.WithContext(ctx).AutoMigrate(&gormrequestrepo.RequestDTO{}, &gormcourierrepo.CourierDTO{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	c.requests = gormrequestrepo.NewGormRequestRepository(db)
	c.couriers = gormcourierrepo.NewGormCourierRepository(db)
	return nil
}

func (c *CompositionRoot) newGeocoder(ctx context.Context) (ports.Geocoder, error) {
	var geocoder ports.Geocoder
	switch c.cfg.Geocoder {
	case GeocoderDeterministic:
		center, err := kernel.NewLocation(c.cfg.MapCenterLat, c.cfg.MapCenterLng)
		if err != nil {
			return nil, fmt.Errorf("map center: %w", err)
		}
		if geocoder, err = fakegeo.NewGeocoder(center, fakegeo.DefaultSpread); err != nil {
			return nil, err
		}
	case GeocoderORS:
		geocoder = ors.NewGeocoder(c.orsClient())
	default:
		geocoder = nominatim.NewGeocoder(c.httpClient("nominatim",
			httpx.WithRateLimit(c.cfg.GeocoderRPS),
			httpx.WithHeader("User-Agent", c.cfg.NominatimUserAgent),
		), c.cfg.NominatimURL)
	}

	if c.cfg.RedisAddr == "" {
		return geocoder, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.cfg.RedisAddr})
	c.closers = append(c.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return geocoding.NewCachedGeocoder(geocoder, geocache.NewCache(rdb, geocache.WithTTL(c.cfg.GeocodeCacheTTL)), c.logger)
}

func (c *CompositionRoot) newRouter() ports.Router {
	switch c.cfg.Router {
	case RouterNone:
		return nil
	case RouterORS:
		return ors.NewRouter(c.orsClient(), ors.DefaultProfile)
	default:
		return osrm.NewRouter(c.httpClient("osrm"), c.cfg.OSRMURL)
	}
}

func (c *CompositionRoot) orsClient() *ors.Client {
	return ors.NewClient(c.httpClient("ors", httpx.WithHeader("Authorization", c.cfg.ORSAPIKey)), c.cfg.ORSURL)
}

func (c *CompositionRoot) httpClient(service string, opts ...httpx.Option) *httpx.Client {
	return httpx.NewClient(append([]httpx.Option{
		httpx.WithTimeout(c.cfg.HTTPTimeout),
		httpx.WithRetry(httpx.RetryConfig{
			MaxAttempts: c.cfg.HTTPMaxAttempts,
			BaseDelay:   retryBaseDelay,
			MaxDelay:    retryMaxDelay,
		}),
		httpx.WithRetryCounter(c.metrics.GatewayRetries()),
		httpx.WithLogger(c.logger.With("service", service)),
	}, opts...)...)
}

// Close releases database and cache connections.
func (c *CompositionRoot) Close() error {
	var joined error
	for i := len(c.closers) - 1; i >= 0; i-- {
		joined = errors.Join(joined, c.closers[i]())
	}
	c.closers = nil
	return joined
}

func (c *CompositionRoot) CreateCreateRequestCommandHandler() commands.CreateRequestCommandHandler {
	return commands.NewCreateRequestCommandHandler(c.requests, c.resolver, c.bus, c.metrics, time.Now)
}

func (c *CompositionRoot) CreateUpdateRequestAddressCommandHandler() commands.UpdateRequestAddressCommandHandler {
	return commands.NewUpdateRequestAddressCommandHandler(c.requests, c.resolver, c.bus, time.Now)
}

func (c *CompositionRoot) CreateAdvanceStatusCommandHandler() commands.AdvanceStatusCommandHandler {
	return commands.NewAdvanceStatusCommandHandler(c.requests, c.bus, c.metrics, time.Now)
}

func (c *CompositionRoot) CreateCreateCourierCommandHandler() commands.CreateCourierCommandHandler {
	return commands.NewCreateCourierCommandHandler(c.couriers)
}

func (c *CompositionRoot) CreateMoveCourierCommandHandler() commands.MoveCourierCommandHandler {
	return commands.NewMoveCourierCommandHandler(c.couriers, c.bus, time.Now)
}

func (c *CompositionRoot) CreateChangeCourierAvailabilityCommandHandler() commands.ChangeCourierAvailabilityCommandHandler {
	return commands.NewChangeCourierAvailabilityCommandHandler(c.couriers, c.sessions, c.bus, time.Now)
}

func (c *CompositionRoot) CreateAcceptOfferCommandHandler() commands.AcceptOfferCommandHandler {
	return commands.NewAcceptOfferCommandHandler(c.requests, c.couriers, c.sessions, c.bus, c.metrics, time.Now)
}

func (c *CompositionRoot) CreateDeclineOfferCommandHandler() commands.DeclineOfferCommandHandler {
	return commands.NewDeclineOfferCommandHandler(c.requests, c.sessions, c.bus, time.Now)
}

func (c *CompositionRoot) CreateRefreshOffersCommandHandler() commands.RefreshOffersCommandHandler {
	return commands.NewRefreshOffersCommandHandler(
		c.requests, c.couriers, c.sessions, services.NewOfferMatcher(), c.bus, time.Now)
}

// CreateJobManager builds the offer refresh and courier tracking jobs. It must be called
// before CreateServer so route queries can read simulated positions.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	simulator, err := services.NewPositionSimulator(c.cfg.SimulationStep)
	if err != nil {
		return nil, err
	}

	refresh := c.CreateRefreshOffersCommandHandler()
	offerJob := jobs.NewOfferRefreshJob(&refresh, c.bus, c.cfg.OfferRefreshSchedule, c.logger)
	c.trackingJob = jobs.NewCourierTrackingJob(
		c.requests, c.couriers, c.engine, c.bus, c.bus, simulator,
		c.cfg.SimulationSchedule, c.cfg.TrackingReconcileSchedule, c.logger)

	return jobs.NewJobManager(offerJob, c.trackingJob), nil
}

func (c *CompositionRoot) CreateServer() *httpapi.Server {
	createRequest := c.CreateCreateRequestCommandHandler()
	updateAddress := c.CreateUpdateRequestAddressCommandHandler()
	advance := c.CreateAdvanceStatusCommandHandler()
	createCourier := c.CreateCreateCourierCommandHandler()
	moveCourier := c.CreateMoveCourierCommandHandler()
	availability := c.CreateChangeCourierAvailabilityCommandHandler()
	accept := c.CreateAcceptOfferCommandHandler()
	decline := c.CreateDeclineOfferCommandHandler()

	var tracks queries.TrackSource
	if c.trackingJob != nil {
		tracks = c.trackingJob
	}

	return httpapi.NewServer(httpapi.Handlers{
		CreateRequest:      &createRequest,
		UpdateAddress:      &updateAddress,
		AdvanceStatus:      &advance,
		CreateCourier:      &createCourier,
		MoveCourier:        &moveCourier,
		ChangeAvailability: &availability,
		AcceptOffer:        &accept,
		DeclineOffer:       &decline,

		GetRequest:      queries.NewGetRequestQueryHandler(c.requests),
		GetRequests:     queries.NewGetRequestsQueryHandler(c.requests),
		GetActiveRoute:  queries.NewGetActiveRouteQueryHandler(c.requests, c.couriers, c.engine, tracks),
		GetAllCouriers:  queries.NewGetAllCouriersQueryHandler(c.couriers, c.requests, c.sessions),
		GetCurrentOffer: queries.NewGetCurrentOfferQueryHandler(c.requests, c.sessions),
	},
		httpapi.WithEventStream(c.bus),
		httpapi.WithMetrics(c.metrics, promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})),
		httpapi.WithLogger(c.logger),
	)
}

// ApplySeed creates the couriers listed in the configured seed file, if any.
func (c *CompositionRoot) ApplySeed(ctx context.Context) error {
	if c.cfg.SeedFile == "" {
		return nil
	}
	seed, err := LoadSeed(c.cfg.SeedFile)
	if err != nil {
		return err
	}

	create := c.CreateCreateCourierCommandHandler()
	availability := c.CreateChangeCourierAvailabilityCommandHandler()
	if err = seed.Apply(ctx, &create, &availability); err != nil {
		return err
	}
	c.logger.InfoContext(ctx, "seed applied", "couriers", len(seed.Couriers))
	return nil
}
