package http

import (
	"context"
	"log/slog"
	"net/http"

	"courier-dispatch/internal/core/application/usecases/commands"
	"courier-dispatch/internal/core/application/usecases/queries"
	"courier-dispatch/internal/core/domain/model/delivery"
	"courier-dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// CommandHandler is satisfied by every command handler of the application layer.
type CommandHandler[C any] interface {
	Handle(ctx context.Context, cmd C) error
}

// QueryHandler is satisfied by every query handler of the application layer.
type QueryHandler[Q, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Handlers groups the use cases the API exposes.
type Handlers struct {
	CreateRequest      CommandHandler[commands.CreateRequestCommand]
	UpdateAddress      CommandHandler[commands.UpdateRequestAddressCommand]
	AdvanceStatus      CommandHandler[commands.AdvanceStatusCommand]
	CreateCourier      CommandHandler[commands.CreateCourierCommand]
	MoveCourier        CommandHandler[commands.MoveCourierCommand]
	ChangeAvailability CommandHandler[commands.ChangeCourierAvailabilityCommand]
	AcceptOffer        CommandHandler[commands.AcceptOfferCommand]
	DeclineOffer       CommandHandler[commands.DeclineOfferCommand]

	GetRequest      QueryHandler[queries.GetRequestQuery, *delivery.Request]
	GetRequests     QueryHandler[queries.GetRequestsQuery, []*delivery.Request]
	GetActiveRoute  QueryHandler[queries.GetActiveRouteQuery, queries.GetActiveRouteQueryResponse]
	GetAllCouriers  QueryHandler[queries.GetAllCouriersQuery, []queries.GetAllCouriersQueryResponse]
	GetCurrentOffer QueryHandler[queries.GetCurrentOfferQuery, queries.GetCurrentOfferQueryResponse]
}

type Option func(*Server)

// WithEventStream enables GET /stream, fed by subscriber.
func WithEventStream(subscriber ports.EventSubscriber) Option {
	return func(s *Server) {
		s.events = subscriber
	}
}

// WithMetrics records every request with observer and serves handler on GET /metrics.
func WithMetrics(observer RequestObserver, handler http.Handler) Option {
	return func(s *Server) {
		s.observer = observer
		s.metricsHandler = handler
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server exposes the dispatch use cases as a JSON API under /api/v1.
// Every mutating endpoint answers with the state re-read after the change.
type Server struct {
	handlers       Handlers
	events         ports.EventSubscriber
	observer       RequestObserver
	metricsHandler http.Handler
	logger         *slog.Logger
	upgrader       websocket.Upgrader
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, opts ...Option) *Server {
	s := &Server{
		handlers: handlers,
		logger:   slog.Default(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "http")
	return s
}

// Echo builds the echo instance with middleware and every route registered.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s.useMiddleware(e)
	s.RegisterRoutes(e)
	return e
}

// RegisterRoutes mounts the API, the event stream and the operational endpoints on e.
// Requests under /api/v1 are validated against the embedded OpenAPI document, which is
// served on /openapi.yaml and browsable on /swagger/index.html.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	if s.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}
	if s.events != nil {
		e.GET("/stream", s.Stream)
	}

	e.GET("/openapi.yaml", s.ServeOpenAPI)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))

	api := e.Group("/api/v1", s.validateRequest(apiRouter()))

	api.POST("/requests", s.CreateRequest)
	api.GET("/requests", s.GetRequests)
	api.GET("/requests/:id", s.GetRequest)
	api.PUT("/requests/:id/pickup", s.UpdatePickup)
	api.PUT("/requests/:id/dropoff", s.UpdateDropoff)
	api.POST("/requests/:id/status", s.AdvanceStatus)
	api.GET("/requests/:id/route", s.GetActiveRoute)

	api.POST("/couriers", s.CreateCourier)
	api.GET("/couriers", s.GetCouriers)
	api.PUT("/couriers/:id/location", s.MoveCourier)
	api.POST("/couriers/:id/online", s.GoOnline)
	api.POST("/couriers/:id/offline", s.GoOffline)
	api.GET("/couriers/:id/offer", s.GetCurrentOffer)
	api.POST("/couriers/:id/offer/accept", s.AcceptOffer)
	api.POST("/couriers/:id/offer/decline", s.DeclineOffer)
}
