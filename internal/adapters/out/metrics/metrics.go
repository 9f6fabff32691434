// Package metrics exposes the service's Prometheus collectors and adapts them to the
// small recorder interfaces the application layer depends on.
package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics implements geocoding.Recorder, routing.Recorder, commands.TransitionRecorder
// and the counters handed to httpx and the event bus.
type Metrics struct {
	geocodeResolutions *prometheus.CounterVec
	routeComputations  *prometheus.CounterVec
	statusTransitions  *prometheus.CounterVec
	gatewayRetries     prometheus.Counter
	droppedEvents      prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg. A collector that is already
// registered is reused, so calling New twice against the same registry is safe.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		geocodeResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "geocode_resolutions_total",
			Help: "Address resolutions by outcome (precision tier or not_found)",
		}, []string{"outcome"}),
		routeComputations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "route_computations_total",
			Help: "Computed leg paths by source",
		}, []string{"source"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "request_status_transitions_total",
			Help: "Committed delivery request transitions by target status",
		}, []string{"status"}),
		gatewayRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gateway_retries_total",
			Help: "Total number of retry attempts performed by outbound gateways",
		}),
		droppedEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "event_bus_dropped_total",
			Help: "Events not delivered because a subscriber buffer was full",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}

	var err error
	if m.geocodeResolutions, err = register(reg, "geocode_resolutions_total", m.geocodeResolutions); err != nil {
		return nil, err
	}
	if m.routeComputations, err = register(reg, "route_computations_total", m.routeComputations); err != nil {
		return nil, err
	}
	if m.statusTransitions, err = register(reg, "request_status_transitions_total", m.statusTransitions); err != nil {
		return nil, err
	}
	if m.gatewayRetries, err = register(reg, "gateway_retries_total", m.gatewayRetries); err != nil {
		return nil, err
	}
	if m.droppedEvents, err = register(reg, "event_bus_dropped_total", m.droppedEvents); err != nil {
		return nil, err
	}
	if m.httpRequests, err = register(reg, "http_requests_total", m.httpRequests); err != nil {
		return nil, err
	}
	if m.httpDuration, err = register(reg, "http_request_duration_seconds", m.httpDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, name string, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("register %s: %w", name, err)
	}
	return c, nil
}

func (m *Metrics) ObserveResolution(outcome string) {
	m.geocodeResolutions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRoute(source string) {
	m.routeComputations.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveTransition(status string) {
	m.statusTransitions.WithLabelValues(status).Inc()
}

// ObserveHTTP records one served request. path must be the route pattern, not the raw URL.
func (m *Metrics) ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	m.httpRequests.WithLabelValues(method, path, code).Inc()
	m.httpDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

func (m *Metrics) GatewayRetries() prometheus.Counter {
	return m.gatewayRetries
}

func (m *Metrics) DroppedEvents() prometheus.Counter {
	return m.droppedEvents
}
